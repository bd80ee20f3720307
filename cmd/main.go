package main

import (
	"flag"
	"log"

	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/core/events"
	"github.com/jupymate/jupymate_navigator/core/web"
	"github.com/jupymate/jupymate_navigator/utils/logger"
)

func main() {
	configPath := flag.String("config_path", "./", "config file")
	logicLogFile := flag.String("logic_log_file", "./log/jupymate_navigator.log", "logic log file")
	flag.Parse()

	//init logic logger
	logger.Init(*logicLogFile)

	//set log level
	logger.SetLogLevel("debug")

	err := config.LoadConf(*configPath)
	if err != nil {
		log.Fatal("load config failed:", err)
	}

	events.InitKafka()

	web.Run()
}
