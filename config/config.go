package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Listen       string
	VisitLogFile string
}

// Jupiter aggregator endpoints. Empty values fall back to the public
// mainnet endpoints at the use site.
type JupiterConfig struct {
	QuoteURL      string
	SwapURL       string
	PriceURL      string
	StrictListURL string
	AllListURL    string
	SlippageBps   int64

	// price impact presentation bands, fractions of 1
	ImpactMedium float64
	ImpactHigh   float64
}

type SolanaConfig struct {
	RPCURL string
}

type GenAIConfig struct {
	APIKey string
	Model  string
}

// one database one instance
type PostgresqlConfig struct {
	Host       string
	Port       int64
	Account    string
	Password   string
	DBName     string
	SchemaName string
}

type RedisConfig struct {
	Host         string `mapstructure:"Host"`
	DB           int64  `mapstructure:"DB"`
	Password     string `mapstructure:"Password"`
	MinIdleConns int64  `mapstructure:"MinIdleConns"`
}

type KafkaConfig struct {
	Host      string
	SwapTopic string
	Protocol  string
	Username  string
	Password  string
	CAPath    string
}

type TokenEntryConfig struct {
	Symbol    string
	Name      string
	Mint      string
	Decimals  int64
	RiskClass string
}

type MCPConfig struct {
	ConfigFile string
}

// struct decode must has tag
type Config struct {
	ServerConf     ServerConfig       `mapstructure:"ServerConfig"`
	JupiterConf    JupiterConfig      `mapstructure:"JupiterConfig"`
	SolanaConf     SolanaConfig       `mapstructure:"SolanaConfig"`
	GenAIConf      GenAIConfig        `mapstructure:"GenAIConfig"`
	PostgresqlConf PostgresqlConfig   `mapstructure:"PostgresqlConfig"`
	RedisConf      RedisConfig        `mapstructure:"RedisConfig"`
	KafkaConf      KafkaConfig        `mapstructure:"KafkaConfig"`
	TokenConf      []TokenEntryConfig `mapstructure:"TokenConfig"`
	MCPConf        MCPConfig          `mapstructure:"MCPConfig"`
}

var (
	configMutex = sync.RWMutex{}
	config      Config

	configViper     *viper.Viper
	configFlyChange []chan bool
)

func RegistConfChange(c chan bool) {
	configFlyChange = append(configFlyChange, c)
}

func notifyConfChange() {
	for i := 0; i < len(configFlyChange); i++ {
		configFlyChange[i] <- true
	}
}

func watchConfig(c *viper.Viper) error {
	c.WatchConfig()
	cfn := func(e fsnotify.Event) {
		logger.Logrus.WithFields(logrus.Fields{"change": e.String()}).Info("config change and reload it")
		reloadConfig(c)
		notifyConfChange()
	}

	c.OnConfigChange(cfn)
	return nil
}

func LoadConf(configFilePath string) error {
	config = Config{}
	configMutex.Lock()
	defer configMutex.Unlock()

	configViper = viper.New()
	configViper.SetConfigName("config")
	configViper.AddConfigPath(configFilePath) //endwith "/"
	configViper.SetConfigType("yaml")

	if err := configViper.ReadInConfig(); err != nil {
		return err
	}
	if err := configViper.Unmarshal(&config); err != nil {
		return err
	}

	logger.Logrus.WithFields(logrus.Fields{"Config": config}).Info("Load config success")

	if err := watchConfig(configViper); err != nil {
		return err
	}
	return nil
}

func reloadConfig(c *viper.Viper) {
	configMutex.Lock()
	defer configMutex.Unlock()

	if err := c.ReadInConfig(); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("config ReLoad failed")
	}

	if err := configViper.Unmarshal(&config); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("unmarshal config failed")
	}

	logger.Logrus.WithFields(logrus.Fields{"config": config}).Info("Config ReLoad Success")
}

func GetServerConfig() ServerConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.ServerConf
}

func GetJupiterConfig() JupiterConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.JupiterConf
}

func GetSolanaConfig() SolanaConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.SolanaConf
}

func GetGenAIConfig() GenAIConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.GenAIConf
}

func GetPostgresqlConfig() PostgresqlConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.PostgresqlConf
}

func GetRedisConfig() RedisConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.RedisConf
}

func GetKafkaConfig() KafkaConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.KafkaConf
}

func GetTokenConfig() []TokenEntryConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.TokenConf
}

func GetMCPConfig() MCPConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return config.MCPConf
}
