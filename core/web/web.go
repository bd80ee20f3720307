package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/core/web/handler"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

func ServerRoute() *gin.Engine {
	router := gin.New()

	recoverFile, err := os.OpenFile("./log/recover.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil || recoverFile == nil {

		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("open recover log file failed")
		}
		if recoverFile == nil {
			logger.Logrus.Error("open recover log file failed:recoverFile is nil")
		}

		return nil
	}

	visitLogFile := config.GetServerConfig().VisitLogFile
	if visitLogFile == "" {
		visitLogFile = "./log/visit.log"
	}

	router.Use(MiddleLogger(visitLogFile), gin.RecoveryWithWriter(recoverFile))

	// http router
	api := router.Group("/api/v1")
	{
		api.GET("/tokens", handler.TokenListHandler)
		api.GET("/prices", handler.PriceHandler)
		api.GET("/mcpconfig", handler.MCPConfigHandler)
		api.GET("/swaps", handler.SwapHistoryHandler)

		api.POST("/quote", handler.QuoteHandler)
		api.POST("/swap", handler.SwapHandler)
		api.POST("/swap/transaction", handler.SwapTransactionHandler)
		api.POST("/swap/submit", handler.SwapSubmitHandler)
		api.POST("/portfolio/classify", handler.PortfolioHandler)
		api.POST("/assist/tooltip", handler.TooltipHandler)
		api.POST("/assist/chat", handler.ChatHandler)
	}

	return router
}

func Run() {
	router := ServerRoute()
	if router != nil {
		listen := config.GetServerConfig().Listen
		if listen == "" {
			listen = ":8080"
		}

		server := &http.Server{
			Addr:         listen,
			Handler:      router,
			ReadTimeout:  120 * time.Second,
			WriteTimeout: 120 * time.Second,
		}

		go func() {
			err := server.ListenAndServe()
			if err != nil {
				logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Fatal("Server start failed")
			}
		}()

		// Wait for interrupt signal to gracefully shutdown the server with
		// a timeout of 5 seconds.
		quit := make(chan os.Signal, 1)
		// kill (no param) default send syscall.SIGTERM
		// kill -2 is syscall.SIGINT
		// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err.Error()}).Error("Server forced to shutdown")
		}

		logger.Logrus.Info("Server shutdown")
	}
}
