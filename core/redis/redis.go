package redis

import (
	"context"
	"sync"

	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"

	redis "github.com/go-redis/redis/v8"
)

const Nil = redis.Nil

// one DB one client
var redisClient *redis.Client
var once sync.Once

// GetRedisInst returns the shared redis client, nil when redis is not
// configured or unreachable. Callers treat nil as "cache disabled".
func GetRedisInst() *redis.Client {
	once.Do(func() {
		redisConfig := config.GetRedisConfig()
		if redisConfig.Host == "" {
			logger.Logrus.Info("redis not configured, response caching disabled")
			return
		}

		options := &redis.Options{
			Addr:         redisConfig.Host,
			Password:     redisConfig.Password,
			DB:           int(redisConfig.DB),
			MinIdleConns: int(redisConfig.MinIdleConns),
			PoolSize:     100,
		}

		client := redis.NewClient(options)

		// Ping the Redis server
		pong, err := client.Ping(context.Background()).Result()
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("connect redis failed, response caching disabled")
			return
		}

		logger.Logrus.WithFields(logrus.Fields{"PongMsg": pong}).Info("connect redis success")

		redisClient = client
	})
	return redisClient
}
