// Package events streams confirmed swaps to Kafka for downstream
// consumers (activity feeds, analytics).
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

// one broker one producer
var kafkaClient *kafka.Producer
var once sync.Once

// GetKafkaInst returns the shared producer, nil when no broker is
// configured. Callers treat nil as "event stream disabled".
func GetKafkaInst() *kafka.Producer {
	once.Do(func() {
		cfg := config.GetKafkaConfig()
		if cfg.Host == "" {
			logger.Logrus.Info("kafka not configured, swap event stream disabled")
			return
		}

		var kafkaconf = &kafka.ConfigMap{
			"api.version.request": "true",
			"message.max.bytes":   1000000,
			"linger.ms":           10,
			"retries":             30,
			"retry.backoff.ms":    1000,
			"acks":                "1"}
		kafkaconf.SetKey("bootstrap.servers", cfg.Host)

		switch cfg.Protocol {
		case "plaintext":
			kafkaconf.SetKey("security.protocol", "plaintext")
		case "sasl_ssl":
			kafkaconf.SetKey("security.protocol", "sasl_ssl")
			kafkaconf.SetKey("sasl.username", cfg.Username)
			kafkaconf.SetKey("sasl.password", cfg.Password)
			kafkaconf.SetKey("sasl.mechanism", "PLAIN")
			kafkaconf.SetKey("enable.ssl.certificate.verification", "false")
			kafkaconf.SetKey("ssl.endpoint.identification.algorithm", "None")
			kafkaconf.SetKey("ssl.ca.location", cfg.CAPath)
		case "sasl_plaintext":
			kafkaconf.SetKey("sasl.mechanism", "PLAIN")
			kafkaconf.SetKey("security.protocol", "sasl_plaintext")
			kafkaconf.SetKey("sasl.username", cfg.Username)
			kafkaconf.SetKey("sasl.password", cfg.Password)
		default:
			logger.Logrus.WithFields(logrus.Fields{"Protocol": cfg.Protocol}).Error("unknown kafka protocol, swap event stream disabled")
			return
		}

		client, err := kafka.NewProducer(kafkaconf)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("connect kafka failed, swap event stream disabled")
			return
		}

		go func(p *kafka.Producer) {
			for e := range p.Events() {
				switch ev := e.(type) {
				case *kafka.Message:
					if ev.TopicPartition.Error != nil {
						logger.Logrus.WithFields(logrus.Fields{"Data": ev.TopicPartition}).Error("Delivery message failed")
					}
				}
			}
		}(client)

		kafkaClient = client
	})
	return kafkaClient
}

// InitKafka warms the producer at startup so the first confirmed swap
// does not pay the connection cost.
func InitKafka() {
	GetKafkaInst()
}

// SwapEvent is the JSON payload published after a confirmed swap.
type SwapEvent struct {
	Signature   string    `json:"signature"`
	InputMint   string    `json:"input_mint"`
	OutputMint  string    `json:"output_mint"`
	InAmount    uint64    `json:"in_amount"`
	OutAmount   uint64    `json:"out_amount"`
	Wallet      string    `json:"wallet"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// PublishSwapEvent fires one confirmed-swap event. Best effort: a
// disabled or failing producer never affects the swap result.
func PublishSwapEvent(event *SwapEvent) {
	producer := GetKafkaInst()
	if producer == nil {
		return
	}

	topic := config.GetKafkaConfig().SwapTopic
	if topic == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("marshal swap event failed")
		return
	}

	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Signature),
		Value:          payload,
	}, nil)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Signature": event.Signature, "ErrMsg": err}).Error("publish swap event failed")
	}
}
