package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL" required:"true"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Telegram notification channel. When the token or chat ID is empty the
	// dispatcher becomes a no-op instead of failing.
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string        `env:"TELEGRAM_CHAT_ID"`
	TelegramBaseURL  string        `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`
	TelegramTimeout  time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s"`

	// SSE stream
	StreamHeartbeatInterval time.Duration `env:"STREAM_HEARTBEAT_INTERVAL" envDefault:"25s"`
	StreamBufferSize        int           `env:"STREAM_BUFFER_SIZE" envDefault:"16"`

	// Optional Kafka mirror of order lifecycle events
	KafkaBrokers         []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderEventTopic string   `env:"KAFKA_ORDER_EVENT_TOPIC" envDefault:"storefront.orders"`

	// Optional OpenSearch sink for back-office order event search
	OpensearchUrls        []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexOrders string   `env:"OPENSEARCH_INDEX_ORDERS" envDefault:"order-events"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

// KafkaEnabled reports whether the Kafka event mirror is configured.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// OpensearchEnabled reports whether the OpenSearch event sink is configured.
func (c Config) OpensearchEnabled() bool {
	return len(c.OpensearchUrls) > 0
}
