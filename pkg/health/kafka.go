package health

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker reports whether any broker backing the order event mirror
// accepts connections. Only registered when the mirror is configured.
type KafkaChecker struct {
	brokers []string
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers}
}

func (c *KafkaChecker) Name() string {
	return "kafka-event-mirror"
}

func (c *KafkaChecker) Check(ctx context.Context) Result {
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return Result{Status: StatusUp}
		}
	}
	return Result{Status: StatusDown, Message: "no event mirror broker reachable"}
}
