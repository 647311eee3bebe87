package gap

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

// EventWriter is the part of kafka.Writer the service relies on.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// W is nil when no broker is configured, publishing is a no-op then.
var W EventWriter

type Event struct {
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	AccountID uint      `json:"account_id"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func InitializeToBroker() error {
	brokers := viper.GetStringSlice("events.brokers")
	if len(brokers) == 0 {
		log.Info().Msg("No event broker configured, social events will not be published.")
		return nil
	}

	W = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        viper.GetString("events.topic"),
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		Async:        true,
	}
	log.Info().Strs("brokers", brokers).Msg("Connected to event broker.")
	return nil
}

// AddEvent publishes a social event, failures are logged and never returned.
func AddEvent(event, resource string, account uint, data ...any) {
	if W == nil {
		return
	}

	payload := Event{
		Type:      event,
		Resource:  resource,
		AccountID: account,
		CreatedAt: time.Now(),
	}
	if len(data) > 0 {
		payload.Data = data[0]
	}

	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("An error occurred when encoding event...")
		metrics.EventsDropped.Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := W.WriteMessages(ctx, kafka.Message{Key: []byte(event), Value: raw}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("An error occurred when publishing event...")
		metrics.EventsDropped.Inc()
	}
}

func Close() {
	if W == nil {
		return
	}
	if err := W.Close(); err != nil {
		log.Error().Err(err).Msg("An error occurred when closing event broker connection...")
	}
}
