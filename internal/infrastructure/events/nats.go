package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"gig-market/internal/config"
	"gig-market/internal/usecase"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Envelope wraps every published payload.
type Envelope struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *log.Logger
}

func NewNatsPublisher(cfg config.NATSConfig, logger *log.Logger) (*NatsPublisher, error) {
	if logger == nil {
		logger = log.Default()
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("gig-market"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Printf("Events | nats disconnected err=%v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Printf("Events | nats reconnected url=%s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: nc, prefix: strings.Trim(cfg.SubjectPrefix, "."), logger: logger}, nil
}

// Subject prefixes subject with the configured namespace.
func (p *NatsPublisher) Subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := p.Subject(subject)
	b, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Subject:    full,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(full, b)
}

// Close flushes pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

// NewPublisher connects to NATS when a URL is configured and otherwise
// returns a publisher that drops events.
func NewPublisher(cfg config.NATSConfig, logger *log.Logger) (usecase.EventPublisher, func() error, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return Noop{}, func() error { return nil }, nil
	}
	p, err := NewNatsPublisher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

var (
	_ usecase.EventPublisher = (*NatsPublisher)(nil)
	_ usecase.EventPublisher = Noop{}
)
