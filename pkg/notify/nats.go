package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/regatta-score-manager-go/log"
)

const DefaultSubject = "rsm.standings"

type (
	NatsPublisher struct {
		conn    *nats.Conn
		subject string
		l       *log.Logger
	}
	Option func(*NatsPublisher)
)

func WithSubject(subject string) Option {
	return func(p *NatsPublisher) {
		p.subject = subject
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *NatsPublisher) {
		p.l = l
	}
}

// NewNatsPublisher publishes events on <subject>.<regattaKey>
func NewNatsPublisher(conn *nats.Conn, opts ...Option) *NatsPublisher {
	ret := &NatsPublisher{
		conn:    conn,
		subject: DefaultSubject,
		l:       log.Default().Named("notify"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ConnectNats connects to url and returns a publisher owning the connection
func ConnectNats(url string, opts ...Option) (*NatsPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("rsm"))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return NewNatsPublisher(conn, opts...), nil
}

//nolint:whitespace // editor/linter issue
func (p *NatsPublisher) PublishStandingsChanged(
	ctx context.Context,
	evt *StandingsChanged,
) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	subject := SubjectFor(p.subject, evt)
	if err := p.conn.Publish(subject, data); err != nil {
		return err
	}
	p.l.Debug("published standings",
		log.String("subject", subject),
		log.Int("bytes", len(data)))
	return nil
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.l.Warn("drain nats connection", log.ErrorField(err))
	}
}

func SubjectFor(prefix string, evt *StandingsChanged) string {
	return fmt.Sprintf("%s.%s", prefix, evt.RegattaKey)
}
