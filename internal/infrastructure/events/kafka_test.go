package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestProducer_DisabledIsNoop(t *testing.T) {
	cases := map[string]struct {
		brokers []string
		topic   string
	}{
		"no brokers": {nil, "helpdesk.tickets"},
		"no topic":   {[]string{"localhost:9092"}, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewProducer(tc.brokers, tc.topic, zerolog.Nop())
			if p.Enabled() {
				t.Fatal("expected a disabled producer")
			}
			p.Publish(context.Background(), "ticket.created", map[string]any{"ticket_id": "t-1"})
			if err := p.Close(); err != nil {
				t.Errorf("close: %v", err)
			}
		})
	}
}

func TestProducer_EnabledWithBrokers(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "helpdesk.tickets", zerolog.Nop())
	defer p.Close()
	if !p.Enabled() {
		t.Fatal("expected an enabled producer")
	}
	if p.writer.Topic != "helpdesk.tickets" {
		t.Errorf("unexpected topic %q", p.writer.Topic)
	}
}
