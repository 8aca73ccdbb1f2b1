package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}, ClientID: "pricing"})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.transport == nil || p.transport.ClientID != "pricing" {
		t.Errorf("expected transport with client id, got %+v", p.transport)
	}
	if p.transport.TLS != nil || p.transport.SASL != nil {
		t.Error("expected plaintext transport by default")
	}
}

func TestNewProducerSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantSASL  string
		wantError bool
	}{
		{name: "plain", cfg: Config{SASLEnabled: true, SASLMechanism: "PLAIN", SASLUsername: "u", SASLPassword: "p"}, wantSASL: "PLAIN"},
		{name: "default mechanism is plain", cfg: Config{SASLEnabled: true, SASLUsername: "u", SASLPassword: "p"}, wantSASL: "PLAIN"},
		{name: "scram sha-512", cfg: Config{SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}, wantSASL: "SCRAM-SHA-512"},
		{name: "unknown mechanism", cfg: Config{SASLEnabled: true, SASLMechanism: "GSSAPI"}, wantError: true},
		{name: "mechanism ignored when disabled", cfg: Config{SASLMechanism: "GSSAPI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(tt.cfg)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProducer() error = %v", err)
			}
			got := ""
			if p.transport.SASL != nil {
				got = p.transport.SASL.Name()
			}
			if got != tt.wantSASL {
				t.Errorf("SASL mechanism = %q, want %q", got, tt.wantSASL)
			}
		})
	}
}

func TestNewProducerTLS(t *testing.T) {
	p, err := NewProducer(Config{TLS: true})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if p.transport.TLS == nil {
		t.Fatal("expected TLS config")
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}

	w1 := p.getOrCreateWriter("pricing.quotes")
	w2 := p.getOrCreateWriter("pricing.quotes")
	if w1 != w2 {
		t.Error("expected same writer instance for same topic")
	}
	if w1.Transport != p.transport {
		t.Error("expected writer to share the producer transport")
	}

	w3 := p.getOrCreateWriter("pricing.rate-table")
	if w1 == w3 {
		t.Error("expected different writer instance for different topic")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}

func TestMessageConversion(t *testing.T) {
	in := Message{
		Key:     []byte("table-1"),
		Value:   []byte(`{"offer_count":4}`),
		Headers: map[string]string{"event_type": "pricing.rate_table.refreshed"},
	}

	km := toKafkaMessages([]Message{in})
	if len(km) != 1 || len(km[0].Headers) != 1 {
		t.Fatalf("unexpected kafka messages: %+v", km)
	}

	out := fromKafkaMessage(kafkago.Message{Key: km[0].Key, Value: km[0].Value, Headers: km[0].Headers})
	if string(out.Key) != "table-1" || string(out.Value) != `{"offer_count":4}` {
		t.Errorf("unexpected round trip: %+v", out)
	}
	if out.Headers["event_type"] != "pricing.rate_table.refreshed" {
		t.Errorf("unexpected headers: %v", out.Headers)
	}
}
