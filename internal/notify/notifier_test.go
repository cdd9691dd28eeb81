package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type captureSender struct {
	name  string
	sent  int
	title string
	err   error
}

func (c *captureSender) Send(ctx context.Context, title, message string) error {
	c.sent++
	c.title = title
	return c.err
}

func (c *captureSender) Name() string { return c.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyDeliversToAllSenders(t *testing.T) {
	a := &captureSender{name: "a"}
	b := &captureSender{name: "b"}
	n := NewNotifier([]Sender{a, b}, nil, discardLogger())

	if err := n.Notify(context.Background(), "funding_alert", "title", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if a.sent != 1 || b.sent != 1 {
		t.Errorf("expected one delivery per sender, got a=%d b=%d", a.sent, b.sent)
	}
}

func TestNotifyFiltersEvents(t *testing.T) {
	s := &captureSender{name: "a"}
	n := NewNotifier([]Sender{s}, []string{"funding_alert"}, discardLogger())

	if err := n.Notify(context.Background(), "other_event", "t", "m"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if s.sent != 0 {
		t.Error("filtered event must not reach senders")
	}

	if err := n.Notify(context.Background(), "funding_alert", "t", "m"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if s.sent != 1 {
		t.Error("allowed event must reach senders")
	}
}

func TestNotifyFailingSenderDoesNotBlockOthers(t *testing.T) {
	bad := &captureSender{name: "bad", err: errors.New("down")}
	good := &captureSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, discardLogger())

	err := n.Notify(context.Background(), "funding_alert", "t", "m")
	if err == nil {
		t.Fatal("expected an aggregated error")
	}
	if good.sent != 1 {
		t.Error("healthy sender must still deliver")
	}
}
