// Package notify delivers trade and risk alerts. Notifications are
// dispatched to all configured senders (webhook, email) and filtered by
// event type so operators receive only the alerts they care about.
package notify

import (
	"context"
	"fmt"
	"strings"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "webhook").
	Name() string
}

// Notifier dispatches notifications to one or more Senders. It maintains a
// set of allowed event types; Notify only forwards messages whose event type
// is in the allowed set. An empty event list allows everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
}

var _ interfaces.Alerter = (*Notifier)(nil)

func NewNotifier(senders []Sender, events []string) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		e = strings.TrimSpace(e)
		if e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
	}
}

// Notify sends a notification to all senders only if the event type is in
// the allowed list.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		logger.Debug(ctx, "Alert filtered out", "event", event, "title", title)
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// dispatch iterates over all senders. A single sender failure does not
// prevent delivery to the remaining senders; failures are combined.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			logger.Warn(ctx, "Alert sender failed", "sender", s.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			logger.Debug(ctx, "Alert sent", "sender", s.Name(), "title", title)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
