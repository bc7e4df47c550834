package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/momcircle/matchd/internal/domain/interaction"
)

// Subject suffixes, each followed by the recipient user id.
const (
	SubjectMutualMatch  = "match.mutual"
	SubjectMagicRequest = "match.magic_request"
)

// Event types carried in the payload.
const (
	EventMutualMatch      = "mutual_match"
	EventMagicRequestSent = "magic_request_sent"
)

// publisher is the consumer interface for the NATS client (ISP).
type publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON payload delivered to the notification layer.
type Event struct {
	Type       string    `json:"type"`
	Recipient  string    `json:"recipient"`
	FromUser   string    `json:"from_user"`
	MatchID    string    `json:"match_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier implements the reciprocity Notifier.
type Notifier struct {
	pub    publisher
	prefix string
}

// NewNotifier creates a notifier publishing under prefix (e.g. "matchd").
func NewNotifier(pub publisher, prefix string) *Notifier {
	return &Notifier{pub: pub, prefix: prefix}
}

// MutualMatch tells both users about the new match.
func (n *Notifier) MutualMatch(_ context.Context, m interaction.Match) error {
	var errs []error
	for _, pair := range [][2]string{{m.UserLow, m.UserHigh}, {m.UserHigh, m.UserLow}} {
		ev := Event{
			Type:       EventMutualMatch,
			Recipient:  pair[0],
			FromUser:   pair[1],
			MatchID:    m.ID,
			OccurredAt: m.CreatedAt,
		}
		if err := n.publish(SubjectMutualMatch, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MagicRequestSent tells the recipient of a Magic-Match yes.
func (n *Notifier) MagicRequestSent(_ context.Context, a interaction.Action) error {
	return n.publish(SubjectMagicRequest, Event{
		Type:       EventMagicRequestSent,
		Recipient:  a.To,
		FromUser:   a.From,
		OccurredAt: a.CreatedAt,
	})
}

func (n *Notifier) publish(suffix string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	subject := n.subject(suffix, ev.Recipient)
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (n *Notifier) subject(suffix, recipient string) string {
	if n.prefix == "" {
		return suffix + "." + recipient
	}
	return n.prefix + "." + suffix + "." + recipient
}
