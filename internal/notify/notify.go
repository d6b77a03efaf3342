// Package notify is the notification gateway used for meeting summaries.
//
// Messages are handed to a Sender one at a time. The AMQP sender publishes them to a queue per
// channel where the email and WhatsApp workers pick them up.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

// Channel selects the delivery path of a message.
type Channel string

// Channels.
const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// ParseChannel reads a channel name. Empty means email.
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChannelEmail:
		return ChannelEmail, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	default:
		return "", apperr.Validation("unknown channel %q, expected email or whatsapp", s)
	}
}

// Message is one outbound notification to one recipient.
type Message struct {
	Channel Channel `json:"channel"`
	To      string  `json:"to"`
	Subject string  `json:"subject,omitempty"`
	Body    string  `json:"body"`
}

// Sender delivers a single message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Failure is a message that could not be sent.
type Failure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// Result aggregates a broadcast.
type Result struct {
	Total    int       `json:"total"`
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures"`
}

// Broadcast sends msgs sequentially, waiting delay between two sends.
// A cancelled ctx stops the loop and the unsent messages count as failed.
func Broadcast(ctx context.Context, sender Sender, msgs []Message, delay time.Duration) Result {
	res := Result{Total: len(msgs), Failures: []Failure{}}

	var timer *time.Timer
	if delay > 0 {
		timer = time.NewTimer(delay)
		timer.Stop()

		defer timer.Stop()
	}

	for i, msg := range msgs {
		if i > 0 && timer != nil {
			timer.Reset(delay)

			select {
			case <-ctx.Done():
				res.cancel(msgs[i:], ctx.Err())

				return res
			case <-timer.C:
			}
		}

		if err := ctx.Err(); err != nil {
			res.cancel(msgs[i:], err)

			return res
		}

		id, err := sender.Send(ctx, msg)
		if err != nil {
			log.Warn().Err(err).Str("channel", string(msg.Channel)).Str("to", msg.To).Msg("notification failed")

			res.Failed++
			res.Failures = append(res.Failures, Failure{Recipient: msg.To, Error: err.Error()})

			continue
		}

		log.Debug().Str("channel", string(msg.Channel)).Str("to", msg.To).Str("messageId", id).Msg("notification sent")

		res.Sent++
	}

	return res
}

func (r *Result) cancel(rest []Message, err error) {
	for _, msg := range rest {
		r.Failed++
		r.Failures = append(r.Failures, Failure{Recipient: msg.To, Error: err.Error()})
	}
}
