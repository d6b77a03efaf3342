package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
)

type fakeSender struct {
	failFor map[string]bool
	sent    []notify.Message
	at      []time.Time
	onSend  func(n int)
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) (string, error) {
	f.at = append(f.at, time.Now())

	if f.onSend != nil {
		f.onSend(len(f.at))
	}

	if f.failFor[msg.To] {
		return "", errors.New("mailbox unavailable")
	}

	f.sent = append(f.sent, msg)

	return fmt.Sprintf("id-%d", len(f.sent)), nil
}

func messages(to ...string) []notify.Message {
	msgs := make([]notify.Message, 0, len(to))
	for _, addr := range to {
		msgs = append(msgs, notify.Message{Channel: notify.ChannelEmail, To: addr, Subject: "Compte rendu", Body: "..."})
	}

	return msgs
}

func TestBroadcastCountsFailures(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"b@example.org": true}}

	res := notify.Broadcast(context.Background(), sender, messages("a@example.org", "b@example.org", "c@example.org"), 0)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "b@example.org", res.Failures[0].Recipient)
	assert.Equal(t, "mailbox unavailable", res.Failures[0].Error)
	assert.Len(t, sender.sent, 2)
}

func TestBroadcastWaitsBetweenSends(t *testing.T) {
	sender := &fakeSender{}
	delay := 20 * time.Millisecond

	res := notify.Broadcast(context.Background(), sender, messages("a@x", "b@x", "c@x"), delay)

	assert.Equal(t, 3, res.Sent)
	require.Len(t, sender.at, 3)

	for i := 1; i < len(sender.at); i++ {
		assert.GreaterOrEqual(t, sender.at[i].Sub(sender.at[i-1]), delay)
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &fakeSender{onSend: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	res := notify.Broadcast(ctx, sender, messages("a@x", "b@x", "c@x", "d@x"), time.Millisecond)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, res.Total, res.Sent+res.Failed)
	assert.Len(t, sender.at, 2)
}

func TestBroadcastEmpty(t *testing.T) {
	res := notify.Broadcast(context.Background(), &fakeSender{}, nil, time.Second)

	assert.Equal(t, notify.Result{Failures: []notify.Failure{}}, res)
}

func TestOpenDisabledUsesLogSender(t *testing.T) {
	sender, err := notify.Open(config.Notification{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, notify.LogSender{}, sender)

	id, err := sender.Send(context.Background(), notify.Message{Channel: notify.ChannelWhatsApp, To: "+33600000000"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestResultJSON(t *testing.T) {
	res := notify.Broadcast(context.Background(), &fakeSender{failFor: map[string]bool{"b@x": true}}, messages("a@x", "b@x"), 0)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":2,"sent":1,"failed":1,"failures":[{"recipient":"b@x","error":"mailbox unavailable"}]}`, string(out))
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    notify.Channel
		wantErr bool
	}{
		{in: "", want: notify.ChannelEmail},
		{in: "email", want: notify.ChannelEmail},
		{in: "WhatsApp", want: notify.ChannelWhatsApp},
		{in: " whatsapp ", want: notify.ChannelWhatsApp},
		{in: "sms", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ch, err := notify.ParseChannel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, apperr.ErrValidation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ch)
		})
	}
}
