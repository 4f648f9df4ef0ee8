package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/koifarm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	sent []*gomail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func TestSMTPNotifier_Send(t *testing.T) {
	client := &fakeSender{}
	n := newSMTPNotifier(client, "no-reply@koi.farm", "Koi Farm", zap.NewNop())

	err := n.Send(context.Background(), "mai@koi.farm", "Your Product Has Been Sold!", "<p>sold</p>")
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	msg := client.sent[0]
	assert.Equal(t, []string{"<mai@koi.farm>"}, msg.GetToString())
	assert.Equal(t, []string{"Your Product Has Been Sold!"}, msg.GetGenHeader(gomail.HeaderSubject))
	from := msg.GetFromString()
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "Koi Farm")
}

func TestSMTPNotifier_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty recipient", func(t *testing.T) {
		n := newSMTPNotifier(&fakeSender{}, "no-reply@koi.farm", "", zap.NewNop())
		assert.ErrorIs(t, n.Send(ctx, "", "t", "b"), ErrNoRecipient)
	})

	t.Run("bad recipient", func(t *testing.T) {
		client := &fakeSender{}
		n := newSMTPNotifier(client, "no-reply@koi.farm", "", zap.NewNop())
		assert.Error(t, n.Send(ctx, "not an address", "t", "b"))
		assert.Empty(t, client.sent)
	})

	t.Run("relay failure is wrapped", func(t *testing.T) {
		relayErr := errors.New("connection refused")
		n := newSMTPNotifier(&fakeSender{err: relayErr}, "no-reply@koi.farm", "", zap.NewNop())
		err := n.Send(ctx, "mai@koi.farm", "t", "b")
		assert.ErrorIs(t, err, relayErr)
	})
}

func TestNewSMTPNotifier(t *testing.T) {
	n, err := NewSMTPNotifier(config.MailConfig{
		Host:      "localhost",
		Port:      1025,
		From:      "no-reply@koi.farm",
		TLSPolicy: "none",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, n.client)

	_, err = NewSMTPNotifier(config.MailConfig{Port: 25}, zap.NewNop())
	assert.Error(t, err, "host is required")
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, gomail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, gomail.TLSOpportunistic, tlsPolicy("opportunistic"))
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy(""))
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Send(context.Background(), "mai@koi.farm", "Hello", "<p>hi</p>"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "mai@koi.farm", logs.All()[0].ContextMap()["to"])
	assert.ErrorIs(t, n.Send(context.Background(), "", "Hello", ""), ErrNoRecipient)
}
