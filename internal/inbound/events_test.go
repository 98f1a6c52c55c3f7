package inbound_test

import (
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("single message id", func(t *testing.T) {
		event, ok := inbound.ParseStatus(decode(t, `{"messageId":"A1","status":"READ","phone":"5521999998888"}`))

		require.True(t, ok)
		assert.Equal(t, "read", event.Status)
		assert.Equal(t, []string{"A1"}, event.ExternalIDs)
		assert.Equal(t, "21999998888", event.Phone)
	})

	t.Run("batch of ids", func(t *testing.T) {
		event, ok := inbound.ParseStatus(decode(t, `{"ids":["A1","A2"],"status":"RECEIVED"}`))

		require.True(t, ok)
		assert.Equal(t, "received", event.Status)
		assert.Equal(t, []string{"A1", "A2"}, event.ExternalIDs)
	})

	t.Run("missing status", func(t *testing.T) {
		_, ok := inbound.ParseStatus(decode(t, `{"messageId":"A1"}`))
		assert.False(t, ok)
	})

	t.Run("missing ids", func(t *testing.T) {
		_, ok := inbound.ParseStatus(decode(t, `{"status":"READ"}`))
		assert.False(t, ok)
	})
}

func TestParseConnection(t *testing.T) {
	event, ok := inbound.ParseConnection(decode(t, `{"connected":true,"status":"CONNECTED"}`))
	require.True(t, ok)
	assert.True(t, event.Connected)
	assert.Equal(t, "CONNECTED", event.Status)

	_, ok = inbound.ParseConnection(decode(t, `{"status":"whatever"}`))
	assert.False(t, ok)
}

func TestParsePresence(t *testing.T) {
	t.Run("nested presence", func(t *testing.T) {
		event, ok := inbound.ParsePresence(decode(t,
			`{"phone":"5521999998888","presence":{"isOnline":true,"lastSeen":1714564800000}}`))

		require.True(t, ok)
		assert.Equal(t, "21999998888", event.Phone)
		assert.True(t, event.Online)
		require.NotNil(t, event.LastSeen)
		assert.True(t, event.LastSeen.Equal(time.UnixMilli(1714564800000)))
	})

	t.Run("flat status", func(t *testing.T) {
		event, ok := inbound.ParsePresence(decode(t, `{"phone":"5521999998888","status":"UNAVAILABLE"}`))

		require.True(t, ok)
		assert.False(t, event.Online)
		assert.Equal(t, "UNAVAILABLE", event.Status)
		assert.Nil(t, event.LastSeen)
	})

	t.Run("missing phone", func(t *testing.T) {
		_, ok := inbound.ParsePresence(decode(t, `{"status":"AVAILABLE"}`))
		assert.False(t, ok)
	})
}

func TestParseSent(t *testing.T) {
	t.Run("failed delivery", func(t *testing.T) {
		event, ok := inbound.ParseSent(decode(t,
			`{"messageId":"3EB0","phone":"5521999998888","error":"phone not on whatsapp"}`))

		require.True(t, ok)
		assert.Equal(t, "3EB0", event.ExternalID)
		assert.Equal(t, "21999998888", event.Phone)
		assert.Equal(t, "phone not on whatsapp", event.Error)
	})

	t.Run("falls back to zaap id", func(t *testing.T) {
		event, ok := inbound.ParseSent(decode(t, `{"zaapId":"Z1"}`))

		require.True(t, ok)
		assert.Equal(t, "Z1", event.ExternalID)
		assert.Empty(t, event.Error)
	})

	t.Run("no identifier", func(t *testing.T) {
		_, ok := inbound.ParseSent(decode(t, `{"phone":"5521999998888"}`))
		assert.False(t, ok)
	})
}

func TestPayload_FromMe(t *testing.T) {
	assert.True(t, decode(t, `{"fromMe":true}`).FromMe())
	assert.True(t, decode(t, `{"fromMe":"true"}`).FromMe())
	assert.False(t, decode(t, `{"fromMe":false}`).FromMe())
	assert.False(t, decode(t, `{"fromMe":1}`).FromMe())
	assert.False(t, decode(t, `{}`).FromMe())
}
