package inbound_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/inbound"
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) inbound.Payload {
	t.Helper()

	var p inbound.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestNormalizer_Normalize(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	normalizer := inbound.NewNormalizer().WithClock(func() time.Time { return fixed })

	tests := []struct {
		name      string
		payload   string
		wantKind  model.MessageKind
		wantBody  string
		wantMedia string
	}{
		{
			name:     "plain text",
			payload:  `{"phone":"5521999998888","text":"hello"}`,
			wantKind: model.MessageKindText,
			wantBody: "hello",
		},
		{
			name:     "text object",
			payload:  `{"phone":"5521999998888","text":{"message":"hi there"}}`,
			wantKind: model.MessageKindText,
			wantBody: "hi there",
		},
		{
			name:     "hydrated template",
			payload:  `{"phone":"5521999998888","hydratedTemplate":{"message":"your code is 1234"}}`,
			wantKind: model.MessageKindTemplate,
			wantBody: "your code is 1234",
		},
		{
			name:      "image with caption",
			payload:   `{"phone":"5521999998888","image":{"caption":"look","imageUrl":"http://x/i.jpg"}}`,
			wantKind:  model.MessageKindImage,
			wantBody:  "look",
			wantMedia: "http://x/i.jpg",
		},
		{
			name:      "image without caption",
			payload:   `{"phone":"5521999998888","image":{"imageUrl":"http://x/i.jpg"}}`,
			wantKind:  model.MessageKindImage,
			wantMedia: "http://x/i.jpg",
		},
		{
			name:      "video",
			payload:   `{"phone":"5521999998888","video":{"caption":"clip","videoUrl":"http://x/v.mp4"}}`,
			wantKind:  model.MessageKindVideo,
			wantBody:  "clip",
			wantMedia: "http://x/v.mp4",
		},
		{
			name:      "audio ignores caption",
			payload:   `{"phone":"5521999998888","audio":{"caption":"ignored","audioUrl":"http://x/a.mp3"}}`,
			wantKind:  model.MessageKindAudio,
			wantBody:  "[Audio]",
			wantMedia: "http://x/a.mp3",
		},
		{
			name:      "document",
			payload:   `{"phone":"5521999998888","document":{"fileName":"report.pdf","documentUrl":"http://x/d.pdf"}}`,
			wantKind:  model.MessageKindDocument,
			wantBody:  "[Document] report.pdf",
			wantMedia: "http://x/d.pdf",
		},
		{
			name:     "text wins over co-occurring media",
			payload:  `{"phone":"5521999998888","text":"caption text","image":{"imageUrl":"http://x/i.jpg"}}`,
			wantKind: model.MessageKindText,
			wantBody: "caption text",
		},
		{
			name:     "template wins over image",
			payload:  `{"phone":"5521999998888","hydratedTemplate":{"message":"tpl"},"image":{"caption":"c","imageUrl":"http://x/i.jpg"}}`,
			wantKind: model.MessageKindTemplate,
			wantBody: "tpl",
		},
		{
			name:      "image before audio",
			payload:   `{"phone":"5521999998888","audio":{"audioUrl":"http://x/a.mp3"},"image":{"imageUrl":"http://x/i.jpg"}}`,
			wantKind:  model.MessageKindImage,
			wantMedia: "http://x/i.jpg",
		},
		{
			name:     "bare scalar text falls back",
			payload:  `{"phone":"5521999998888","text":12345}`,
			wantKind: model.MessageKindText,
			wantBody: "12345",
		},
		{
			name:      "bare scalar text fills empty caption",
			payload:   `{"phone":"5521999998888","text":42,"image":{"imageUrl":"http://x/i.jpg"}}`,
			wantKind:  model.MessageKindImage,
			wantBody:  "42",
			wantMedia: "http://x/i.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := normalizer.Normalize(decode(t, tt.payload))

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, msg.Kind)
			assert.Equal(t, tt.wantBody, msg.Body)
			assert.Equal(t, tt.wantMedia, msg.MediaURL)
			assert.Equal(t, "21999998888", msg.Phone)
		})
	}
}

func TestNormalizer_EmptyPayload(t *testing.T) {
	normalizer := inbound.NewNormalizer()

	payloads := []string{
		`{"phone":"5521999998888"}`,
		`{"phone":"5521999998888","text":""}`,
		`{"phone":"5521999998888","text":{"message":""}}`,
		`{"phone":"5521999998888","image":{"caption":""}}`,
		`{"phone":"5521999998888","sticker":{"stickerUrl":"http://x/s.webp"}}`,
	}

	for _, raw := range payloads {
		t.Run(raw, func(t *testing.T) {
			_, err := normalizer.Normalize(decode(t, raw))
			assert.ErrorIs(t, err, inbound.ErrEmptyPayload)
		})
	}
}

func TestNormalizer_Metadata(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	normalizer := inbound.NewNormalizer().WithClock(func() time.Time { return fixed })

	t.Run("moment in epoch milliseconds", func(t *testing.T) {
		msg, err := normalizer.Normalize(decode(t,
			`{"phone":"5521999998888","text":"hi","momment":1714564800000,"messageId":"3EB0AA","fromMe":false,"senderName":"Ana"}`))

		require.NoError(t, err)
		assert.True(t, msg.Timestamp.Equal(time.UnixMilli(1714564800000)))
		assert.Equal(t, "3EB0AA", msg.ExternalID)
		assert.Equal(t, "Ana", msg.SenderName)
		assert.False(t, msg.FromMe)
	})

	t.Run("moment spelled correctly", func(t *testing.T) {
		msg, err := normalizer.Normalize(decode(t, `{"phone":"5521999998888","text":"hi","moment":1714564800000}`))

		require.NoError(t, err)
		assert.True(t, msg.Timestamp.Equal(time.UnixMilli(1714564800000)))
	})

	t.Run("missing moment uses processing time", func(t *testing.T) {
		msg, err := normalizer.Normalize(decode(t, `{"phone":"5521999998888","text":"hi"}`))

		require.NoError(t, err)
		assert.True(t, msg.Timestamp.Equal(fixed))
	})

	t.Run("missing phone", func(t *testing.T) {
		_, err := normalizer.Normalize(decode(t, `{"text":"hi"}`))
		assert.ErrorIs(t, err, inbound.ErrMissingPhone)
	})
}
