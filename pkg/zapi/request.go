package zapi

import (
	"path"
	"strings"
)

type SendTextRequest struct {
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	DelayMessage int    `json:"delayMessage,omitempty"`
	DelayTyping  int    `json:"delayTyping,omitempty"`
}

// Pace fills the delays the gateway uses to imitate a person typing,
// derived from the message length.
func (r SendTextRequest) Pace() SendTextRequest {
	if r.DelayMessage == 0 {
		r.DelayMessage = max(2, len(r.Message)/20)
	}
	if r.DelayTyping == 0 {
		r.DelayTyping = max(3, len(r.Message)/15)
	}
	return r
}

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaAudio    MediaKind = "audio"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaAudio, MediaVideo, MediaDocument:
		return true
	}
	return false
}

// SendMediaRequest carries media by URL or as a base64 data URI.
type SendMediaRequest struct {
	Kind         MediaKind
	Phone        string
	URL          string
	Caption      string
	FileName     string
	DelayMessage int
}

// Pace fills the message delay only; media has no typing phase.
func (r SendMediaRequest) Pace() SendMediaRequest {
	if r.DelayMessage == 0 {
		r.DelayMessage = max(2, len(r.Caption)/20)
	}
	return r
}

// endpoint returns the per-kind send path. Documents carry their
// extension in the path, taken from the file name or the URL.
func (r SendMediaRequest) endpoint() string {
	if r.Kind != MediaDocument {
		return SendMediaEndpoint + string(r.Kind)
	}

	name := r.FileName
	if name == "" {
		name = strings.SplitN(r.URL, "?", 2)[0]
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" || strings.Contains(ext, "/") {
		ext = "pdf"
	}
	return SendMediaEndpoint + "document/" + strings.ToLower(ext)
}

// body maps the request onto the field names the gateway expects per kind.
func (r SendMediaRequest) body() map[string]any {
	body := map[string]any{"phone": r.Phone}
	body[string(r.Kind)] = r.URL

	if r.DelayMessage > 0 {
		body["delayMessage"] = r.DelayMessage
	}

	switch r.Kind {
	case MediaAudio:
		body["waveform"] = true
	case MediaDocument:
		if r.FileName != "" {
			body["fileName"] = r.FileName
		}
		fallthrough
	default:
		if r.Caption != "" {
			body["caption"] = r.Caption
		}
	}

	return body
}
