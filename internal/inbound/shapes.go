package inbound

import "github.com/Behyna/whatsapp-relay/internal/model"

const (
	audioMarker    = "[Audio]"
	documentMarker = "[Document]"
)

type content struct {
	kind  model.MessageKind
	body  string
	media string
}

// shape recognizes one payload variant. The gateway sends no
// discriminant field, so variants are tried in order and the first
// match wins.
type shape struct {
	name  string
	match func(p Payload) (content, bool)
}

var shapes = []shape{
	{name: "plainText", match: matchPlainText},
	{name: "textObject", match: matchTextObject},
	{name: "template", match: matchTemplate},
	{name: "image", match: matchMedia("image", model.MessageKindImage, "imageUrl")},
	{name: "video", match: matchMedia("video", model.MessageKindVideo, "videoUrl")},
	{name: "audio", match: matchAudio},
	{name: "document", match: matchDocument},
}

func matchPlainText(p Payload) (content, bool) {
	text, ok := p["text"].(string)
	if !ok {
		return content{}, false
	}
	return content{kind: model.MessageKindText, body: text}, true
}

func matchTextObject(p Payload) (content, bool) {
	obj, ok := p["text"].(map[string]any)
	if !ok {
		return content{}, false
	}
	return content{kind: model.MessageKindText, body: stringField(obj, "message")}, true
}

func matchTemplate(p Payload) (content, bool) {
	obj, ok := p.object("hydratedTemplate")
	if !ok {
		return content{}, false
	}
	return content{kind: model.MessageKindTemplate, body: stringField(obj, "message")}, true
}

func matchMedia(key string, kind model.MessageKind, urlKey string) func(p Payload) (content, bool) {
	return func(p Payload) (content, bool) {
		obj, ok := p.object(key)
		if !ok {
			return content{}, false
		}
		return content{kind: kind, body: stringField(obj, "caption"), media: stringField(obj, urlKey)}, true
	}
}

func matchAudio(p Payload) (content, bool) {
	obj, ok := p.object("audio")
	if !ok {
		return content{}, false
	}
	return content{kind: model.MessageKindAudio, body: audioMarker, media: stringField(obj, "audioUrl")}, true
}

func matchDocument(p Payload) (content, bool) {
	obj, ok := p.object("document")
	if !ok {
		return content{}, false
	}

	return content{
		kind:  model.MessageKindDocument,
		body:  documentMarker + " " + stringField(obj, "fileName"),
		media: stringField(obj, "documentUrl"),
	}, true
}

// bareText reads a non-empty "text" value of any scalar type.
func bareText(p Payload) string {
	switch v := p["text"].(type) {
	case map[string]any:
		return stringField(v, "message")
	case []any, nil:
		return ""
	default:
		return scalarString(v)
	}
}
