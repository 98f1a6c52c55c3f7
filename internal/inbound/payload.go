package inbound

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Payload is a decoded webhook body.
type Payload map[string]any

// FromMe reports whether the gateway echoed a message sent by this number.
func (p Payload) FromMe() bool {
	return p.boolean("fromMe")
}

// object reports whether key is present. A present key holding
// something other than an object matches with no fields.
func (p Payload) object(key string) (map[string]any, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}

	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case Payload:
		return obj, true
	default:
		return map[string]any{}, true
	}
}

func (p Payload) str(key string) string {
	return stringField(p, key)
}

func (p Payload) boolean(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func (p Payload) millis(keys ...string) (time.Time, bool) {
	for _, key := range keys {
		ms, ok := toInt64(p[key])
		if ok && ms > 0 {
			return time.UnixMilli(ms), true
		}
	}
	return time.Time{}, false
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return scalarString(v)
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		if !t {
			return ""
		}
		return "true"
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
