package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"deal-notifier-go/pkg/models"
)

// ErrUnknownKind is returned by Decode for frames whose type is not a RunEvent kind.
var ErrUnknownKind = errors.New("unknown event type")

// frame mirrors the JSON object carried by one stream frame. Fields are kept
// raw so a malformed field degrades to "absent" instead of failing the frame.
type frame struct {
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message"`
	Level     json.RawMessage `json:"level"`
	Processed json.RawMessage `json:"processed"`
	Total     json.RawMessage `json:"total"`
	Item      json.RawMessage `json:"item"`
	Game      json.RawMessage `json:"game"`
	Status    json.RawMessage `json:"status"`
}

// Decode parses one frame payload. Non-JSON payloads, payloads that are not
// an object, and unknown types are errors; callers discard such frames.
// Within a valid frame, malformed fields are treated as absent.
func Decode(data []byte) (RunEvent, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return RunEvent{}, fmt.Errorf("decode frame: %w", err)
	}

	switch Kind(f.Type) {
	case KindLog:
		return RunEvent{
			Kind:    KindLog,
			Message: rawString(f.Message),
			Level:   ParseLevel(rawString(f.Level)),
		}, nil
	case KindProgress:
		return RunEvent{
			Kind:      KindProgress,
			Processed: rawInt(f.Processed),
			Total:     rawInt(f.Total),
		}, nil
	case KindFound:
		raw := f.Item
		if isAbsent(raw) {
			// The notifier service names the payload "game".
			raw = f.Game
		}
		if isAbsent(raw) {
			return RunEvent{}, fmt.Errorf("found event without item")
		}
		return RunEvent{Kind: KindFound, Item: decodeItem(raw)}, nil
	case KindStatus:
		return RunEvent{Kind: KindStatus, Status: Status(rawString(f.Status))}, nil
	case KindComplete:
		return RunEvent{Kind: KindComplete}, nil
	case KindError:
		return RunEvent{Kind: KindError, Message: rawString(f.Message)}, nil
	default:
		return RunEvent{}, fmt.Errorf("%w: %q", ErrUnknownKind, f.Type)
	}
}

// Encode renders an event as the JSON object Decode reads back.
func Encode(ev RunEvent) ([]byte, error) {
	out := map[string]any{"type": ev.Kind}
	switch ev.Kind {
	case KindLog:
		out["message"] = ev.Message
		out["level"] = ev.Level
	case KindProgress:
		if ev.Processed != nil {
			out["processed"] = *ev.Processed
		}
		if ev.Total != nil {
			out["total"] = *ev.Total
		}
	case KindFound:
		out["item"] = ev.Item
	case KindStatus:
		out["status"] = ev.Status
	case KindError:
		out["message"] = ev.Message
	case KindComplete:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	return json.Marshal(out)
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// rawString returns the string value of raw, or "" when raw is not a string.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// rawInt returns the integer value of a JSON number. Strings, booleans,
// nulls and missing fields all count as absent. Fractions are truncated.
func rawInt(raw json.RawMessage) *int {
	if isAbsent(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if math.Abs(f) > 1<<53 {
		return nil
	}
	v := int(f)
	return &v
}

// decodeItem reads an item field by field; a field of the wrong type is
// left at its zero value and the rest of the item is kept.
func decodeItem(raw json.RawMessage) models.Item {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Item{}
	}

	var item models.Item
	item.Title = rawString(fields["title"])
	item.URL = rawString(fields["url"])
	item.ImageURL = rawString(fields["image_url"])
	_ = json.Unmarshal(fields["is_free"], &item.IsFree)
	if !isAbsent(fields["discounted_price"]) {
		var p models.Price
		if err := json.Unmarshal(fields["discounted_price"], &p); err == nil {
			item.DiscountedPrice = p
		}
	}
	return item
}
