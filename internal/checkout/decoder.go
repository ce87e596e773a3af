package checkout

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotRecognized is returned when a scan payload cannot be mapped to a
// catalog key. The scan loop skips it and keeps scanning; it is never a
// hard failure.
var ErrNotRecognized = errors.New("payload not recognized")

// Key is the catalog key extracted from an optical payload. ID and Unit are
// only set for structured label payloads; linear barcodes carry Barcode only.
type Key struct {
	ID      string
	Barcode string
	Unit    string
}

// labelPayload is the structured code printed on item labels.
type labelPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
	Unit    string `json:"unit"`
}

// DecodePayload turns a raw scan payload into a catalog key. Pure function:
// no lookups, no side effects. A payload starting with '{' is parsed as a
// printed-label JSON object {id, name, barcode, unit}; anything else is
// treated as a linear barcode value. Malformed input yields ErrNotRecognized.
func DecodePayload(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Key{}, ErrNotRecognized
	}

	if strings.HasPrefix(raw, "{") {
		var p labelPayload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return Key{}, ErrNotRecognized
		}
		if p.ID == "" && p.Barcode == "" {
			return Key{}, ErrNotRecognized
		}
		return Key{ID: p.ID, Barcode: p.Barcode, Unit: p.Unit}, nil
	}

	if strings.ContainsAny(raw, "\n\r") {
		return Key{}, ErrNotRecognized
	}
	return Key{Barcode: raw}, nil
}
