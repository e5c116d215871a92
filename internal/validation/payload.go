// Package validation turns raw JSON request bodies into typed values and
// validates request structs.
package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"studysmarter/internal/models"
)

// Payload is a decoded JSON object whose fields are still raw.
type Payload map[string]json.RawMessage

// ParsePayload decodes body as a JSON object. An absent body yields an empty
// payload; malformed JSON or a non-object value is a validation error.
func ParsePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Payload{}, nil
	}
	if body[0] != '{' {
		if !json.Valid(body) {
			return nil, models.NewValidationError("Invalid JSON payload")
		}
		return nil, models.NewValidationError("Request body must be a JSON object")
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, models.NewValidationError("Invalid JSON payload")
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Empty reports whether the payload carries no fields at all.
func (p Payload) Empty() bool { return len(p) == 0 }

// Has reports whether field is present, even if null.
func (p Payload) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// IsNull reports whether field is absent or explicitly null.
func (p Payload) IsNull(field string) bool {
	raw, ok := p[field]
	return !ok || isNullRaw(raw)
}

// Missing returns the fields that are not present, in the given order.
func (p Payload) Missing(fields ...string) []string {
	missing := []string{}
	for _, f := range fields {
		if !p.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// RequireFields returns the standard "Missing required fields" error with
// required and missing lists, or nil when every field is present.
func (p Payload) RequireFields(fields ...string) error {
	missing := p.Missing(fields...)
	if len(missing) == 0 {
		return nil
	}
	return models.NewValidationError("Missing required fields").
		With("required", fields).
		With("missing", missing)
}

// String returns the trimmed string value of field. Absent and null fields
// yield "" with ok=true; any other non-string JSON value yields ok=false.
func (p Payload) String(field string) (string, bool) {
	raw, present := p[field]
	if !present || isNullRaw(raw) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Int returns field as an integer. JSON integers, integral floats and
// numeric strings are accepted; booleans, null, fractions and anything else
// yield ok=false.
func (p Payload) Int(field string) (int64, bool) {
	raw, present := p[field]
	if !present {
		return 0, false
	}
	return coerceInt(raw)
}

// OptionalInt is Int for optional fields: absent or null yields (nil, true).
func (p Payload) OptionalInt(field string) (*int64, bool) {
	if p.IsNull(field) {
		return nil, true
	}
	v, ok := p.Int(field)
	if !ok {
		return nil, false
	}
	return &v, true
}

// OptionalString is String for optional fields: absent or null yields nil.
func (p Payload) OptionalString(field string) (*string, bool) {
	if p.IsNull(field) {
		return nil, true
	}
	s, ok := p.String(field)
	if !ok {
		return nil, false
	}
	return &s, true
}

func isNullRaw(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func coerceInt(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(string(raw), 64)
		// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}
