// Package record turns loosely-typed JSON records into checked field values.
// Every problem is reported as a *MalformedError so callers can exclude the
// record and keep going.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed matches every *MalformedError via errors.Is.
var ErrMalformed = errors.New("malformed record")

// Malformed record kinds.
const (
	KindNotObject    = "not_object"
	KindMissingField = "missing_field"
	KindWrongType    = "wrong_type"
)

// MalformedError describes why a record was excluded.
type MalformedError struct {
	Collection string `json:"collection"` // "concepts" or "activities"
	Position   int    `json:"position"`   // Zero-based index in the collection
	Kind       string `json:"kind"`
	Field      string `json:"field,omitempty"`
	Err        error  `json:"-"` // Validation error behind a missing field, if any
}

func (e *MalformedError) Error() string {
	switch e.Kind {
	case KindNotObject:
		return fmt.Sprintf("%s[%d]: record is not an object", e.Collection, e.Position)
	case KindMissingField:
		return fmt.Sprintf("%s[%d]: missing required field %q", e.Collection, e.Position, e.Field)
	case KindWrongType:
		return fmt.Sprintf("%s[%d]: field %q has the wrong type", e.Collection, e.Position, e.Field)
	default:
		return fmt.Sprintf("%s[%d]: malformed record", e.Collection, e.Position)
	}
}

// Is lets errors.Is(err, ErrMalformed) match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Reader gives typed access to the fields of one JSON object.
type Reader struct {
	collection string
	position   int
	fields     map[string]json.RawMessage
}

// Open parses raw as a JSON object.
func Open(collection string, position int, raw json.RawMessage) (*Reader, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &MalformedError{Collection: collection, Position: position, Kind: KindNotObject}
	}
	return &Reader{collection: collection, position: position, fields: fields}, nil
}

func (r *Reader) fail(kind, field string) error {
	return &MalformedError{Collection: r.collection, Position: r.position, Kind: kind, Field: field}
}

// Missing reports field as missing because cause rejected its value.
func (r *Reader) Missing(field string, cause error) error {
	return &MalformedError{Collection: r.collection, Position: r.position, Kind: KindMissingField, Field: field, Err: cause}
}

// present returns the raw value for name, treating JSON null as absent.
func (r *Reader) present(name string) (json.RawMessage, bool) {
	raw, ok := r.fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

// RequiredString returns a non-blank string field.
func (r *Reader) RequiredString(name string) (string, error) {
	s, ok, err := r.OptionalString(name)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(s) == "" {
		return "", r.fail(KindMissingField, name)
	}
	return s, nil
}

// OptionalString returns a string field and whether it was present.
func (r *Reader) OptionalString(name string) (string, bool, error) {
	raw, ok := r.present(name)
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, r.fail(KindWrongType, name)
	}
	return s, true, nil
}

// OptionalStrings returns a string-array field, or nil when absent.
func (r *Reader) OptionalStrings(name string) ([]string, error) {
	raw, ok := r.present(name)
	if !ok {
		return nil, nil
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, r.fail(KindWrongType, name)
	}
	return ss, nil
}
