// Package validation collects field-level input errors the way the API
// reports them: a JSON object mapping each field name to a list of messages.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// Fixed messages reported to callers. Kept stable since clients match on them.
const (
	MsgRequired       = "This field is required."
	MsgNotNull        = "This field may not be null."
	MsgBlank          = "This field may not be blank."
	MsgValidNumber    = "A valid number is required."
	MsgValidInteger   = "A valid integer is required."
	MsgDateFormat     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgDatetimeFormat = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
)

// MsgInvalidPK reports a reference to a record that does not exist.
func MsgInvalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// FieldErrors maps field names to their validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// DecodeBody reads a JSON object body field by field, so each field can be
// validated independently and reported under its own name.
func DecodeBody(r io.Reader) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("malformed JSON body: %w", err)
	}
	return fields, nil
}

// IsNull reports whether raw is the JSON null literal.
func IsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// StringValue parses raw as a JSON string.
func StringValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("not a string: %w", err)
	}
	return s, nil
}

// IntValue parses raw as an integer, given either as a JSON number or as a
// numeric string.
func IntValue(raw json.RawMessage) (int64, error) {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %w", err)
	}
	return n, nil
}

// NumberValue parses raw as a decimal number, given either as a JSON number
// or as a numeric string.
func NumberValue(raw json.RawMessage) (decimal.Decimal, error) {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %w", err)
	}
	return d, nil
}

// BoolValue parses raw as a JSON bool or a "true"/"false" string.
func BoolValue(raw json.RawMessage) (bool, error) {
	trimmed := bytes.TrimSpace(raw)
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		return b, nil
	}
	s, err := StringValue(trimmed)
	if err != nil {
		return false, fmt.Errorf("not a bool: %w", err)
	}
	switch s {
	case "true", "True", "1":
		return true, nil
	case "false", "False", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a bool: %q", s)
}
