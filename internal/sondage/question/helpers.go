package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errSingleChoiceShape = errors.New("single choice value must be a proposal ID string")

// isEmptyValue reports whether a raw value counts as "no answer": absent,
// JSON null, or an empty string.
func isEmptyValue(rawValue json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(rawValue))
	return trimmed == "" || trimmed == "null" || trimmed == `""`
}

// parseIntegerValue coerces a JSON number or a numeric string to int64.
// Floats and non-numeric strings are rejected.
func parseIntegerValue(rawValue json.RawMessage) (int64, error) {
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(rawValue))
	dec.UseNumber()
	if err := dec.Decode(&num); err == nil {
		return strconv.ParseInt(num.String(), 10, 64)
	}

	var str string
	if err := json.Unmarshal(rawValue, &str); err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(str), 10, 64)
}
