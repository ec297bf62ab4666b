package sdk

import (
	"encoding/json"
	"math"
	"strconv"
)

// coerceValue converts a raw flag record into a native Go value.
// The second return value is false when the record is nil or disabled;
// substituting the caller's default happens one layer up.
//
// Rules per type:
//   - boolean: true iff the raw string is exactly "true" ("True" and "1"
//     coerce to false)
//   - number: ParseFloat; an unparsable string yields math.NaN(), not the
//     raw string
//   - json: Unmarshal into any; a parse failure soft-fails to the raw string
//   - string and unrecognized types: the raw string unchanged
func coerceValue(record *FlagRecord) (any, bool) {
	if record == nil || !record.Enabled {
		return nil, false
	}

	switch record.Type {
	case FlagBoolean:
		return record.Value == "true", true
	case FlagNumber:
		f, err := strconv.ParseFloat(record.Value, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	case FlagJSON:
		var v any
		if err := json.Unmarshal([]byte(record.Value), &v); err != nil {
			return record.Value, true
		}
		return v, true
	default:
		return record.Value, true
	}
}
