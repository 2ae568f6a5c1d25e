package model

import (
	"encoding/json"

	"github.com/jmgilman/go/errors"
)

// Weight is the number of bytes the entry accounts for in the memory budget.
func (e *Entry) Weight() int64 { return e.size }

// Value returns the payload. []byte payloads are copied so callers never alias cache memory.
func (e *Entry) Value() any { return cloneValue(e.value) }

// EstimateSize returns the serialized size of value in bytes.
// Raw bytes are taken as is, everything else is measured by its JSON encoding.
// Values that cannot be encoded (channels, funcs, cyclic structures) are a programmer error
// and produce an INVALID_INPUT error.
func EstimateSize(value any) (int64, error) {
	switch v := value.(type) {
	case []byte:
		return int64(len(v)), nil
	case json.RawMessage:
		return int64(len(v)), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInvalidInput, "value is not serializable")
	}
	return int64(len(data)), nil
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []byte:
		if v == nil {
			return v
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out
	case json.RawMessage:
		if v == nil {
			return v
		}
		out := make(json.RawMessage, len(v))
		copy(out, v)
		return out
	}
	return value
}
