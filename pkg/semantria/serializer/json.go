package serializer

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonSerializer struct{}

// JSON returns the record-notation serializer. Field names come from the
// `json` struct tags of the model types.
func JSON() Serializer { return jsonSerializer{} }

func (jsonSerializer) Type() Format { return FormatJSON }

func (jsonSerializer) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Format: FormatJSON, Op: "marshal", Err: err}
	}
	return b, nil
}

func (jsonSerializer) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Format: FormatJSON, Op: "unmarshal", Err: err}
	}
	return nil
}
