package metadata

import (
	"encoding/json"
	"errors"
)

// Serialise encodes meta as one JSON line without the trailing newline.
func Serialise(meta *Meta) ([]byte, error) {
	return json.Marshal(meta)
}

// Deserialise decodes one line written by Serialise.
func Deserialise(data []byte) (*Meta, error) {
	meta := &Meta{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, err
	}
	if meta.Common.Path == "" {
		return nil, errors.New("metadata line has no path")
	}
	return meta, nil
}
