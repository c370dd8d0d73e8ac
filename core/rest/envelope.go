package rest

import (
	"bytes"
	"encoding/json"
)

// Page carries the pagination fields when a collection response arrived in
// an envelope. Nil when the backend answered with a bare array.
type Page struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// envelope is the superset of collection envelopes the backends produce.
type envelope struct {
	Results  json.RawMessage `json:"results"`
	Data     json.RawMessage `json:"data"`
	Count    int             `json:"count"`
	Next     string          `json:"next"`
	Previous string          `json:"previous"`
}

// UnmarshalCollection decodes a collection payload into dest (a pointer to
// a slice), tolerating every list shape the backends emit: a bare array,
// an envelope with a results field, or an envelope with a data field.
// Anything else decodes as an empty collection rather than an error.
func UnmarshalCollection(data []byte, dest any) (*Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, emptyCollection(dest)
	}

	if trimmed[0] == '[' {
		return nil, json.Unmarshal(trimmed, dest)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, emptyCollection(dest)
	}

	items := env.Results
	if items == nil {
		items = env.Data
	}
	if items == nil {
		return nil, emptyCollection(dest)
	}

	if err := json.Unmarshal(items, dest); err != nil {
		return nil, err
	}
	return &Page{Count: env.Count, Next: env.Next, Previous: env.Previous}, nil
}

func emptyCollection(dest any) error {
	return json.Unmarshal([]byte("[]"), dest)
}
