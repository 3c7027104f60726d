package types

import (
	"bytes"
	"encoding/json"
)

// NullableID is a foreign key field that distinguishes an absent key from an
// explicit null in a request body.
type NullableID struct {
	Set   bool
	Valid bool
	Value uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		n.Value = 0
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns the id or nil for an explicit null.
func (n NullableID) Ptr() *uint {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
