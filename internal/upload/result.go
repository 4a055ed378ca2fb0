package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GroupResult maps logical groups (product codes or archive folder names) to
// ordered lists of entries, each entry being either a stored object URL or an
// inline error string for the item that failed. Group order and list order
// both follow insertion order, so consumers see groups and items in the order
// they were declared in the request (or appeared in the archive).
type GroupResult struct {
	keys   []string
	groups map[string][]string
}

// NewGroupResult creates an empty result mapping.
func NewGroupResult() *GroupResult {
	return &GroupResult{groups: make(map[string][]string)}
}

// Ensure registers a group key with an empty list if it is not present yet.
// Groups that end up with every item failed (or no items at all) still appear
// in the response.
func (r *GroupResult) Ensure(group string) {
	if _, ok := r.groups[group]; !ok {
		r.keys = append(r.keys, group)
		r.groups[group] = []string{}
	}
}

// Append adds entries to a group's list, registering the group if needed.
func (r *GroupResult) Append(group string, entries ...string) {
	r.Ensure(group)
	r.groups[group] = append(r.groups[group], entries...)
}

// Get returns the list for a group.
func (r *GroupResult) Get(group string) ([]string, bool) {
	v, ok := r.groups[group]
	return v, ok
}

// Groups returns the group keys in insertion order.
func (r *GroupResult) Groups() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of groups.
func (r *GroupResult) Len() int { return len(r.keys) }

// MarshalJSON encodes the mapping as a JSON object with keys in insertion
// order.
func (r *GroupResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.groups[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording keys in document order.
func (r *GroupResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object for group result, got %v", tok)
	}

	r.keys = nil
	r.groups = make(map[string][]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key in group result, got %v", tok)
		}
		var values []string
		if err := dec.Decode(&values); err != nil {
			return err
		}
		r.keys = append(r.keys, key)
		if values == nil {
			values = []string{}
		}
		r.groups[key] = values
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
