package source

import (
	"fmt"
	"strings"
)

// KeyValue is one option pair from a key=value directive payload. A key
// given without '=' has no value; consumers treat that as a truthy marker.
type KeyValue struct {
	Key      string
	Value    string
	HasValue bool
}

// ParseKeyValue splits a single key[=value] token. More than one '=' is a
// malformed directive.
func ParseKeyValue(token string) (KeyValue, error) {
	parts := strings.Split(token, "=")
	switch len(parts) {
	case 1:
		return KeyValue{Key: parts[0]}, nil
	case 2:
		return KeyValue{Key: parts[0], Value: parts[1], HasValue: true}, nil
	default:
		return KeyValue{}, fmt.Errorf("invalid key/value %q", token)
	}
}

// ManifestValue is the value embedded in artifact metadata: the literal
// value, or "true" when none was given.
func (kv KeyValue) ManifestValue() string {
	if !kv.HasValue {
		return "true"
	}
	return kv.Value
}

func (kv KeyValue) String() string {
	if !kv.HasValue {
		return kv.Key
	}
	return kv.Key + "=" + kv.Value
}
