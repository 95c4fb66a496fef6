package oidc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

type rawClaim struct {
	name  string
	value json.RawMessage
}

// decodeOrderedObject reads a JSON object keeping member order.
func decodeOrderedObject(data []byte) ([]rawClaim, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out []rawClaim
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, rawClaim{name: key, value: raw})
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}

// flattenClaim turns one JSON member into claims. Arrays fan out into one
// claim per element, strings are used as-is, null is dropped and everything
// else keeps its compact JSON text.
func flattenClaim(name string, raw json.RawMessage, issuer string) []Claim {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return []Claim{{Type: name, Value: compactJSON(raw), Issuer: issuer}}
		}
		out := make([]Claim, 0, len(items))
		for _, item := range items {
			if value, ok := scalarValue(item); ok {
				out = append(out, Claim{Type: name, Value: value, Issuer: issuer})
			}
		}
		return out
	}

	value, ok := scalarValue(raw)
	if !ok {
		return nil
	}
	return []Claim{{Type: name, Value: value, Issuer: issuer}}
}

func scalarValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return compactJSON(raw), true
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// claimsFromProperties flattens account properties in sorted key order.
func claimsFromProperties(props map[string]any, issuer string) []Claim {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []Claim
	for _, key := range keys {
		value := props[key]
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			out = append(out, Claim{Type: key, Value: s, Issuer: issuer})
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			out = append(out, Claim{Type: key, Value: fmt.Sprint(value), Issuer: issuer})
			continue
		}
		out = append(out, flattenClaim(key, raw, issuer)...)
	}
	return out
}
