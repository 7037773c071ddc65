package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// DecodeList reads a collection that the API returns either as a bare JSON array or as an
// object wrapping the array under field (or under "data" when field is absent).
// It never fails: anything it cannot read yields an empty slice and a warning in the log.
func DecodeList[T any](raw []byte, field string) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []T{}
	}

	switch raw[0] {
	case '[':
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			slog.Warn("undecodable collection", "error", err)
			return []T{}
		}
		return out
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			slog.Warn("undecodable envelope", "error", err)
			return []T{}
		}
		for _, name := range []string{field, "data"} {
			inner, ok := env[name]
			if !ok || name == "" {
				continue
			}
			var out []T
			if err := json.Unmarshal(inner, &out); err != nil {
				slog.Warn("undecodable envelope field", "field", name, "error", err)
				return []T{}
			}
			if out == nil {
				out = []T{}
			}
			return out
		}
	}

	slog.Warn("collection response has no list", "field", field)
	return []T{}
}
