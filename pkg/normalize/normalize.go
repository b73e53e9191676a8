// Package normalize converts rehydrated CMS values into their stored column
// forms: tri-state booleans, nullable scalars, and serialized structured
// fields.
package normalize

import (
	"bytes"
	"database/sql"
	"encoding/json"
)

// Bool maps an optional boolean onto its tri-state column form. Absent stays
// NULL so an unknown amenity is never reported as false.
func Bool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

// String maps a string onto a nullable column, treating empty as NULL.
func String(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Int maps an optional int onto a nullable column.
func Int(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// Float maps an optional float onto a nullable column.
func Float(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// JSONText serializes a structured field (array/object) to its stored string
// form. Values that are already JSON strings pass through unchanged; null or
// absent input stays NULL.
func JSONText(raw json.RawMessage) sql.NullString {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return sql.NullString{}
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return sql.NullString{String: s, Valid: true}
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		// Not valid JSON; store the raw text as-is rather than dropping data.
		return sql.NullString{String: string(trimmed), Valid: true}
	}
	return sql.NullString{String: buf.String(), Valid: true}
}
