package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// The JSON-ish columns (personality weights, therapeutic tags, memory facts,
// emotional profiles, interaction metadata) are stored as TEXT so all three
// dialects behave the same. These helpers do the marshalling at the
// repository boundary; NULL and empty string both read back as the zero
// value.

func marshalJSON(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode json column: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalJSON(raw sql.NullString, dest interface{}) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dest); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
