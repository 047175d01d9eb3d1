package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals a sub-record for storage in a jsonb column.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan unmarshals a jsonb column back into its sub-record type.
func jsonScan(dest interface{}, src interface{}) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
