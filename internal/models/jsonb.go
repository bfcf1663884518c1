package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// marshalJSONB encodes v for a JSONB column.
func marshalJSONB(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// unmarshalJSONB decodes a JSONB column value into dest. NULL leaves dest untouched.
func unmarshalJSONB(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}
