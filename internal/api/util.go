package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// gorm.Model fields carry no json tags; these keys are renamed so clients
// consistently receive snake_case.
var modelKeys = map[string]string{
	"ID":        "id",
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
	"DeletedAt": "deleted_at",
}

// normalizeModelKeys recursively renames the embedded gorm.Model keys.
func normalizeModelKeys(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeModelKeys(val)
		}
		for from, to := range modelKeys {
			if val, ok := vv[from]; ok {
				vv[to] = val
				delete(vv, from)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeModelKeys(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeKeys marshals the given value into JSON, then decodes
// into an interface{} and normalizes gorm.Model keys to snake_case.
func MarshalIntoSnakeKeys(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeModelKeys(out), nil
}

// parseID parses a positive numeric path parameter.
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
