package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSONB-backed list of short strings. A NULL column scans to
// an empty (non-nil) list so analysis fields are never null on the wire.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	return scanJSON(src, l)
}

// Trend is one identified cross-episode trend.
type Trend struct {
	Trend     string `json:"trend"`
	Evidence  string `json:"evidence"`
	Direction string `json:"direction"`
}

type TrendList []Trend

func (l TrendList) Value() (driver.Value, error) {
	if l == nil {
		l = TrendList{}
	}
	return json.Marshal(l)
}

func (l *TrendList) Scan(src interface{}) error {
	if src == nil {
		*l = TrendList{}
		return nil
	}
	return scanJSON(src, l)
}

// Int64List is a JSONB-backed list of ids. Unlike StringList a NULL column
// stays nil, because a nil podcast filter means "all podcasts".
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *Int64List) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}
