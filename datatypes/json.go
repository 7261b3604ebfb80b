// Package datatypes holds member types that convert between JSON or text
// columns and Go values.
package datatypes

import (
	"database/sql/driver"
	"fmt"

	"github.com/oarkflow/json"
)

// JSON[T] stores T as a JSON document.
type JSON[T any] struct {
	Data T
}

func NewJSON[T any](data T) JSON[T] {
	return JSON[T]{Data: data}
}

// Scan implements the sql.Scanner interface.
func (j *JSON[T]) Scan(val any) error {
	switch val := val.(type) {
	case []byte:
		return json.Unmarshal(val, &j.Data)
	case string:
		return json.Unmarshal([]byte(val), &j.Data)
	case nil:
		var zero T
		j.Data = zero
		return nil
	default:
		return fmt.Errorf("datatypes: cannot scan %T into JSON", val)
	}
}

// Value implements the driver.Valuer interface.
func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// NullJSON[T] is a JSON document that may be NULL.
type NullJSON[T any] struct {
	Data  T
	Valid bool // Valid is true if the column is not NULL
}

// Scan implements the sql.Scanner interface.
func (n *NullJSON[T]) Scan(val any) error {
	if n.Valid = val != nil; !n.Valid {
		var zero T
		n.Data = zero
		return nil
	}
	var j JSON[T]
	if err := j.Scan(val); err != nil {
		return err
	}
	n.Data = j.Data
	return nil
}

// Value implements the driver.Valuer interface.
func (n NullJSON[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return JSON[T]{Data: n.Data}.Value()
}
