package datatypes

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/oarkflow/date"
)

// Time is a time.Time that also scans from text columns, as stored by
// drivers without a native timestamp type.
type Time struct {
	time.Time
}

// Scan implements the Scanner interface.
func (t *Time) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		parsed, err := date.Parse(v)
		if err != nil {
			return fmt.Errorf("datatypes: parsing time %q: %w", v, err)
		}
		t.Time = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("datatypes: cannot scan %T into Time", value)
	}
}

// Value implements the driver Valuer interface.
func (t Time) Value() (driver.Value, error) {
	return t.Time, nil
}

// NullTime is a Time that may be NULL.
type NullTime struct {
	Time  time.Time
	Valid bool // Valid is true if Time is not NULL
}

// Scan implements the Scanner interface.
func (n *NullTime) Scan(value any) error {
	if n.Valid = value != nil; !n.Valid {
		n.Time = time.Time{}
		return nil
	}
	var t Time
	if err := t.Scan(value); err != nil {
		return err
	}
	n.Time = t.Time
	return nil
}

// Value implements the driver Valuer interface.
func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time, nil
}
