package ntime

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// NTime represents a nullable time.Time.
// It can be used as a scan destination and serialises to either an ISO-8601 string or a JSON null.
type NTime struct {
	time    time.Time
	isValid bool // false when the time is null
}

// UnmarshalJSON parses a RFC3339 time string into a time.Time object.
func (nt *NTime) UnmarshalJSON(b []byte) error {
	parsedTime, err := time.Parse(`"`+time.RFC3339Nano+`"`, string(b))
	if err != nil {
		return err
	}
	*nt = NTime{parsedTime, true}
	return nil
}

// MarshalJSON implements the Marshaller interface and operates on values rather than pointers, given NTime's heft.
func (nt NTime) MarshalJSON() ([]byte, error) {
	if nt.isValid {
		return []byte(fmt.Sprintf("%q", nt.time.UTC().Format(time.RFC3339Nano))), nil
	}
	return []byte("null"), nil
}

// Scan implements the Scanner interface; null column values yield an invalid NTime rather than an error.
func (nt *NTime) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		nt.time, nt.isValid = v, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return err
		}
		nt.time, nt.isValid = parsed, true
	default:
		nt.isValid = false
	}
	return nil
}

// storageFormat pads fractional seconds to a fixed width, so stored timestamps sort lexicographically
const storageFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Value implements the driver Valuer interface.
func (nt NTime) Value() (driver.Value, error) {
	if nt.isValid {
		return driver.Value(nt.time.UTC().Format(storageFormat)), nil
	}
	return nil, nil
}

func Now() NTime {
	return NTime{time: time.Now().UTC(), isValid: true}
}

func (nt NTime) Before(compared NTime) bool {
	return nt.time.Before(compared.time)
}

func (nt NTime) IsValid() bool {
	return nt.isValid
}
