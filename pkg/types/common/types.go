// Package common holds small value types shared by the domain packages and
// the public client.
package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunID identifies one execution of the cache builder.
type RunID string

// NewRunID returns a fresh random RunID.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// String implements fmt.Stringer.
func (r RunID) String() string { return string(r) }

// Validate checks that r is a well-formed UUID.
func (r RunID) Validate() error {
	if r == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if _, err := uuid.Parse(string(r)); err != nil {
		return fmt.Errorf("run id %q is not a valid UUID: %w", string(r), err)
	}
	return nil
}

// Float returns a pointer to v.  Cache documents use *float64 for nullable
// numbers.
func Float(v float64) *float64 { return &v }

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Timestamp is a UTC time rendered as RFC 3339 in documents and events.
type Timestamp time.Time

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().UTC()) }

// Time converts back to time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// MarshalJSON renders RFC 3339 with nanoseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON parses RFC 3339.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("timestamp: expected JSON string, got %s", string(b))
	}
	parsed, err := time.Parse(time.RFC3339Nano, string(b[1:len(b)-1]))
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*t = Timestamp(parsed)
	return nil
}

//Personal.AI order the ending
