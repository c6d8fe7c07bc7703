package ports

import "time"

// Clock abstracts wall-clock time so scheduled jobs and handlers can be
// tested with a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
