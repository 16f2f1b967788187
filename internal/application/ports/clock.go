package ports

import "time"

// Clock fuente de tiempo inyectable (los tests fijan el instante).
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
