package clock

import (
	"context"
	"time"
)

type SystemClock struct{}

func (SystemClock) Now(context.Context) time.Time {
	return time.Now().UTC()
}

// Fixed is a test clock frozen at a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now(context.Context) time.Time { return f.T }
