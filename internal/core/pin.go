package core

import "time"

// PinStaleAfter is how long a dynamic PIN is considered usable. Staleness
// is advisory only; stale codes are still displayed.
const PinStaleAfter = 10 * time.Minute

// PinResponse is the payload returned by the dynamic-PIN webhook. Field
// names follow the upstream wire format.
type PinResponse struct {
	RowNumber int   `json:"row_number"`
	Timestamp int64 `json:"TIMESTAMP"` // epoch milliseconds
	Codigo    int64 `json:"CODIGO"`
}

// GeneratedAt converts the upstream epoch-millisecond instant.
func (p PinResponse) GeneratedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Stale reports whether more than PinStaleAfter has elapsed since the code
// was generated upstream.
func (p PinResponse) Stale(now time.Time) bool {
	return now.Sub(p.GeneratedAt()) > PinStaleAfter
}
