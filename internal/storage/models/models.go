package models

import "time"

// HistoryRecord is the durable record of one completed query and its
// normalized response. Created once at the end of a successful analysis,
// never mutated, removed only by a bulk clear.
type HistoryRecord struct {
	QueryID           string
	UserID            string
	Symptoms          string
	Age               *int
	Pregnant          *bool
	ChronicConditions string
	ModelResponse     string // normalized response stored as a JSON blob
	CreatedAt         time.Time
}
