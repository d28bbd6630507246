package order

import "time"

// HistoryEntry is one audit record. Entries are only ever appended.
type HistoryEntry struct {
	Status       Status
	At           time.Time
	ActingUserID int64
	Note         string
}
