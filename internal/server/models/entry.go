package models

import "time"

// DataEntry is a dated note owned by a user. AttachmentKey is the object
// storage key of an uploaded attachment, empty when there is none.
type DataEntry struct {
	ID            int64
	UserID        int64
	Title         string
	Content       string
	EntryDate     time.Time
	AttachmentKey string
	CreatedAt     time.Time
}
