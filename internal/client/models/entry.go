// Package models defines the client-side views of API resources.
package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Entry is a data entry as returned by the server.
type Entry struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	EntryDate     time.Time `json:"entryDate"`
	HasAttachment bool      `json:"hasAttachment"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewEntry is the create payload. EntryDate is a date (yyyy-mm-dd) or an
// RFC 3339 timestamp; empty means today.
type NewEntry struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	EntryDate string `json:"entryDate,omitempty"`
}

// Attachment is a presigned object storage URL.
type Attachment struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Line renders the entry as a single list row.
func (e Entry) Line() string {
	mark := ""
	if e.HasAttachment {
		mark = " [file]"
	}
	return fmt.Sprintf("%d\t%s\t%s%s", e.ID, e.EntryDate.UTC().Format(dateLayout), e.Title, mark)
}
