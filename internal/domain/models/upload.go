package models

import "time"

// FileMeta describes one stored upload. StoredName is the stable reference
// usable to fetch the file later; ID mirrors it for client bookkeeping.
type FileMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StoredName string    `json:"stored_name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}
