package models

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NavRecord is a request to show a view on the user's device
type NavRecord struct {
	ID        string    `dynamodbav:"id"`
	View      string    `dynamodbav:"view"`
	Session   string    `dynamodbav:"session,omitempty"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	TTL       int64     `dynamodbav:"ttl,omitempty"` // Unix timestamp, 0 keeps the record
}

// NewNavRecord creates a navigation record with a generated ID
func NewNavRecord(view, session string) *NavRecord {
	return &NavRecord{
		ID:        "nav-" + NewULID(),
		View:      view,
		Session:   session,
		CreatedAt: time.Now().UTC(),
	}
}

// ExpireAfter sets the TTL relative to CreatedAt. A non-positive ttl clears it.
func (r *NavRecord) ExpireAfter(ttl time.Duration) {
	if ttl <= 0 {
		r.TTL = 0
		return
	}
	r.TTL = r.CreatedAt.Add(ttl).Unix()
}

// NewULID generates a ULID string for unique identifiers
func NewULID() string {
	id, _ := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	return id.String()
}
