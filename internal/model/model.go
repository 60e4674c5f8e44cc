// Package model defines the data types shared by the journal client:
// journal entries as the backend returns them, the user profile, and the
// derived time buckets used to group entries for display.
package model

import (
	"encoding/json"
	"time"
)

// JournalEntry is a single journal entry owned by the authenticated user.
// ID and CreatedAt are server-assigned; CreatedAt never changes after
// creation. Title and Content are editable independently of each other.
type JournalEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultTags is the tag set applied to newly created entries.
func DefaultTags() []string { return []string{"journal"} }

// journalEntryJSON mirrors JournalEntry on the wire. The backend is
// inconsistent about the id field: the list endpoint emits Mongo-style
// "_id" while single-entry responses emit "id". Accept both.
type journalEntryJSON struct {
	ID        string    `json:"id"`
	MongoID   string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *JournalEntry) UnmarshalJSON(data []byte) error {
	var raw journalEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == "" {
		id = raw.MongoID
	}
	*e = JournalEntry{
		ID:        id,
		Title:     raw.Title,
		Content:   raw.Content,
		Tags:      raw.Tags,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

// Bucket names a display time range for grouped entries. Buckets are
// mutually exclusive; every entry belongs to exactly one.
type Bucket int

const (
	BucketToday Bucket = iota
	BucketYesterday
	BucketThisWeek
	BucketLastWeek
	BucketThisMonth
	BucketLastMonth
	BucketOlder
)

// Buckets lists all buckets in display order.
var Buckets = []Bucket{
	BucketToday,
	BucketYesterday,
	BucketThisWeek,
	BucketLastWeek,
	BucketThisMonth,
	BucketLastMonth,
	BucketOlder,
}

func (b Bucket) String() string {
	switch b {
	case BucketToday:
		return "Today"
	case BucketYesterday:
		return "Yesterday"
	case BucketThisWeek:
		return "This Week"
	case BucketLastWeek:
		return "Last Week"
	case BucketThisMonth:
		return "This Month"
	case BucketLastMonth:
		return "Last Month"
	default:
		return "Older"
	}
}

// EntryGroup is a named time bucket holding an ordered slice of entries.
// Groups are derived from the entry collection on demand and never stored.
type EntryGroup struct {
	Bucket  Bucket
	Entries []JournalEntry
}

// Address is the nested address block of a user profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Preferences holds the user-tunable settings stored with the profile.
type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	Theme              string `json:"theme"`
}

// Profile is the user profile as served by GET /api/profile.
type Profile struct {
	ID          string      `json:"_id,omitempty"`
	UserID      string      `json:"userId,omitempty"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	DateOfBirth string      `json:"dateOfBirth,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Address     Address     `json:"address,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt,omitzero"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero"`
}
