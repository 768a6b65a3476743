package models

import (
	"time"

	"github.com/google/uuid"
)

// Theme is a catalog category an author may attach to a question
type Theme struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageRef string `json:"image"`
}

// Tag is a free-form keyword. InstanceID identifies one occurrence of the
// value so duplicates can be rendered side by side.
type Tag struct {
	Value      string
	InstanceID uuid.UUID
}

// NewTag wraps value with a fresh instance ID
func NewTag(value string) Tag {
	return Tag{Value: value, InstanceID: uuid.New()}
}

// Key returns the rendering key of the tag
func (t Tag) Key() string {
	return t.InstanceID.String()
}

// Payload is the immutable snapshot of a draft sent to the posting service
type Payload struct {
	Question       string   `json:"question"`
	Teaser         string   `json:"teaser"`
	SelectedThemes []int64  `json:"selected_themes"`
	Tags           []string `json:"tags"`
}

// Question is a submitted question as listed on the home screen
type Question struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Teaser    string    `json:"teaser"`
	Themes    []Theme   `json:"themes"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the identity shown on the profile screen
type Profile struct {
	FirstName    string `json:"first-name"`
	LastName     string `json:"last-name"`
	Job          string `json:"job"`
	ProfileImage string `json:"profile-image"`
}

// Initial returns the first letter of the first name, or "" when unknown
func (p Profile) Initial() string {
	for _, r := range p.FirstName {
		return string(r)
	}
	return ""
}

// FullName joins first and last name
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
