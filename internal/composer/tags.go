package composer

import (
	"slices"

	"github.com/tgienger/ask/internal/models"
)

// SetTagInput stores the text typed into the tag entry field
func (c *Composer) SetTagInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tagInput = text
}

// TagInput returns the tag entry field
func (c *Composer) TagInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tagInput
}

// AddTag appends raw as typed, without trimming or deduplication, and
// clears the tag entry field.
func (c *Composer) AddTag(raw string) models.Tag {
	tag := models.NewTag(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tag)
	c.tagInput = ""
	return tag
}

// RemoveTag removes every tag equal to value and returns how many were removed
func (c *Composer) RemoveTag(value string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.tags)
	c.tags = slices.DeleteFunc(c.tags, func(t models.Tag) bool {
		return t.Value == value
	})
	return before - len(c.tags)
}

// Tags returns the tags in insertion order
func (c *Composer) Tags() []models.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tags)
}

// TagValues returns the tag values in insertion order
func (c *Composer) TagValues() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	values := make([]string, len(c.tags))
	for i, t := range c.tags {
		values[i] = t.Value
	}
	return values
}
