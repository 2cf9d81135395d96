package notes

import (
	"errors"
	"time"
)

const maxTitleLength = 100

var (
	ErrEmptyContent = errors.New("note content is required")
	ErrTitleTooLong = errors.New("note title exceeds 100 characters")
)

// Note is a plain text sticky note. Title is optional.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title,omitempty" json:"title,omitempty"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (n *Note) Validate() error {
	if n.Content == "" {
		return ErrEmptyContent
	}
	if len(n.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
