package notes

import (
	"context"
	"errors"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository interface {
	List(ctx context.Context) ([]*Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, note *Note) error
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
}
