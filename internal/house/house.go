// Package house stores the listings a user decided to keep, together with
// the record discovered for them, a vote and a free-text comment.
package house

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/housefinder/internal/extract"
)

var (
	// ErrNotFound is returned when no house has the requested id. Removing
	// an already removed house also reports it.
	ErrNotFound = errors.New("house not found")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid house id")
	// ErrInvalidHouse is returned when a new house has no link.
	ErrInvalidHouse = errors.New("invalid house")
)

// House is a saved listing. The discovered record is stored as is.
type House struct {
	ID      string  `json:"id"`
	Link    string  `json:"link"`
	Vote    *int    `json:"vote"`
	Comment *string `json:"comment"`
	Removed bool    `json:"removed"`
	extract.Record
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewHouse is the payload accepted by Insert.
type NewHouse struct {
	Link    string  `json:"link"`
	Vote    *int    `json:"vote"`
	Comment *string `json:"comment"`
	extract.Record
}

// Validate checks the fields Insert requires.
func (n NewHouse) Validate() error {
	if n.Link == "" {
		return fmt.Errorf("%w: link is required", ErrInvalidHouse)
	}
	return nil
}

// Update replaces the vote and the comment of a house. Nil clears a value.
type Update struct {
	Vote    *int    `json:"vote"`
	Comment *string `json:"comment"`
}

// Store persists houses.
type Store interface {
	Insert(ctx context.Context, h NewHouse) (string, error)
	// Remove marks a house as removed; it stays readable through Get.
	Remove(ctx context.Context, id string) error
	// List returns houses not removed, oldest first.
	List(ctx context.Context) ([]House, error)
	Get(ctx context.Context, id string) (House, error)
	Update(ctx context.Context, id string, u Update) (House, error)
	Close() error
}

// parseID normalizes id to its canonical UUID form.
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
