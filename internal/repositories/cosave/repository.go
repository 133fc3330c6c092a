// Package cosave stores save-container blobs by slot name. The simulator
// uses it to carry a session's records from one run to the next.
package cosave

import (
	"context"
	"time"
)

// Repository defines the storage interface for save slots
type Repository interface {
	// Put stores a slot, replacing any previous blob
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)

	// Get retrieves a slot
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns every stored slot without blobs, ordered by name
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Delete removes a slot
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Slot is one stored save container
type Slot struct {
	Name    string
	SavedAt time.Time
	Size    int
	Blob    []byte
}

// PutInput defines the request for storing a slot
type PutInput struct {
	Name string
	Blob []byte
}

// PutOutput defines the response for storing a slot
type PutOutput struct {
	Slot *Slot
}

// GetInput defines the request for retrieving a slot
type GetInput struct {
	Name string
}

// GetOutput defines the response for retrieving a slot
type GetOutput struct {
	Slot *Slot
}

// ListInput defines the request for listing slots
type ListInput struct{}

// ListOutput defines the response for listing slots
type ListOutput struct {
	Slots []*Slot
}

// DeleteInput defines the request for deleting a slot
type DeleteInput struct {
	Name string
}

// DeleteOutput defines the response for deleting a slot
type DeleteOutput struct{}
