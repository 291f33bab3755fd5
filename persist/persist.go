// Package persist provides snapshot persistence for variant machines:
// file-based JSON/YAML persisters and an in-memory versioned registry.
package persist

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("machine not found")
	ErrNoVersions = errors.New("machine has no registered versions")
)

// Snapshot captures a machine's externally visible state: the raw name of
// the current variant and its payload, if any. Names rather than tags go to
// disk so a snapshot survives tag renumbering.
type Snapshot struct {
	Machine string    `json:"machine" yaml:"machine"`
	Variant string    `json:"variant" yaml:"variant"`
	Payload any       `json:"payload,omitempty" yaml:"payload,omitempty"`
	TakenAt time.Time `json:"taken_at" yaml:"taken_at"`
}

// Persister stores and retrieves snapshots keyed by machine name.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, machine string) (Snapshot, error)
}
