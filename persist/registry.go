package persist

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// versioned annotates a snapshot with its registry version.
type versioned struct {
	version  string
	snapshot Snapshot
}

// Registry is an in-memory versioned snapshot store. Every Register mints a
// fresh UUID version, so rolling a machine back to any earlier point is a
// Version lookup away. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	machines map[string][]versioned
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string][]versioned)}
}

// Register saves the snapshot under a newly minted version and returns it.
func (r *Registry) Register(snapshot Snapshot) (string, error) {
	if snapshot.Machine == "" {
		return "", fmt.Errorf("register: machine name is required")
	}
	version := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[snapshot.Machine] = append(r.machines[snapshot.Machine], versioned{
		version:  version,
		snapshot: snapshot,
	})
	return version, nil
}

// Latest returns the most recently registered snapshot for machine.
func (r *Registry) Latest(machine string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vs, ok := r.machines[machine]
	if !ok {
		return Snapshot{}, fmt.Errorf("machine %q: %w", machine, ErrNotFound)
	}
	if len(vs) == 0 {
		return Snapshot{}, fmt.Errorf("machine %q: %w", machine, ErrNoVersions)
	}
	return vs[len(vs)-1].snapshot, nil
}

// Version returns the snapshot registered under a specific version.
func (r *Registry) Version(machine, version string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vs, ok := r.machines[machine]
	if !ok {
		return Snapshot{}, fmt.Errorf("machine %q: %w", machine, ErrNotFound)
	}
	for _, v := range vs {
		if v.version == version {
			return v.snapshot, nil
		}
	}
	return Snapshot{}, fmt.Errorf("machine %q version %q: %w", machine, version, ErrNotFound)
}

// ListVersions returns the versions for machine, newest first.
func (r *Registry) ListVersions(machine string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vs, ok := r.machines[machine]
	if !ok {
		return nil, fmt.Errorf("machine %q: %w", machine, ErrNotFound)
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v.version
	}
	return out, nil
}

// ListMachines returns all registered machine names, sorted.
func (r *Registry) ListMachines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.machines))
	for m := range r.machines {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
