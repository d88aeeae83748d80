// Package state holds the shared mutable store for a single orchestration
// run. Module instances running on concurrent workers append artifacts and
// errors here and read the artifacts produced by their completed
// dependencies. Every access goes through one mutex; unsynchronized
// mutation would corrupt cross-branch reads, not just slow them down.
package state

import (
	"sync"

	"github.com/google/uuid"
)

// MetadataRunID is the metadata key under which the run identifier is stored.
const MetadataRunID = "run_id"

// Artifact is a single unit of data produced by a module. The engine treats
// artifacts as opaque; Kind and Attributes are a contract between the
// producing and consuming modules.
type Artifact struct {
	// Kind names the artifact category, e.g. "report" or "disk_image".
	Kind string
	// Name is a human-readable label for the artifact.
	Name string
	// Attributes carries the artifact payload.
	Attributes map[string]any
}

// State is the shared store for one run. It is created when the run starts
// and discarded once the run report has been produced. It must never be
// shared across runs.
type State struct {
	mu        sync.RWMutex
	artifacts map[string][]Artifact
	errors    []ModuleError
	metadata  map[string]any
}

// New creates a fresh State carrying a unique run identifier in its metadata.
func New() *State {
	return &State{
		artifacts: make(map[string][]Artifact),
		metadata: map[string]any{
			MetadataRunID: uuid.New().String(),
		},
	}
}

// RunID returns the unique identifier assigned to this run.
func (s *State) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, _ := s.metadata[MetadataRunID].(string)
	return id
}

// AddArtifact appends an artifact to the named module's collection.
func (s *State) AddArtifact(moduleName string, artifact Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[moduleName] = append(s.artifacts[moduleName], artifact)
}

// Artifacts returns a copy of the artifacts produced so far by the named
// module, in the order they were appended. Callers own the returned slice.
func (s *State) Artifacts(moduleName string) []Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.artifacts[moduleName]
	out := make([]Artifact, len(stored))
	copy(out, stored)
	return out
}

// AddError appends a module error to the run's ordered error sequence.
func (s *State) AddError(err ModuleError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

// Errors returns a copy of the errors recorded so far, in append order.
func (s *State) Errors() []ModuleError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ModuleError, len(s.errors))
	copy(out, s.errors)
	return out
}

// SetMetadata stores a run-global metadata value, e.g. an incident identifier
// threaded through to every module.
func (s *State) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// Metadata returns the metadata value for key, and whether it was present.
func (s *State) Metadata(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.metadata[key]
	return v, ok
}
