package module

import "github.com/vk/orchid/internal/state"

// Base carries the per-instance plumbing most module implementations embed:
// the runtime name the instance publishes artifacts under, and the run's
// shared state once SetUp has received it.
type Base struct {
	RuntimeName string
	State       *state.State
}

// Publish appends an artifact under this instance's runtime name.
func (b *Base) Publish(artifact state.Artifact) {
	b.State.AddArtifact(b.RuntimeName, artifact)
}

// ArtifactsFrom returns the artifacts a dependency has produced. Modules
// must only read from runtime names they declared in wants.
func (b *Base) ArtifactsFrom(dependency string) []state.Artifact {
	return b.State.Artifacts(dependency)
}
