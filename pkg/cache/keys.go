package cache

// Keyer generates cache keys for each cached stage.
type Keyer interface {
	// OutputKey is the key of the flattened document of root.
	OutputKey(root string, opts OutputKeyOpts) string

	// ArtifactKey is the key of a rendered include graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// OutputKeyOpts are the resolver settings that change the flattened output.
type OutputKeyOpts struct {
	Relative bool   `json:"relative"`
	MaxDepth int    `json:"max_depth"`
	Source   string `json:"source,omitempty"` // store identity, e.g. the FS root
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Base   string `json:"base,omitempty"` // label base directory
}

// DefaultKeyer hashes the key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OutputKey returns "output:<sha256>".
func (DefaultKeyer) OutputKey(root string, opts OutputKeyOpts) string {
	return hashKey("output", root, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
