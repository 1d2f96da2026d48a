package cache

// Keyer derives cache keys. Implementations must include every input that
// changes the cached bytes.
type Keyer interface {
	// GraphKey identifies the JSON export of one game's study graph.
	GraphKey(sourceHash string, opts GraphKeyOpts) string

	// ArtifactKey identifies one rendered output format.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the inputs that shape the study graph.
type GraphKeyOpts struct {
	Game int    `json:"game"`
	IDs  string `json:"ids"`

	// Colors is a hash of the annotation color overrides.
	Colors string `json:"colors"`
}

// ArtifactKeyOpts are the inputs that shape a rendered artifact.
type ArtifactKeyOpts struct {
	Game   int    `json:"game"`
	IDs    string `json:"ids"`
	Format string `json:"format"`

	// Render is a hash of the rendering options.
	Render string `json:"render"`
}

// DefaultKeyer produces "graph:<sha>" and "artifact:<sha>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

var _ Keyer = DefaultKeyer{}
