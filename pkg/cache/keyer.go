package cache

// GraphKeyOpts holds the inputs besides the catalog that change a built graph.
type GraphKeyOpts struct {
	ProficiencyHash string `json:"proficiency_hash,omitempty"`
}

// LayoutKeyOpts holds the layout options that change node positions.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Fog    bool    `json:"fog,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Title  string  `json:"title,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	HTTPKey(namespace, key string) string
	GraphKey(catalogHash string, opts GraphKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>". HTTP keys stay readable so that
// entries can be inspected by hand.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey hashes the catalog hash together with the graph options.
func (DefaultKeyer) GraphKey(catalogHash string, opts GraphKeyOpts) string {
	return hashKey("graph", catalogHash, opts)
}

// LayoutKey hashes the graph hash together with the layout options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
