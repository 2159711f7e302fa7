package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey names one emitted file of one page.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	// SummaryKey names the breakpoint summary of a whole project.
	SummaryKey(inputHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the options that change computed layouts.
type LayoutKeyOpts struct {
	MaxWidth       int     `json:"max_width"`
	WidthAlgorithm string  `json:"width_algorithm"`
	Arrangement    string  `json:"arrangement"`
	MaxIterations  int     `json:"max_iterations,omitempty"`
	Tolerance      float64 `json:"tolerance,omitempty"`
}

// ArtifactKeyOpts identify one artifact.
type ArtifactKeyOpts struct {
	LayoutKeyOpts
	Page   string `json:"page"`
	Format string `json:"format"`
}

// DefaultKeyer hashes the inputs and options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// SummaryKey implements [Keyer].
func (DefaultKeyer) SummaryKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("summary", inputHash, opts)
}
