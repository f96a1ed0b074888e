package types

// StoreConfig holds settings for the lookup-table store.
type StoreConfig struct {
	// TablesDir is the base directory for stored tables (contains index/).
	TablesDir string `json:"tables_dir" yaml:"tables_dir"`

	// MaxResults is the default maximum number of list/query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// GenerateConfig holds settings for a table generation request.
type GenerateConfig struct {
	// Operators selects which integral types to generate tables for.
	Operators []Operator `json:"operators" yaml:"operators"`

	// DerivOrder is the differentiation order to generate for.
	DerivOrder int `json:"deriv_order" yaml:"deriv_order"`

	// NumAtoms sizes the nuclear component block of the potential operator.
	NumAtoms int `json:"num_atoms" yaml:"num_atoms"`

	// Force regenerates tables even when an identical run is already stored.
	Force bool `json:"force" yaml:"force"`
}
