package reduce

// Kind tags an artifact with the reduction strategy that applies to it.
// Unknown kinds route to the generic reducer rather than failing.
type Kind string

const (
	KindSource      Kind = "source"
	KindABI         Kind = "abi"
	KindGraph       Kind = "graph"
	KindInvariant   Kind = "invariant"
	KindPath        Kind = "path"
	KindForgeLogs   Kind = "forge_logs"
	KindAddressList Kind = "address_list"
	KindGeneric     Kind = "generic"
)

// Result is a bounded, kind-appropriate digest of one artifact.
type Result struct {
	Summary string `json:"summary"`
	// ShouldStoreRaw hints that the unreduced original still carries
	// information load-bearing for later reasoning.
	ShouldStoreRaw bool                   `json:"should_store_raw"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

const (
	// maxInputBytes caps how much of an artifact any reducer will scan.
	maxInputBytes = 1 << 20
	// maxSummaryBytes caps the size of a reduced summary.
	maxSummaryBytes = 2000
	// topK caps per-section item lists in summaries and metadata.
	topK = 10
)
