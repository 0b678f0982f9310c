package corpus

import "time"

// Record is one historical finding from a corpus file.
type Record struct {
	Text    string `csv:"text" parquet:"text" json:"text"`
	Kind    string `csv:"kind" parquet:"kind" json:"kind"`
	Pattern string `csv:"pattern" parquet:"pattern" json:"pattern"`
}

// Stats summarizes one evaluation run.
type Stats struct {
	TotalRecords int64         `json:"total_records"`
	Accepted     int64         `json:"accepted"`
	Duplicates   int64         `json:"duplicates"`
	Failed       int64         `json:"failed"`
	Sensitive    int64         `json:"sensitive"`
	MeanNovelty  float64       `json:"mean_novelty"`
	Diversity    float64       `json:"diversity"`
	Duration     time.Duration `json:"duration"`
	EmbedTime    time.Duration `json:"embed_time"`
	Errors       []string      `json:"errors,omitempty"`
}

// Config contains corpus evaluation settings.
type Config struct {
	BatchSize      int
	ProgressReport int
	// EmbedsPerSecond throttles embedding generation; 0 disables the
	// limiter.
	EmbedsPerSecond float64
	// DiversitySample caps how many accepted vectors feed the O(n^2)
	// diversity computation.
	DiversitySample int
}

// FileFormat identifies a supported corpus file format.
type FileFormat string

const (
	FormatCSV     FileFormat = "csv"
	FormatParquet FileFormat = "parquet"
	FormatJSON    FileFormat = "json"
	FormatUnknown FileFormat = "unknown"
)
