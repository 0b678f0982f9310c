// Package sensitivity categorizes content by storage risk. It is a
// read-only view: classification never modifies text, and it does not
// require redaction to have run first.
package sensitivity

import "regexp"

// Type enumerates the risk categories a text can match.
type Type string

const (
	TypeCredentials         Type = "credentials"
	TypePrivateKey          Type = "private_key"
	TypeFinancialData       Type = "financial_data"
	TypeInternalPaths       Type = "internal_paths"
	TypeDatabaseCredentials Type = "database_credentials"
)

// Report describes why content may be risky to persist.
type Report struct {
	IsSensitive  bool     `json:"is_sensitive"`
	MatchedTypes []Type   `json:"matched_types,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
}

type detector struct {
	typ      Type
	patterns []*regexp.Regexp
	reason   string
}

// Detection is intentionally more aggressive than redaction: flagging a
// tx hash as possibly-a-key costs a warning, masking one destroys data.
var detectors = []detector{
	{
		typ: TypeCredentials,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|secret|token|password|passwd|credential)\b\s*[:=]`),
			regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`),
			regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9_]{36,}\b`),
			regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/-]{16,}`),
		},
		reason: "contains credential-shaped assignments or provider tokens",
	},
	{
		typ: TypePrivateKey,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:0x)?[0-9a-fA-F]{64}\b`),
			regexp.MustCompile(`-----BEGIN[A-Z ]*PRIVATE KEY-----`),
		},
		reason: "contains private-key-shaped material",
	},
	{
		typ: TypeFinancialData,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`[$€£]\s?\d{1,3}(?:,\d{3})+(?:\.\d+)?`),
			regexp.MustCompile(`(?i)\b\d{5,}(?:\.\d+)?\s?(?:usd|usdc|usdt|dai|eth|weth|wbtc)\b`),
			regexp.MustCompile(`(?i)\b(?:profit|loss|drained|stolen|extracted)\b[^\n]{0,40}\b\d{4,}`),
		},
		reason: "contains large financial figures",
	},
	{
		typ: TypeInternalPaths,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:^|[\s"'(=])/(?:home|root|Users|var|opt|srv|etc)/[^\s"')]+`),
			regexp.MustCompile(`[A-Za-z]:\\Users\\[^\s"']+`),
		},
		reason: "contains internal filesystem paths",
	},
	{
		typ: TypeDatabaseCredentials,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s/@"']+:[^\s@"']+@`),
			regexp.MustCompile(`(?i)\b(?:DATABASE_URL|DB_PASSWORD|PG_?PASSWORD|MYSQL_PWD)\b\s*[:=]`),
		},
		reason: "contains database connection credentials",
	},
}

// Classify runs every detector against text and unions the findings.
// A text may match multiple types; IsSensitive is true iff any matched.
func Classify(text string) Report {
	report := Report{}
	if text == "" {
		return report
	}
	for _, d := range detectors {
		for _, p := range d.patterns {
			if p.MatchString(text) {
				report.MatchedTypes = append(report.MatchedTypes, d.typ)
				report.Reasons = append(report.Reasons, d.reason)
				break
			}
		}
	}
	report.IsSensitive = len(report.MatchedTypes) > 0
	return report
}
