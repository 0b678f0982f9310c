package redact

import "regexp"

// Category identifies the class of secret a rule detects.
type Category string

const (
	CategoryRPCCredential   Category = "rpc_credential"
	CategoryPrivateKey      Category = "private_key"
	CategoryBearerToken     Category = "bearer_token"
	CategoryCloudCredential Category = "cloud_credential"
	CategoryAPIKey          Category = "api_key"
	CategoryGenericSecret   Category = "generic_secret"
)

// Rule is a single secret recognizer. Group selects the submatch that
// holds the secret itself; 0 masks the whole match.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
	Group    int
}

// Result contains the outcome of one redaction pass.
type Result struct {
	Redacted   string     `json:"redacted"`
	Count      int        `json:"count"`
	Categories []Category `json:"categories,omitempty"`
}
