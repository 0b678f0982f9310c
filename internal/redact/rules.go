package redact

import "regexp"

// DefaultRules returns the built-in recognizer catalogue, ordered from
// most specific to least specific. Order matters: when two matches of
// equal length start at the same offset, the earlier rule wins.
func DefaultRules() []Rule {
	return []Rule{
		// RPC endpoints with an embedded project key or path secret
		// (Infura/Alchemy/QuickNode style).
		{
			Category: CategoryRPCCredential,
			Pattern:  regexp.MustCompile(`(?i)\bhttps?://[a-z0-9.-]*(?:infura\.io|alchemy\.com|alchemyapi\.io|quiknode\.pro|quicknode\.com|getblock\.io|chainstack\.com|ankr\.com)/[A-Za-z0-9_/-]{8,}`),
		},
		// RPC/websocket URLs carrying userinfo credentials.
		{
			Category: CategoryRPCCredential,
			Pattern:  regexp.MustCompile(`(?i)\b(?:https?|wss?)://[^/\s:@"']+:[^@\s"']+@[a-z0-9.-]+`),
		},
		// PEM private key blocks.
		{
			Category: CategoryPrivateKey,
			Pattern:  regexp.MustCompile(`-----BEGIN[A-Z ]*PRIVATE KEY-----[A-Za-z0-9+/=\s]*?-----END[A-Z ]*PRIVATE KEY-----`),
		},
		// Raw EVM signer keys in assignments. A bare 32-byte hex string is
		// ambiguous (tx hashes, storage slots share the shape), so the rule
		// requires key-flavored context on the same line.
		{
			Category: CategoryPrivateKey,
			Pattern:  regexp.MustCompile(`(?i)(?:private[_-]?key|privkey|signer[_-]?key|deployer[_-]?key|wallet[_-]?key)[^\n]{0,32}?((?:0x)?[0-9a-fA-F]{64})\b`),
			Group:    1,
		},
		// JWT-shaped bearer tokens.
		{
			Category: CategoryBearerToken,
			Pattern:  regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{5,}\b`),
		},
		// Authorization-header style bearer tokens.
		{
			Category: CategoryBearerToken,
			Pattern:  regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/-]{16,}=*`),
		},
		// AWS access key IDs.
		{
			Category: CategoryCloudCredential,
			Pattern:  regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
		},
		// AWS secret access keys in assignments.
		{
			Category: CategoryCloudCredential,
			Pattern:  regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})`),
			Group:    1,
		},
		// GCP API keys.
		{
			Category: CategoryCloudCredential,
			Pattern:  regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`),
		},
		// Provider-prefixed API keys (Anthropic, OpenAI, GitHub, Slack).
		{
			Category: CategoryAPIKey,
			Pattern:  regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{20,}\b`),
		},
		{
			Category: CategoryAPIKey,
			Pattern:  regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`),
		},
		{
			Category: CategoryAPIKey,
			Pattern:  regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9_]{36,}\b`),
		},
		{
			Category: CategoryAPIKey,
			Pattern:  regexp.MustCompile(`\bxox[bporas]-[A-Za-z0-9-]{10,}\b`),
		},
		// Explicit api key assignments.
		{
			Category: CategoryAPIKey,
			Pattern:  regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9_-]{16,})`),
			Group:    1,
		},
		// Generic "KEY=value" shaped secrets. Deliberately last: the value
		// charset excludes '[' so already-masked text never rematches.
		{
			Category: CategoryGenericSecret,
			Pattern:  regexp.MustCompile(`(?i)\b(?:secret|token|password|passwd|credential|auth[_-]?token)[A-Za-z0-9_]*\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{8,})`),
			Group:    1,
		},
	}
}
