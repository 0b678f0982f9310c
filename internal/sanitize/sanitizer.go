// Package sanitize composes internal-path removal, secret redaction,
// sensitivity classification and length capping into one "make this
// safe to persist" call.
package sanitize

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/halcyonsec/memgate/internal/redact"
	"github.com/halcyonsec/memgate/internal/sensitivity"
)

// Options controls which sanitization steps run.
type Options struct {
	RedactSecrets       bool `yaml:"redact_secrets" mapstructure:"redact_secrets"`
	RemoveInternalPaths bool `yaml:"remove_internal_paths" mapstructure:"remove_internal_paths"`
	// MaxLength caps the sanitized text in bytes; 0 means uncapped.
	MaxLength int `yaml:"max_length" mapstructure:"max_length"`
}

// DefaultOptions returns the documented defaults: redact and remove
// paths, no length cap.
func DefaultOptions() Options {
	return Options{RedactSecrets: true, RemoveInternalPaths: true}
}

// Modification records one class of change applied during sanitization.
type Modification struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Outcome is the result of a sanitize call. Sensitivity always
// describes the original input, not the redacted output.
type Outcome struct {
	Text          string             `json:"text"`
	WasModified   bool               `json:"was_modified"`
	Modifications []Modification     `json:"modifications,omitempty"`
	Sensitivity   sensitivity.Report `json:"sensitivity"`
}

const (
	pathPlaceholder  = "[PATH]"
	truncationMarker = "\n...[truncated]"
)

var internalPathRe = regexp.MustCompile(`(?:/(?:home|root|Users|tmp|var|opt|srv)(?:/[A-Za-z0-9._-]+)+)|(?:[A-Za-z]:\\Users\\[^\s"']+)`)

// Sanitizer applies the configured steps in a fixed order: paths,
// secrets, classification of the original, then the length cap so the
// cap measures the sanitized result.
type Sanitizer struct {
	redactor *redact.Redactor
	logger   *zap.Logger
}

// New creates a sanitizer with the default secret catalogue.
func New(logger *zap.Logger) *Sanitizer {
	return NewWithRedactor(redact.NewDefault(), logger)
}

// NewWithRedactor creates a sanitizer around a custom redactor, for
// callers that override catalogue precedence.
func NewWithRedactor(r *redact.Redactor, logger *zap.Logger) *Sanitizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sanitizer{redactor: r, logger: logger}
}

// Sanitize makes content safe to persist according to opts.
func (s *Sanitizer) Sanitize(content string, opts Options) Outcome {
	text := content
	var mods []Modification

	if opts.RemoveInternalPaths {
		count := 0
		text = internalPathRe.ReplaceAllStringFunc(text, func(string) string {
			count++
			return pathPlaceholder
		})
		if count > 0 {
			mods = append(mods, Modification{Kind: "internal_paths", Count: count})
		}
	}

	if opts.RedactSecrets {
		res := s.redactor.Redact(text)
		if res.Count > 0 {
			text = res.Redacted
			mods = append(mods, Modification{Kind: "secret_redaction", Count: res.Count})
		}
	}

	report := sensitivity.Classify(content)

	if opts.MaxLength > 0 && len(text) > opts.MaxLength {
		if opts.MaxLength > len(truncationMarker) {
			text = text[:opts.MaxLength-len(truncationMarker)] + truncationMarker
		} else {
			text = text[:opts.MaxLength]
		}
		mods = append(mods, Modification{Kind: "truncation", Count: 1})
	}

	if len(mods) > 0 {
		s.logger.Debug("content sanitized",
			zap.Int("original_bytes", len(content)),
			zap.Int("final_bytes", len(text)),
			zap.Bool("sensitive", report.IsSensitive),
		)
	}

	return Outcome{
		Text:          text,
		WasModified:   text != content,
		Modifications: mods,
		Sensitivity:   report,
	}
}
