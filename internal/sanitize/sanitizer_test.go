package sanitize

import (
	"strings"
	"testing"

	"github.com/halcyonsec/memgate/internal/sensitivity"
	"go.uber.org/zap"
)

// TestSanitize tests the composed sanitization steps
func TestSanitize(t *testing.T) {
	s := New(zap.NewNop())

	t.Run("CleanContentUntouched", func(t *testing.T) {
		input := "The oracle can be skewed by a large swap before liquidation."
		out := s.Sanitize(input, DefaultOptions())

		if out.Text != input {
			t.Errorf("Clean content should pass through, got: %s", out.Text)
		}
		if out.WasModified {
			t.Error("Clean content should not be marked modified")
		}
		if len(out.Modifications) != 0 {
			t.Errorf("Expected no modifications, got %v", out.Modifications)
		}
	})

	t.Run("PathsRemoved", func(t *testing.T) {
		out := s.Sanitize("trace written to /home/researcher/runs/out.log today", DefaultOptions())

		if strings.Contains(out.Text, "/home/researcher") {
			t.Error("Internal path survived sanitization")
		}
		if !strings.Contains(out.Text, "[PATH]") {
			t.Errorf("Expected path placeholder, got: %s", out.Text)
		}
		if !out.WasModified {
			t.Error("Path removal should mark content modified")
		}
		if !hasModification(out, "internal_paths") {
			t.Errorf("Expected internal_paths modification, got %v", out.Modifications)
		}
	})

	t.Run("WindowsPathsRemoved", func(t *testing.T) {
		out := s.Sanitize(`log at C:\Users\alice\run.log`, DefaultOptions())
		if strings.Contains(out.Text, `C:\Users`) {
			t.Errorf("Windows path survived: %s", out.Text)
		}
	})

	t.Run("SecretsRedacted", func(t *testing.T) {
		out := s.Sanitize("export API_KEY=abcdef1234567890abcd", DefaultOptions())

		if strings.Contains(out.Text, "abcdef1234567890abcd") {
			t.Error("Secret survived sanitization")
		}
		if !hasModification(out, "secret_redaction") {
			t.Errorf("Expected secret_redaction modification, got %v", out.Modifications)
		}
	})

	t.Run("ClassifiesOriginalNotRedacted", func(t *testing.T) {
		// The report must describe the input even though the output is
		// already clean.
		out := s.Sanitize("password=supersecret99", DefaultOptions())

		if !out.Sensitivity.IsSensitive {
			t.Error("Sensitivity must reflect the original content")
		}
		if !hasSensitivityType(out.Sensitivity, sensitivity.TypeCredentials) {
			t.Errorf("Expected credentials type, got %v", out.Sensitivity.MatchedTypes)
		}
	})

	t.Run("StepsDisabled", func(t *testing.T) {
		opts := Options{RedactSecrets: false, RemoveInternalPaths: false}
		input := "password=supersecret99 at /root/x/y"
		out := s.Sanitize(input, opts)

		if out.Text != input {
			t.Errorf("Disabled steps should not rewrite, got: %s", out.Text)
		}
		// Classification still runs.
		if !out.Sensitivity.IsSensitive {
			t.Error("Classification is not optional")
		}
	})
}

// TestSanitizeLengthCap verifies the cap holds for any input length
func TestSanitizeLengthCap(t *testing.T) {
	s := New(zap.NewNop())

	t.Run("CapEnforced", func(t *testing.T) {
		opts := Options{MaxLength: 100}
		for _, n := range []int{0, 50, 100, 101, 250, 10_000} {
			out := s.Sanitize(strings.Repeat("a", n), opts)
			if len(out.Text) > 100 {
				t.Errorf("Input %d: output %d bytes exceeds cap", n, len(out.Text))
			}
			if n > 100 && !strings.Contains(out.Text, "[truncated]") {
				t.Errorf("Input %d: missing truncation marker", n)
			}
		}
	})

	t.Run("TinyCap", func(t *testing.T) {
		out := s.Sanitize(strings.Repeat("a", 50), Options{MaxLength: 5})
		if len(out.Text) != 5 {
			t.Errorf("Cap smaller than marker should hard-cut, got %d bytes", len(out.Text))
		}
	})

	t.Run("ZeroMeansUncapped", func(t *testing.T) {
		input := strings.Repeat("a", 5000)
		out := s.Sanitize(input, Options{})
		if out.Text != input {
			t.Error("MaxLength 0 should not truncate")
		}
	})

	t.Run("CapMeasuresSanitizedText", func(t *testing.T) {
		// A long secret collapses to a short placeholder; the cap applies
		// after that collapse.
		input := "k=1 Bearer " + strings.Repeat("A", 80)
		out := s.Sanitize(input, Options{RedactSecrets: true, MaxLength: 60})
		if len(out.Text) > 60 {
			t.Errorf("Cap must bound the final text, got %d bytes", len(out.Text))
		}
	})
}

func hasModification(out Outcome, kind string) bool {
	for _, m := range out.Modifications {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

func hasSensitivityType(r sensitivity.Report, typ sensitivity.Type) bool {
	for _, mt := range r.MatchedTypes {
		if mt == typ {
			return true
		}
	}
	return false
}
