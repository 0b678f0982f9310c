package redact

import (
	"sort"
	"strings"
)

// maxMatchesPerRule bounds the candidate list on adversarial input. The
// regexp engine itself is linear-time, so only match bookkeeping needs a
// cap.
const maxMatchesPerRule = 4096

// Redactor masks secrets in text using an ordered rule catalogue.
type Redactor struct {
	rules []Rule
}

// New creates a redactor with a custom catalogue. Rule order defines
// category precedence for same-offset, same-length overlaps.
func New(rules []Rule) *Redactor {
	return &Redactor{rules: rules}
}

// NewDefault creates a redactor with the built-in catalogue.
func NewDefault() *Redactor {
	return New(DefaultRules())
}

// Placeholder returns the masking token for a category. It encodes the
// category only, never any fragment of the matched secret.
func Placeholder(c Category) string {
	return "[REDACTED_" + strings.ToUpper(string(c)) + "]"
}

type span struct {
	category Category
	start    int
	end      int
	rule     int
}

// Redact scans text against the catalogue and masks every detected
// secret. Overlapping matches resolve to the longest match at a given
// start offset, then to catalogue order. Redacting already-redacted
// text is a no-op with count 0.
func (r *Redactor) Redact(text string) Result {
	if text == "" {
		return Result{Redacted: text}
	}

	var spans []span
	for i, rule := range r.rules {
		locs := rule.Pattern.FindAllStringSubmatchIndex(text, maxMatchesPerRule)
		for _, loc := range locs {
			start, end := loc[0], loc[1]
			if rule.Group > 0 && 2*rule.Group+1 < len(loc) && loc[2*rule.Group] >= 0 {
				start, end = loc[2*rule.Group], loc[2*rule.Group+1]
			}
			if start >= end {
				continue
			}
			spans = append(spans, span{category: rule.Category, start: start, end: end, rule: i})
		}
	}
	if len(spans) == 0 {
		return Result{Redacted: text}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		return spans[i].rule < spans[j].rule
	})

	var b strings.Builder
	b.Grow(len(text))

	seen := make(map[Category]bool)
	var categories []Category
	count := 0
	cursor := 0

	for _, s := range spans {
		if s.end <= cursor {
			// Swallowed by an earlier, preferred match.
			continue
		}
		if s.start < cursor {
			// Partially covered by an earlier match; mask the uncovered
			// tail so no fragment of the secret survives.
			s.start = cursor
		}
		b.WriteString(text[cursor:s.start])
		b.WriteString(Placeholder(s.category))
		cursor = s.end
		count++
		if !seen[s.category] {
			seen[s.category] = true
			categories = append(categories, s.category)
		}
	}
	b.WriteString(text[cursor:])

	return Result{
		Redacted:   b.String(),
		Count:      count,
		Categories: categories,
	}
}
