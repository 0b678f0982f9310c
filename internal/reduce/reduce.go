// Package reduce turns verbose research artifacts into bounded digests
// with extracted structure. Every reducer is a pure function of its
// input: no I/O, no shared state, bounded work on arbitrary content.
package reduce

import (
	"strings"
	"unicode/utf8"
)

var reducers = map[Kind]func(string) Result{
	KindSource:      reduceSource,
	KindABI:         reduceABI,
	KindGraph:       reduceGraph,
	KindInvariant:   reduceInvariants,
	KindPath:        reducePath,
	KindForgeLogs:   reduceForgeLogs,
	KindAddressList: reduceAddressList,
	KindGeneric:     reduceGeneric,
}

// ByKind dispatches content to the reducer for kind. An unrecognized
// kind falls through to the generic reducer: reduction is best-effort
// compaction and must never block the pipeline. Oversized input is
// capped at a rune boundary before scanning; metadata still reports
// the pre-cap size.
func ByKind(kind Kind, content string) Result {
	original := len(content)
	if len(content) > maxInputBytes {
		cut := maxInputBytes
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	fn, ok := reducers[kind]
	if !ok {
		fn = reduceGeneric
	}
	result := fn(content)

	if original > len(content) {
		if result.Metadata == nil {
			result.Metadata = map[string]interface{}{}
		}
		result.Metadata["original_bytes"] = original
		result.ShouldStoreRaw = true
	}
	return result
}

// capSummary enforces the summary size bound.
func capSummary(s string) string {
	if len(s) <= maxSummaryBytes {
		return s
	}
	return s[:maxSummaryBytes-len(summaryMarker)] + summaryMarker
}

const summaryMarker = "\n...[summary truncated]"

// capList returns at most topK items.
func capList(items []string) []string {
	if len(items) > topK {
		return items[:topK]
	}
	return items
}

// section formats one labeled item list for a summary, itself bounded.
func section(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	capped := capList(items)
	s := label + ":\n  " + strings.Join(capped, "\n  ")
	if len(items) > len(capped) {
		s += "\n  ..."
	}
	return s + "\n"
}
