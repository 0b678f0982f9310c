package reduce

import "fmt"

// reduceGeneric is the fallback for unrecognized kinds and for
// specialized reducers that could not parse their input: head-and-tail
// truncation with an explicit marker.
func reduceGeneric(content string) Result {
	if len(content) <= maxSummaryBytes {
		return Result{
			Summary: content,
			Metadata: map[string]interface{}{
				"original_bytes": len(content),
				"truncated":      false,
			},
		}
	}

	// Budget head and tail so the marker fits inside the cap. The marker
	// length depends on the dropped count, so reserve generously.
	budget := maxSummaryBytes - 48
	head := budget * 2 / 3
	tail := budget - head
	dropped := len(content) - head - tail
	summary := content[:head] +
		fmt.Sprintf("\n...[%d bytes truncated]...\n", dropped) +
		content[len(content)-tail:]

	return Result{
		Summary:        summary,
		ShouldStoreRaw: true,
		Metadata: map[string]interface{}{
			"original_bytes": len(content),
			"truncated":      true,
		},
	}
}
