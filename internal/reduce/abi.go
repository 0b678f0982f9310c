package reduce

import (
	"encoding/json"
	"fmt"
	"strings"
)

type abiEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	StateMutability string     `json:"stateMutability"`
	Inputs          []abiParam `json:"inputs"`
}

type abiParam struct {
	Type string `json:"type"`
}

// reduceABI partitions an ABI into state-mutating vs read-only
// functions plus events and errors. Malformed JSON degrades to the
// generic reducer.
func reduceABI(content string) Result {
	var entries []abiEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &entries); err != nil {
		return reduceGeneric(content)
	}

	var mutating, readOnly, events, errs []string
	for _, e := range entries {
		sig := e.Name + "(" + paramTypes(e.Inputs) + ")"
		switch e.Type {
		case "function":
			if e.StateMutability == "view" || e.StateMutability == "pure" {
				readOnly = append(readOnly, sig)
			} else {
				mutating = append(mutating, sig)
			}
		case "event":
			events = append(events, sig)
		case "error":
			errs = append(errs, sig)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ABI: %d mutating, %d read-only, %d events, %d errors\n",
		len(mutating), len(readOnly), len(events), len(errs))
	b.WriteString(section("state-mutating", mutating))
	b.WriteString(section("read-only", readOnly))
	b.WriteString(section("events", events))
	b.WriteString(section("errors", errs))

	// The digest keeps selectors but drops parameter names, outputs and
	// anything past top-K per section.
	storeRaw := len(mutating) > topK || len(readOnly) > topK || len(events) > topK || len(errs) > topK

	return Result{
		Summary:        capSummary(strings.TrimRight(b.String(), "\n")),
		ShouldStoreRaw: storeRaw,
		Metadata: map[string]interface{}{
			"mutating_functions":  capList(mutating),
			"read_only_functions": capList(readOnly),
			"events":              capList(events),
			"errors":              capList(errs),
			"mutating_count":      len(mutating),
			"read_only_count":     len(readOnly),
		},
	}
}

func paramTypes(params []abiParam) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return strings.Join(types, ",")
}
