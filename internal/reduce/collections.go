package reduce

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// severityRank orders the usual finding severities for salience.
var severityRank = map[string]float64{
	"critical": 1.0,
	"high":     0.8,
	"medium":   0.6,
	"low":      0.4,
	"info":     0.2,
}

// salience scores an item independently of the caller: severity when
// present, confidence otherwise.
func salience(item map[string]interface{}) float64 {
	if sev, ok := item["severity"].(string); ok {
		if rank, ok := severityRank[strings.ToLower(sev)]; ok {
			return rank
		}
	}
	if conf, ok := item["confidence"].(float64); ok {
		return conf
	}
	return 0
}

// itemLabel picks a short human-readable handle for an item.
func itemLabel(item map[string]interface{}) string {
	for _, key := range []string{"description", "name", "expression", "label", "action", "id"} {
		if v, ok := item[key].(string); ok && v != "" {
			if len(v) > 160 {
				v = v[:160]
			}
			return v
		}
	}
	return "(unnamed)"
}

// topSalient returns up to k item labels ordered by descending
// salience, original order preserved among equals.
func topSalient(items []map[string]interface{}, k int) []string {
	sorted := make([]map[string]interface{}, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return salience(sorted[i]) > salience(sorted[j])
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	labels := make([]string, len(sorted))
	for i, item := range sorted {
		labels[i] = itemLabel(item)
	}
	return labels
}

func decodeItems(raw json.RawMessage) []map[string]interface{} {
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// reduceGraph digests a dependency graph to node/edge counts plus the
// most salient nodes.
func reduceGraph(content string) Result {
	var graph struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &graph); err != nil {
		return reduceGeneric(content)
	}
	nodes := decodeItems(graph.Nodes)
	edges := decodeItems(graph.Edges)
	if nodes == nil && edges == nil {
		return reduceGeneric(content)
	}

	top := topSalient(nodes, topK)
	var b strings.Builder
	fmt.Fprintf(&b, "graph: %d nodes, %d edges\n", len(nodes), len(edges))
	b.WriteString(section("salient nodes", top))

	return Result{
		Summary:        capSummary(strings.TrimRight(b.String(), "\n")),
		ShouldStoreRaw: len(nodes) > topK,
		Metadata: map[string]interface{}{
			"node_count":    len(nodes),
			"edge_count":    len(edges),
			"salient_nodes": top,
		},
	}
}

// reduceInvariants digests an invariant set to a count plus the top-K
// invariants by severity/confidence. Non-JSON input is treated as one
// invariant per line.
func reduceInvariants(content string) Result {
	items := decodeItems(json.RawMessage(strings.TrimSpace(content)))
	if items == nil {
		lines := nonEmptyLines(content)
		if len(lines) == 0 {
			return reduceGeneric(content)
		}
		items = make([]map[string]interface{}, len(lines))
		for i, line := range lines {
			items[i] = map[string]interface{}{"description": line}
		}
	}

	top := topSalient(items, topK)
	var b strings.Builder
	fmt.Fprintf(&b, "invariants: %d total\n", len(items))
	b.WriteString(section("top invariants", top))

	return Result{
		Summary:        capSummary(strings.TrimRight(b.String(), "\n")),
		ShouldStoreRaw: len(items) > topK,
		Metadata: map[string]interface{}{
			"invariant_count": len(items),
			"top_invariants":  top,
		},
	}
}

// reducePath digests an attack path. Step order is the content, so the
// head of the path survives verbatim up to the cap.
func reducePath(content string) Result {
	trimmed := strings.TrimSpace(content)
	var steps []map[string]interface{}

	var wrapper struct {
		Steps json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && wrapper.Steps != nil {
		steps = decodeItems(wrapper.Steps)
	}
	if steps == nil {
		steps = decodeItems(json.RawMessage(trimmed))
	}
	if steps == nil {
		return reduceGeneric(content)
	}

	labels := make([]string, 0, len(steps))
	for i, step := range steps {
		if i >= topK {
			break
		}
		labels = append(labels, fmt.Sprintf("%d. %s", i+1, itemLabel(step)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "attack path: %d steps\n", len(steps))
	b.WriteString(section("steps", labels))

	return Result{
		Summary:        capSummary(strings.TrimRight(b.String(), "\n")),
		ShouldStoreRaw: len(steps) > topK,
		Metadata: map[string]interface{}{
			"step_count": len(steps),
			"steps":      labels,
		},
	}
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
