package reduce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	passRe   = regexp.MustCompile(`\[PASS\]\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s*\(([^)]*)\))?`)
	failRe   = regexp.MustCompile(`\[FAIL(?:[.:]\s*Reason:\s*([^\]]+))?\]\s+([A-Za-z_][A-Za-z0-9_]*)`)
	revertRe = regexp.MustCompile(`(?i)revert(?:ed)?(?:\s+with(?:\s+reason)?)?\s*[:\s]\s*([^\n]{1,120})`)
	figureRe = regexp.MustCompile(`(?i)\b(profit|loss|gain|drained|balance)\s*[:=]?\s*(-?[\d,]+(?:\.\d+)?)\s*([A-Za-z]{2,6})?`)
)

// reduceForgeLogs extracts per-test verdicts, revert reasons and
// numeric profit/loss figures from forge test output.
func reduceForgeLogs(content string) Result {
	var tests []map[string]interface{}
	var lines []string
	passed, failed := 0, 0

	for _, m := range passRe.FindAllStringSubmatch(content, -1) {
		passed++
		test := map[string]interface{}{"name": m[1], "status": "pass"}
		if m[2] != "" {
			test["detail"] = m[2]
		}
		tests = append(tests, test)
		lines = append(lines, "[PASS] "+m[1])
	}
	for _, m := range failRe.FindAllStringSubmatch(content, -1) {
		failed++
		test := map[string]interface{}{"name": m[2], "status": "fail"}
		if reason := strings.TrimSpace(m[1]); reason != "" {
			test["reason"] = reason
		}
		tests = append(tests, test)
		lines = append(lines, "[FAIL] "+m[2])
	}

	var reverts []string
	for _, m := range revertRe.FindAllStringSubmatch(content, -1) {
		reverts = append(reverts, strings.TrimSpace(m[1]))
	}

	var figures []map[string]interface{}
	for _, m := range figureRe.FindAllStringSubmatch(content, -1) {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			continue
		}
		figure := map[string]interface{}{
			"label":  strings.ToLower(m[1]),
			"amount": amount,
		}
		if m[3] != "" {
			figure["asset"] = strings.ToUpper(m[3])
		}
		figures = append(figures, figure)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "forge: %d passed, %d failed\n", passed, failed)
	b.WriteString(section("tests", lines))
	b.WriteString(section("reverts", reverts))
	for i, f := range figures {
		if i >= topK {
			break
		}
		if asset, ok := f["asset"]; ok {
			fmt.Fprintf(&b, "%s: %v %v\n", f["label"], f["amount"], asset)
		} else {
			fmt.Fprintf(&b, "%s: %v\n", f["label"], f["amount"])
		}
	}

	if len(tests) > topK {
		tests = tests[:topK]
	}
	if len(figures) > topK {
		figures = figures[:topK]
	}

	return Result{
		Summary: capSummary(strings.TrimRight(b.String(), "\n")),
		// Exact gas numbers, traces and amounts in the raw log stay
		// load-bearing for exploit validation.
		ShouldStoreRaw: true,
		Metadata: map[string]interface{}{
			"passed":         passed,
			"failed":         failed,
			"tests":          tests,
			"revert_reasons": capList(reverts),
			"figures":        figures,
		},
	}
}
