package reduce

import (
	"regexp"
	"strings"
)

var (
	contractRe = regexp.MustCompile(`(?m)^\s*(?:abstract\s+)?(contract|interface|library)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	functionRe = regexp.MustCompile(`(?m)^\s*function\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)([^{;]*)`)
	stateVarRe = regexp.MustCompile(`(?m)^\s*(?:uint\d*|int\d*|address|bool|bytes\d*|string|mapping\s*\([^;{]*\))(?:\s+(?:public|private|internal|constant|immutable|override))*\s+([A-Za-z_][A-Za-z0-9_]*)\s*(?:=[^;\n]*)?;`)
	modifierRe = regexp.MustCompile(`(?m)^\s*modifier\s+([A-Za-z_][A-Za-z0-9_]*)\s*(\([^)]*\))?`)
	eventRe    = regexp.MustCompile(`(?m)^\s*event\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)
	errorRe    = regexp.MustCompile(`(?m)^\s*error\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)
	guardRe    = regexp.MustCompile(`require\s*\(([^;]{1,200}?)\)\s*;|if\s*\(([^)]{1,200})\)\s*revert\b`)
	bytecodeRe = regexp.MustCompile(`\b0x[0-9a-fA-F]{100,}`)
)

// reduceSource digests contract source: declarations, signatures, and
// guard conditions survive; function bodies do not.
func reduceSource(content string) Result {
	var contracts []string
	for _, m := range contractRe.FindAllStringSubmatch(content, -1) {
		contracts = append(contracts, m[1]+" "+m[2])
	}

	var functions []string
	for _, m := range functionRe.FindAllStringSubmatch(content, -1) {
		sig := "function " + m[1] + "(" + strings.TrimSpace(m[2]) + ")"
		if attrs := strings.Join(strings.Fields(m[3]), " "); attrs != "" {
			sig += " " + attrs
		}
		functions = append(functions, sig)
	}

	var stateVars []string
	for _, m := range stateVarRe.FindAllStringSubmatch(content, -1) {
		stateVars = append(stateVars, m[1])
	}

	var modifiers []string
	for _, m := range modifierRe.FindAllStringSubmatch(content, -1) {
		modifiers = append(modifiers, m[1])
	}

	var events []string
	for _, m := range eventRe.FindAllStringSubmatch(content, -1) {
		events = append(events, m[1]+"("+strings.TrimSpace(m[2])+")")
	}

	var customErrors []string
	for _, m := range errorRe.FindAllStringSubmatch(content, -1) {
		customErrors = append(customErrors, m[1]+"("+strings.TrimSpace(m[2])+")")
	}

	var guards []string
	for _, m := range guardRe.FindAllStringSubmatch(content, -1) {
		cond := m[1]
		if cond == "" {
			cond = m[2]
		}
		guards = append(guards, strings.TrimSpace(cond))
	}

	var b strings.Builder
	b.WriteString(section("contracts", contracts))
	b.WriteString(section("functions", functions))
	b.WriteString(section("state variables", stateVars))
	b.WriteString(section("modifiers", modifiers))
	b.WriteString(section("events", events))
	b.WriteString(section("errors", customErrors))
	b.WriteString(section("guards", guards))
	summary := strings.TrimRight(b.String(), "\n")
	if summary == "" {
		// Nothing structural recognized; fall back to blind compaction.
		return reduceGeneric(content)
	}

	// Inline assembly and embedded bytecode are exactly the things a
	// signature digest drops.
	storeRaw := strings.Contains(content, "assembly") || bytecodeRe.MatchString(content)

	return Result{
		Summary:        capSummary(summary),
		ShouldStoreRaw: storeRaw,
		Metadata: map[string]interface{}{
			"contracts":       capList(contracts),
			"functions":       capList(functions),
			"state_variables": capList(stateVars),
			"modifiers":       capList(modifiers),
			"events":          capList(events),
			"errors":          capList(customErrors),
			"guards":          capList(guards),
			"function_count":  len(functions),
		},
	}
}
