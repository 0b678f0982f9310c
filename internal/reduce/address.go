package reduce

import (
	"fmt"
	"regexp"
	"strings"
)

var addressRe = regexp.MustCompile(`\b0x[0-9a-fA-F]{40}\b`)

// maxAddresses bounds how many unique addresses survive reduction.
const maxAddresses = 50

// reduceAddressList extracts and deduplicates EVM addresses.
func reduceAddressList(content string) Result {
	seen := make(map[string]bool)
	var addresses []string
	total := 0
	for _, addr := range addressRe.FindAllString(content, -1) {
		total++
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		if len(addresses) < maxAddresses {
			addresses = append(addresses, addr)
		}
	}

	if total == 0 {
		return reduceGeneric(content)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "addresses: %d unique (%d occurrences)\n", len(seen), total)
	b.WriteString(section("addresses", addresses))

	return Result{
		Summary:        capSummary(strings.TrimRight(b.String(), "\n")),
		ShouldStoreRaw: len(seen) > maxAddresses,
		Metadata: map[string]interface{}{
			"unique_count": len(seen),
			"total_count":  total,
			"addresses":    addresses,
		},
	}
}
