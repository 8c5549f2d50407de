package schema

import (
	"fmt"
	"strings"
)

// FormatPrice renders a now_cost value held in tenths of a million as "5.5".
func FormatPrice(nowCost int) string {
	return fmt.Sprintf("%.1f", float64(nowCost)/10)
}

// getInitial extracts the initial from a name part, using the first rune for Unicode safety.
func getInitial(part string) string {
	rr := []rune(part)
	if len(rr) > 0 {
		return string(rr[0])
	}
	return ""
}

// AbbreviateName formats "Mohamed Salah" to "M. Salah".
// Missing first names fall back to the second name alone, and multi-part
// second names keep every part, so "Virgil van Dijk" becomes "V. van Dijk".
func AbbreviateName(first, second string) string {
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	if second == "" {
		return first
	}
	initial := getInitial(first)
	if initial == "" {
		return second
	}
	return initial + ". " + second
}

// DisplayName picks the short name for a player: the FPL web name when
// present, otherwise the abbreviated full name.
func DisplayName(p Player) string {
	if name := strings.TrimSpace(p.WebName); name != "" {
		return name
	}
	return AbbreviateName(p.FirstName, p.SecondName)
}

// TruncateName shortens a display name for narrow table columns.
func TruncateName(name string, maxLen int) string {
	rr := []rune(name)
	if maxLen <= 0 || len(rr) <= maxLen {
		return name
	}
	if maxLen <= 3 {
		return string(rr[:maxLen])
	}
	return string(rr[:maxLen-3]) + "..."
}

// WindowsEqual compares two window size lists, considering them equal if they
// contain the same sizes regardless of order.
func WindowsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, w := range a {
		seen[w]++
	}
	for _, w := range b {
		seen[w]--
		if seen[w] < 0 {
			return false
		}
	}
	return true
}
