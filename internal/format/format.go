// Package format holds pure presentation helpers used to reshape backend
// payloads into the reduced structures returned to callers.
package format

import (
	"fmt"
	"time"
)

// byteUnits are binary (1024-based) suffixes, matching what the backends
// themselves display.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// Bytes renders a byte count in binary units. Values below one KiB are
// rendered as whole bytes; everything above rounds to two decimal places.
func Bytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}

// Percent renders part/total as a percentage with one decimal place.
// A zero total renders as 0.0%.
func Percent(part, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// Epoch converts epoch seconds to RFC 3339 UTC, or "-" when absent.
// Tautulli omits dates on some imported rows; the sentinel keeps the
// output column aligned instead of fabricating a timestamp.
func Epoch(sec int64) string {
	if sec <= 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// Truncate limits s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// FirstNonEmpty returns the first non-empty string, or fallback when all
// are empty. Backends are inconsistent about which of several near-
// synonymous fields they populate; the caller documents the order.
func FirstNonEmpty(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fallback
}
