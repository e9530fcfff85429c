package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDuration renders hours as "HH:MM:SS". Non-positive input yields "01:00:00".
func FormatDuration(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 1
	}
	total := int(math.Round(hours * 3600))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// DurationMinutes parses "HH:MM:SS" (or "HH:MM") into whole minutes.
func DurationMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		v[i] = n
	}
	return v[0]*60 + v[1] + int(math.Round(float64(v[2])/60)), true
}
