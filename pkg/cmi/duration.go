package cmi

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timespanRe = regexp.MustCompile(`^([0-9]{2,}):([0-9]{2}):([0-9]{2})(\.[0-9]{1,2})?$`)
	isoRe      = regexp.MustCompile(`^P(?:([.,\d]+)Y)?(?:([.,\d]+)M)?(?:([.,\d]+)W)?(?:([.,\d]+)D)?(?:T?(?:([.,\d]+)H)?(?:([.,\d]+)M)?(?:([.,\d]+)S)?)?$`)
)

// Seconds per ISO 8601 designator, in regexp group order.
var isoUnits = []float64{365 * 86400, 30 * 86400, 7 * 86400, 86400, 3600, 60, 1}

// ParseTimespan reads a SCORM 1.2 CMITimespan ("HHHH:MM:SS.SS").
func ParseTimespan(s string) (time.Duration, error) {
	m := timespanRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid timespan %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	total := float64(h*3600 + min*60 + sec)
	if m[4] != "" {
		frac, _ := strconv.ParseFloat("0"+m[4], 64)
		total += frac
	}
	return secondsToDuration(total), nil
}

// FormatTimespan writes d as "HH:MM:SS" with hundredths when present.
func FormatTimespan(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	cs := int64(math.Round(d.Seconds() * 100))
	h := cs / 360000
	m := (cs / 6000) % 60
	s := (cs / 100) % 60
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if frac := cs % 100; frac > 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%02d", frac), "0")
	}
	return out
}

// ParseISODuration reads a SCORM 2004 timeinterval (ISO 8601 duration).
// Years count 365 days and months 30 days.
func ParseISODuration(s string) (time.Duration, error) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total float64
	for i, unit := range isoUnits {
		g := m[i+1]
		if g == "" {
			continue
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(g, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration component %q: %w", g, err)
		}
		total += n * unit
	}
	return secondsToDuration(total), nil
}

// FormatISODuration writes d as "P[nD][T[nH][nM][nS]]", "PT0S" for zero.
func FormatISODuration(d time.Duration) string {
	cs := int64(math.Round(d.Seconds() * 100))
	if cs <= 0 {
		return "PT0S"
	}
	days := cs / 8640000
	hours := (cs / 360000) % 24
	mins := (cs / 6000) % 60
	secs := cs % 6000

	var b strings.Builder
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours == 0 && mins == 0 && secs == 0 {
		return b.String()
	}
	b.WriteString("T")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if mins > 0 {
		fmt.Fprintf(&b, "%dM", mins)
	}
	if secs > 0 {
		if secs%100 == 0 {
			fmt.Fprintf(&b, "%dS", secs/100)
		} else {
			frac := strings.TrimRight(fmt.Sprintf("%02d", secs%100), "0")
			fmt.Fprintf(&b, "%d.%sS", secs/100, frac)
		}
	}
	return b.String()
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
