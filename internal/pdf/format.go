package pdf

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatMontant renders an amount in the fr-TN convention: space-grouped
// thousands, comma decimal separator, TND suffix. Non-finite inputs render
// as the zero amount instead of propagating garbage into a document.
func FormatMontant(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	var grouped strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(d)
	}
	out := grouped.String()
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out + " TND"
}

// FormatDate renders a date as jour/mois/année.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
