package pdf

import (
	"fmt"
	"math"
	"strings"
)

var unites = []string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
	"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
	"dix-sept", "dix-huit", "dix-neuf",
}

var dizaines = []string{
	"", "dix", "vingt", "trente", "quarante", "cinquante", "soixante",
}

// moinsDeCent spells 0-99 with the French irregular forms: "et un" at
// 21/31/41/51/61, "soixante et onze" at 71, the 70-79 and 90-99 teen
// composition, and the 80 plural.
func moinsDeCent(n int) string {
	switch {
	case n < 20:
		return unites[n]
	case n < 70:
		d, u := n/10, n%10
		if u == 0 {
			return dizaines[d]
		}
		if u == 1 {
			return dizaines[d] + " et un"
		}
		return dizaines[d] + "-" + unites[u]
	case n < 80:
		if n == 71 {
			return "soixante et onze"
		}
		return "soixante-" + unites[n-60]
	case n == 80:
		return "quatre-vingts"
	default:
		return "quatre-vingt-" + unites[n-80]
	}
}

// moinsDeMille spells 0-999.
func moinsDeMille(n int) string {
	if n < 100 {
		return moinsDeCent(n)
	}
	c, reste := n/100, n%100
	var prefix string
	switch {
	case c == 1:
		prefix = "cent"
	case reste == 0:
		prefix = unites[c] + " cents"
	default:
		prefix = unites[c] + " cent"
	}
	if reste == 0 {
		return prefix
	}
	return prefix + " " + moinsDeCent(reste)
}

// nombreEnLettres spells a non-negative integer in French.
func nombreEnLettres(n int) string {
	if n == 0 {
		return unites[0]
	}
	var parts []string
	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			parts = append(parts, "un million")
		} else {
			parts = append(parts, nombreEnLettres(millions)+" millions")
		}
		n %= 1_000_000
	}
	if milliers := n / 1000; milliers > 0 {
		if milliers == 1 {
			parts = append(parts, "mille") // mille is invariant
		} else {
			parts = append(parts, moinsDeMille(milliers)+" mille")
		}
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, moinsDeMille(n))
	}
	return strings.Join(parts, " ")
}

// MontantEnLettres converts a dinar amount into its uppercase words form,
// the fractional part rendered as a 3-digit millime count:
// 169.220 -> "CENT SOIXANTE-NEUF DINARS ET 220 MILLIMES".
func MontantEnLettres(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	dinars := int(v)
	millimes := int(math.Round((v - float64(dinars)) * 1000))
	if millimes >= 1000 {
		dinars++
		millimes -= 1000
	}
	unite := "DINARS"
	if dinars == 1 {
		unite = "DINAR"
	}
	out := strings.ToUpper(nombreEnLettres(dinars)) + " " + unite
	if millimes > 0 {
		out += fmt.Sprintf(" ET %03d MILLIMES", millimes)
	}
	return out
}
