package pdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMontantEnLettres(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{169.220, "CENT SOIXANTE-NEUF DINARS ET 220 MILLIMES"},
		{0, "ZÉRO DINARS"},
		{1, "UN DINAR"},
		{21, "VINGT ET UN DINARS"},
		{71, "SOIXANTE ET ONZE DINARS"},
		{75, "SOIXANTE-QUINZE DINARS"},
		{80, "QUATRE-VINGTS DINARS"},
		{81, "QUATRE-VINGT-UN DINARS"},
		{91, "QUATRE-VINGT-ONZE DINARS"},
		{100, "CENT DINARS"},
		{200, "DEUX CENTS DINARS"},
		{201, "DEUX CENT UN DINARS"},
		{1000, "MILLE DINARS"},
		{2500, "DEUX MILLE CINQ CENTS DINARS"},
		{1_000_000, "UN MILLION DINARS"},
		{12.5, "DOUZE DINARS ET 500 MILLIMES"},
		{3.007, "TROIS DINARS ET 007 MILLIMES"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MontantEnLettres(tt.in), "input %v", tt.in)
	}
}

func TestMontantEnLettresCarry(t *testing.T) {
	// 1.9996 rounds to 2.000; the carry must land in the dinar part.
	assert.Equal(t, "DEUX DINARS", MontantEnLettres(1.9996))
}

func TestMontantEnLettresNonFinite(t *testing.T) {
	assert.Equal(t, "ZÉRO DINARS", MontantEnLettres(math.NaN()))
	assert.Equal(t, "ZÉRO DINARS", MontantEnLettres(math.Inf(1)))
	assert.Equal(t, "ZÉRO DINARS", MontantEnLettres(-5))
}
