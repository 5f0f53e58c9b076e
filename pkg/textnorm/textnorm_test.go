package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rochas-api/pkg/textnorm"
)

func TestKey(t *testing.T) {
	cases := map[string]string{
		"  Granito Preto ": "granito preto",
		"MARMORE":          "marmore",
		"Mármore Branco":   "mármore branco",
		"\tpolido\n":       "polido",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.Key(in), "entrada %q", in)
	}
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "Foto_Marmore.jpg", textnorm.SafeFileName("Foto Mármore.jpg"))
	assert.Equal(t, "granito_sao_gabriel.png", textnorm.SafeFileName("granito   são gabriel.png"))
	assert.Equal(t, "Acabamento_Levigado.JPEG", textnorm.SafeFileName(" Acabamento Levigado.JPEG "))
}
