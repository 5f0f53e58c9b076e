// Package textnorm normaliza texto de entrada: claves de búsqueda de rocas y nombres de archivo
// de fotos.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Key aplica trim + minúsculas. Es la única normalización de nombre/tipo/acabado:
// no se eliminan acentos ("Mármore" y "marmore" son claves distintas).
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SafeFileName descompone en NFD, elimina las marcas combinantes y reemplaza cada
// secuencia de espacios por "_". "Foto Mármore.jpg" -> "Foto_Marmore.jpg".
func SafeFileName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.TrimSpace(folded)
	return whitespaceRun.ReplaceAllString(folded, "_")
}
