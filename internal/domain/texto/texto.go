// Package texto normaliza nombres para comparaciones del padrón: los nombres
// de subrubros y localidades se comparan sin distinguir mayúsculas ni tildes
// ("Consultoría" empata con "consultoria").
package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Clave devuelve la forma canónica de un nombre para comparar:
// minúsculas, sin tildes, espacios colapsados.
func Clave(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if out, _, err := transform.String(quitarDiacriticos, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}

// Igual compara dos nombres por su clave canónica.
func Igual(a, b string) bool {
	return Clave(a) == Clave(b)
}
