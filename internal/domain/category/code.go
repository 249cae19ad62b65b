package category

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeCode deja el código sin espacios en los extremos y en mayúsculas.
func NormalizeCode(code string) string {
	// Un Caser guarda estado: uno por llamada.
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}
