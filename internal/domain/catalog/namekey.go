// Package catalog reglas puras del catálogo (normalización de nombres).
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NameKey normaliza un nombre para comparar unicidad dentro del padre:
// NFKC, sin espacios extremos, espacios internos colapsados y case folding.
// "  Pantalla  OLED" y "pantalla oled" producen la misma clave.
func NameKey(name string) string {
	n := norm.NFKC.String(name)
	n = strings.Join(strings.Fields(n), " ")
	// un Caser guarda estado: uno por llamada
	return cases.Fold().String(n)
}

// CleanName recorta y colapsa espacios sin alterar mayúsculas.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
