// Package migrations expone el esquema SQL embebido en el binario.
package migrations

import "embed"

// FS contiene los scripts NNN_*.sql en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
