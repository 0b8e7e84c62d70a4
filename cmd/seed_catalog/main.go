// seed_catalog genera un script SQL idempotente con el catálogo (categoría, modelo, ítem, código SKU)
// a partir de un CSV separado por punto y coma exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog -in catalogo.csv [-encoding windows-1252] [-out migrations/002_seed_catalog.sql]
// Columnas: category;model;item;sku_code;is_defective. La primera fila puede ser encabezado.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/service-stock-api/internal/domain/catalog"
)

// catalogNamespace base de los UUID deterministas: el mismo CSV produce siempre los mismos IDs.
var catalogNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("service-stock-api/catalog"))

type node struct {
	id, name, key string
	parents       []string // claves normalizadas de los ancestros, desde la categoría
	defective     bool
}

// tree catálogo deduplicado por ruta de claves normalizadas ("cat/model/item/code").
type tree struct {
	categories map[string]*node
	models     map[string]*node
	items      map[string]*node
	skus       map[string]*node
}

func newTree() *tree {
	return &tree{
		categories: map[string]*node{},
		models:     map[string]*node{},
		items:      map[string]*node{},
		skus:       map[string]*node{},
	}
}

// add registra el nodo si su ruta no existe y devuelve el que quedó.
func add(level map[string]*node, kind string, parents []string, name string) *node {
	name = catalog.CleanName(name)
	key := catalog.NameKey(name)
	path := strings.Join(append(append([]string{}, parents...), key), "/")
	if n, ok := level[path]; ok {
		return n
	}
	n := &node{
		id:      uuid.NewSHA1(catalogNamespace, []byte(kind+":"+path)).String(),
		name:    name,
		key:     key,
		parents: parents,
	}
	level[path] = n
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "si", "sí", "s", "yes", "y", "x":
		return true
	}
	return false
}

func isHeader(rec []string) bool {
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "category" || first == "categoria" || first == "categoría"
}

// load lee el CSV y arma el árbol. Filas incompletas abortan con su número de línea.
func load(r io.Reader) (*tree, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	t := newTree()
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && len(rec) > 0 && isHeader(rec) {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas, hay %d", line, len(rec))
		}
		for i := 0; i < 4; i++ {
			if strings.TrimSpace(rec[i]) == "" {
				return nil, fmt.Errorf("línea %d: columna %d vacía", line, i+1)
			}
		}
		defective := len(rec) > 4 && parseBool(rec[4])

		c := add(t.categories, "category", nil, rec[0])
		m := add(t.models, "model", []string{c.key}, rec[1])
		it := add(t.items, "item", []string{c.key, m.key}, rec[2])
		sku := add(t.skus, "sku", []string{c.key, m.key, it.key}, rec[3])
		// repetido: prevalece la marca de defectuoso si alguna fila la trae
		sku.defective = sku.defective || defective
	}
	return t, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func sortedNodes(level map[string]*node) []*node {
	paths := make([]string, 0, len(level))
	for p := range level {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*node, 0, len(paths))
	for _, p := range paths {
		out = append(out, level[p])
	}
	return out
}

// write emite el SQL. Cada nivel resuelve el padre por name_key, así el script
// convive con filas creadas antes desde la API con otros IDs.
func (t *tree) write(w io.Writer) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial (categorías, modelos, ítems y códigos SKU)\n")
	b.WriteString("-- Generado por cmd/seed_catalog; idempotente.\n\n")

	b.WriteString("-- 1. Categorías\n")
	for _, c := range sortedNodes(t.categories) {
		fmt.Fprintf(&b, "INSERT INTO categories (id, name, name_key) VALUES ('%s', '%s', '%s')\nON CONFLICT DO NOTHING;\n",
			c.id, escapeSQL(c.name), escapeSQL(c.key))
	}

	b.WriteString("\n-- 2. Modelos\n")
	for _, m := range sortedNodes(t.models) {
		fmt.Fprintf(&b, "INSERT INTO models (id, category_id, name, name_key)\n")
		fmt.Fprintf(&b, "SELECT '%s', c.id, '%s', '%s' FROM categories c WHERE c.name_key = '%s'\nON CONFLICT DO NOTHING;\n",
			m.id, escapeSQL(m.name), escapeSQL(m.key), escapeSQL(m.parents[0]))
	}

	b.WriteString("\n-- 3. Ítems\n")
	for _, it := range sortedNodes(t.items) {
		fmt.Fprintf(&b, "INSERT INTO items (id, model_id, name, name_key)\n")
		fmt.Fprintf(&b, "SELECT '%s', m.id, '%s', '%s' FROM models m JOIN categories c ON c.id = m.category_id\n",
			it.id, escapeSQL(it.name), escapeSQL(it.key))
		fmt.Fprintf(&b, "WHERE c.name_key = '%s' AND m.name_key = '%s'\nON CONFLICT DO NOTHING;\n",
			escapeSQL(it.parents[0]), escapeSQL(it.parents[1]))
	}

	b.WriteString("\n-- 4. Códigos SKU\n")
	for _, s := range sortedNodes(t.skus) {
		fmt.Fprintf(&b, "INSERT INTO sku_codes (id, item_id, code, code_key, is_defective)\n")
		fmt.Fprintf(&b, "SELECT '%s', i.id, '%s', '%s', %t FROM items i\n", s.id, escapeSQL(s.name), escapeSQL(s.key), s.defective)
		b.WriteString("JOIN models m ON m.id = i.model_id JOIN categories c ON c.id = m.category_id\n")
		fmt.Fprintf(&b, "WHERE c.name_key = '%s' AND m.name_key = '%s' AND i.name_key = '%s'\nON CONFLICT DO NOTHING;\n",
			escapeSQL(s.parents[0]), escapeSQL(s.parents[1]), escapeSQL(s.parents[2]))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// decoder envuelve r según la codificación del archivo exportado.
func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", encoding)
}

func main() {
	in := flag.String("in", "catalogo.csv", "CSV de entrada (separado por ;)")
	encoding := flag.String("encoding", "windows-1252", "utf-8 | windows-1252 | iso-8859-1")
	out := flag.String("out", "", "archivo SQL de salida (por defecto migrations/002_seed_catalog.sql)")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decoder(f, *encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	t, err := load(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "migrations", "002_seed_catalog.sql")
	}
	dst, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer dst.Close()
	if err := t.write(dst); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d categorías, %d modelos, %d ítems, %d códigos\n",
		outPath, len(t.categories), len(t.models), len(t.items), len(t.skus))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
