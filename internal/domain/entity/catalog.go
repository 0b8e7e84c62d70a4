package entity

import "time"

// Category raíz del catálogo (ej. "Smartphones").
type Category struct {
	ID        string
	Name      string
	NameKey   string // nombre normalizado para unicidad
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Model modelo de equipo dentro de una categoría.
type Model struct {
	ID         string
	CategoryID string
	Name       string
	NameKey    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Item repuesto o componente de un modelo (ej. "Pantalla").
type Item struct {
	ID        string
	ModelID   string
	Name      string
	NameKey   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SKUCode hoja del catálogo; toda operación de stock referencia un SKUCode.
// IsDefective indica si sus unidades pueden marcarse como defectuosas (si no, solo faulty/scrap).
type SKUCode struct {
	ID          string
	ItemID      string
	Code        string
	CodeKey     string
	IsDefective bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
