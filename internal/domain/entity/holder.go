package entity

import "time"

// HolderType tipo de custodio de inventario.
type HolderType string

const (
	HolderHeadOffice HolderType = "head_office"
	HolderBranch     HolderType = "branch"
	HolderEngineer   HolderType = "engineer"
)

// Valid indica si el tipo es conocido.
func (t HolderType) Valid() bool {
	switch t {
	case HolderHeadOffice, HolderBranch, HolderEngineer:
		return true
	}
	return false
}

// Holder casa matriz, sucursal o ingeniero de campo que puede custodiar stock.
type Holder struct {
	ID        string
	Type      HolderType
	Name      string
	ParentID  string // sucursal del ingeniero; vacío en otros tipos
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref devuelve la referencia (tipo, id) del holder.
func (h *Holder) Ref() HolderRef {
	return HolderRef{Type: h.Type, ID: h.ID}
}

// HolderRef identifica a un holder dentro de posiciones, traslados, trabajos y eventos.
type HolderRef struct {
	Type HolderType
	ID   string
}

// IsZero indica si la referencia está vacía.
func (r HolderRef) IsZero() bool { return r.ID == "" }
