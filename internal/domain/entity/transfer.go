package entity

import "time"

// TransferStatus estado del ciclo de aprobación de un traslado.
type TransferStatus string

const (
	TransferOpen     TransferStatus = "open"
	TransferApproved TransferStatus = "approved"
	TransferReceived TransferStatus = "received"
	TransferRejected TransferStatus = "rejected"
)

// Valid indica si el estado es conocido.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferOpen, TransferApproved, TransferReceived, TransferRejected:
		return true
	}
	return false
}

// Terminal indica si el estado ya no admite transiciones.
func (s TransferStatus) Terminal() bool {
	return s == TransferReceived || s == TransferRejected
}

// Label etiqueta de presentación usada por los reportes.
func (s TransferStatus) Label() string {
	switch s {
	case TransferOpen, TransferApproved:
		return "Part in Transit"
	case TransferReceived:
		return "Received"
	case TransferRejected:
		return "Rejected"
	}
	return string(s)
}

// TransferKind origen funcional del traslado; define buckets y receptor por defecto.
type TransferKind string

const (
	KindTransfer       TransferKind = "transfer"
	KindReturn         TransferKind = "return"
	KindFaulty         TransferKind = "faulty"
	KindDefective      TransferKind = "defective"
	KindEngineerIssue  TransferKind = "engineer_issue"
	KindEngineerReturn TransferKind = "engineer_return"
	KindEngineerFaulty TransferKind = "engineer_faulty"
)

// Transfer registro auditable de movimiento entre dos holders o dos buckets.
// La cantidad se descuenta del emisor al crear (reserva) y se acredita al receptor al recibir.
type Transfer struct {
	ID         string
	BatchID    string
	Kind       TransferKind
	SKUCodeID  string
	Quantity   int64
	Sender     HolderRef
	Receiver   HolderRef
	FromBucket Bucket
	ToBucket   Bucket
	Status     TransferStatus
	Note       string
	EndReason  string
	CreatedBy  string
	EndedBy    string
	CreatedAt  time.Time
	EndAt      *time.Time
}

// RequiresApproval devoluciones de compra y traslados entre sucursales pasan por casa matriz.
func (t *Transfer) RequiresApproval() bool {
	if t.Kind == KindReturn {
		return true
	}
	return t.Sender.Type == HolderBranch && t.Receiver.Type == HolderBranch
}
