package entity

import "time"

// LedgerReason motivo de un ajuste del ledger.
type LedgerReason string

const (
	ReasonEntry           LedgerReason = "entry"
	ReasonMove            LedgerReason = "move"
	ReasonDebit           LedgerReason = "debit"
	ReasonTransferReserve LedgerReason = "transfer_reserve"
	ReasonTransferReceive LedgerReason = "transfer_receive"
	ReasonTransferReject  LedgerReason = "transfer_reject"
	ReasonJob             LedgerReason = "job"
)

// LedgerEvent cambio de cantidad en un bucket (delta positivo = crédito, negativo = débito).
type LedgerEvent struct {
	ID        string
	Holder    HolderRef
	SKUCodeID string
	Bucket    Bucket
	Delta     int64
	Reason    LedgerReason
	RefID     string // traslado, trabajo o lote que originó el ajuste
	CreatedBy string
	CreatedAt time.Time
}
