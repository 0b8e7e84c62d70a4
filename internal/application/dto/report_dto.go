package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// ReportRequest parámetros comunes de GET /api/*/report.
type ReportRequest struct {
	FromDate  string `query:"fromDate"` // YYYY-MM-DD; por defecto hace 30 días
	ToDate    string `query:"toDate"`   // YYYY-MM-DD inclusive; por defecto hoy
	HolderID  string `query:"holderId"`
	SKUCodeID string `query:"skuCodeId"`
	Status    string `query:"status"`
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockReportRow posición con valorización del stock bueno.
type StockReportRow struct {
	StockPositionResponse
	GoodValue decimal.Decimal `json:"goodValue"` // Good * AvgPrice
}

// StockReportResponse reporte de posiciones.
type StockReportResponse struct {
	HolderID   string           `json:"holderId,omitempty"`
	Rows       []StockReportRow `json:"rows"`
	TotalGood  int64            `json:"totalGood"`
	TotalValue decimal.Decimal  `json:"totalValue"`
}

// ── Traslados ─────────────────────────────────────────────────────────────────

// TransferReportResponse traslados del período con conteo por etiqueta de estado.
type TransferReportResponse struct {
	From    time.Time          `json:"from"`
	To      time.Time          `json:"to"`
	Rows    []TransferResponse `json:"rows"`
	ByLabel map[string]int     `json:"byLabel"`
}

// ── Trabajos ──────────────────────────────────────────────────────────────────

// JobReportResponse trabajos del período con total general.
type JobReportResponse struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Rows       []JobResponse   `json:"rows"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ── Ledger ────────────────────────────────────────────────────────────────────

// LedgerEventResponse ajuste individual del ledger.
type LedgerEventResponse struct {
	ID         string    `json:"id"`
	HolderID   string    `json:"holderId"`
	HolderType string    `json:"holderType"`
	SKUCodeID  string    `json:"skuCodeId"`
	Bucket     string    `json:"bucket"`
	Delta      int64     `json:"delta"`
	Reason     string    `json:"reason"`
	RefID      string    `json:"refId,omitempty"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LedgerReportResponse eventos del período y delta neto por bucket.
type LedgerReportResponse struct {
	From     time.Time             `json:"from"`
	To       time.Time             `json:"to"`
	Rows     []LedgerEventResponse `json:"rows"`
	NetDelta map[string]int64      `json:"netDelta"`
}
