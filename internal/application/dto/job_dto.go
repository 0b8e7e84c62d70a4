package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitJobRequest body para POST /api/job.
type SubmitJobRequest struct {
	JobNo       string             `json:"jobNo" validate:"required,max=100"`
	AssetsNo    string             `json:"assetsNo" validate:"omitempty,max=100"`
	ServiceType string             `json:"serviceType" validate:"omitempty,max=100"`
	SellFrom    string             `json:"sellFrom" validate:"required,oneof=branch engineer"`
	BranchID    string             `json:"branchId" validate:"omitempty,max=64"`
	EngineerID  string             `json:"engineerId" validate:"required_if=SellFrom engineer,max=64"`
	Items       []StockLineRequest `json:"items" validate:"required,min=1,dive"`
}

// JobItemResponse línea consumida de un trabajo.
type JobItemResponse struct {
	Position  int             `json:"position"`
	SKUCodeID string          `json:"skuCodeId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// JobResponse salida de un trabajo.
type JobResponse struct {
	ID          string            `json:"id"`
	JobNo       string            `json:"jobNo"`
	AssetsNo    string            `json:"assetsNo,omitempty"`
	ServiceType string            `json:"serviceType,omitempty"`
	SellFrom    string            `json:"sellFrom"`
	HolderID    string            `json:"holderId"`
	HolderType  string            `json:"holderType"`
	CreatedBy   string            `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	Items       []JobItemResponse `json:"items"`
	Total       decimal.Decimal   `json:"total"`
}

// JobListResponse lista paginada de trabajos.
type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
