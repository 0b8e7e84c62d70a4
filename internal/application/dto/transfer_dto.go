package dto

import "time"

// TransferLineRequest línea de un traslado (sin precio: los traslados no cambian el costo promedio).
type TransferLineRequest struct {
	SKUCodeID string `json:"skuCodeId" validate:"required,max=64"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateTransferRequest body para POST /api/stock/{transfer,return,faulty,defective} y /api/engineer-stock/*.
type CreateTransferRequest struct {
	SenderID   string                `json:"senderId" validate:"omitempty,max=64"`
	ReceiverID string                `json:"receiverId" validate:"omitempty,max=64"`
	Note       string                `json:"note" validate:"omitempty,max=500"`
	List       []TransferLineRequest `json:"list" validate:"required,min=1,dive"`
}

// ResolveTransferRequest body para PUT /api/stock/:id.
type ResolveTransferRequest struct {
	Status string `json:"status" validate:"required,oneof=open approved received rejected"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// TransferResponse salida de un registro de traslado.
type TransferResponse struct {
	ID           string     `json:"id"`
	BatchID      string     `json:"batchId"`
	Kind         string     `json:"kind"`
	SKUCodeID    string     `json:"skuCodeId"`
	Quantity     int64      `json:"quantity"`
	SenderID     string     `json:"senderId"`
	SenderType   string     `json:"senderType"`
	ReceiverID   string     `json:"receiverId"`
	ReceiverType string     `json:"receiverType"`
	FromBucket   string     `json:"fromBucket"`
	ToBucket     string     `json:"toBucket"`
	Status       string     `json:"status"`
	StatusLabel  string     `json:"statusLabel"`
	Note         string     `json:"note,omitempty"`
	EndReason    string     `json:"endReason,omitempty"`
	CreatedBy    string     `json:"createdBy"`
	EndedBy      string     `json:"endedBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	EndAt        *time.Time `json:"endAt,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
