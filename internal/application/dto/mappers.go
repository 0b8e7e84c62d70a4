package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// NewStockPositionResponse convierte una posición de stock.
func NewStockPositionResponse(p *entity.StockPosition) StockPositionResponse {
	return StockPositionResponse{
		HolderID:   p.Holder.ID,
		HolderType: string(p.Holder.Type),
		SKUCodeID:  p.SKUCodeID,
		Good:       p.Good,
		Defective:  p.Defective,
		Faulty:     p.Faulty,
		Scrap:      p.Scrap,
		AvgPrice:   p.AvgPrice,
		UpdatedAt:  p.UpdatedAt,
	}
}

// NewTransferResponse convierte un registro de traslado incluyendo la etiqueta de estado.
func NewTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:           t.ID,
		BatchID:      t.BatchID,
		Kind:         string(t.Kind),
		SKUCodeID:    t.SKUCodeID,
		Quantity:     t.Quantity,
		SenderID:     t.Sender.ID,
		SenderType:   string(t.Sender.Type),
		ReceiverID:   t.Receiver.ID,
		ReceiverType: string(t.Receiver.Type),
		FromBucket:   string(t.FromBucket),
		ToBucket:     string(t.ToBucket),
		Status:       string(t.Status),
		StatusLabel:  t.Status.Label(),
		Note:         t.Note,
		EndReason:    t.EndReason,
		CreatedBy:    t.CreatedBy,
		EndedBy:      t.EndedBy,
		CreatedAt:    t.CreatedAt,
		EndAt:        t.EndAt,
	}
}

// NewTransferResponses convierte una lista de traslados.
func NewTransferResponses(list []*entity.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTransferResponse(t))
	}
	return out
}

// NewJobResponse convierte un trabajo y calcula sus totales.
func NewJobResponse(j *entity.JobEntry) JobResponse {
	items := make([]JobItemResponse, 0, len(j.Items))
	total := decimal.Zero
	for _, it := range j.Items {
		lineTotal := it.Total()
		total = total.Add(lineTotal)
		items = append(items, JobItemResponse{
			Position:  it.Position,
			SKUCodeID: it.SKUCodeID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Total:     lineTotal,
		})
	}
	return JobResponse{
		ID:          j.ID,
		JobNo:       j.JobNo,
		AssetsNo:    j.AssetsNo,
		ServiceType: j.ServiceType,
		SellFrom:    string(j.SellFrom),
		HolderID:    j.Holder.ID,
		HolderType:  string(j.Holder.Type),
		CreatedBy:   j.CreatedBy,
		CreatedAt:   j.CreatedAt,
		Items:       items,
		Total:       total,
	}
}

// NewLedgerEventResponse convierte un evento del ledger.
func NewLedgerEventResponse(ev *entity.LedgerEvent) LedgerEventResponse {
	return LedgerEventResponse{
		ID:         ev.ID,
		HolderID:   ev.Holder.ID,
		HolderType: string(ev.Holder.Type),
		SKUCodeID:  ev.SKUCodeID,
		Bucket:     string(ev.Bucket),
		Delta:      ev.Delta,
		Reason:     string(ev.Reason),
		RefID:      ev.RefID,
		CreatedBy:  ev.CreatedBy,
		CreatedAt:  ev.CreatedAt,
	}
}
