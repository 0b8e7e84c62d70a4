// Package events difunde los eventos del ledger una vez confirmada la transacción.
package events

import (
	"time"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// Message forma serializada de un entity.LedgerEvent.
type Message struct {
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

// NewMessage construye el mensaje de un evento.
func NewMessage(ev *entity.LedgerEvent) Message {
	return Message{
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
