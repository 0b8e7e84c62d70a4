package stock

import (
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// CanTransition valida el paso de t al estado next.
//
//	open     -> approved (solo si requiere aprobación) | received | rejected
//	approved -> received | rejected
//	received, rejected: terminales
func CanTransition(t *entity.Transfer, next entity.TransferStatus) error {
	if t.Status.Terminal() {
		return domain.ErrInvalidStateTransition
	}
	switch next {
	case entity.TransferApproved:
		if t.Status != entity.TransferOpen || !t.RequiresApproval() {
			return domain.ErrInvalidStateTransition
		}
		return nil
	case entity.TransferReceived, entity.TransferRejected:
		if t.Status == entity.TransferOpen || t.Status == entity.TransferApproved {
			return nil
		}
	}
	return domain.ErrInvalidStateTransition
}
