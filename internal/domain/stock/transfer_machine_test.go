package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/stock"
)

func transferOf(kind entity.TransferKind, from, to entity.HolderType, status entity.TransferStatus) *entity.Transfer {
	return &entity.Transfer{
		Kind:     kind,
		Sender:   entity.HolderRef{Type: from, ID: "s"},
		Receiver: entity.HolderRef{Type: to, ID: "r"},
		Status:   status,
	}
}

func TestCanTransition_AbiertoARecibidoORechazado(t *testing.T) {
	tr := transferOf(entity.KindEngineerIssue, entity.HolderBranch, entity.HolderEngineer, entity.TransferOpen)
	assert.NoError(t, stock.CanTransition(tr, entity.TransferReceived))
	assert.NoError(t, stock.CanTransition(tr, entity.TransferRejected))
}

func TestCanTransition_AprobarSoloSiRequiereAprobacion(t *testing.T) {
	direct := transferOf(entity.KindEngineerIssue, entity.HolderBranch, entity.HolderEngineer, entity.TransferOpen)
	assert.ErrorIs(t, stock.CanTransition(direct, entity.TransferApproved), domain.ErrInvalidStateTransition,
		"traslado sucursal->ingeniero no pasa por aprobación")

	ret := transferOf(entity.KindReturn, entity.HolderBranch, entity.HolderHeadOffice, entity.TransferOpen)
	assert.NoError(t, stock.CanTransition(ret, entity.TransferApproved))

	b2b := transferOf(entity.KindTransfer, entity.HolderBranch, entity.HolderBranch, entity.TransferOpen)
	assert.NoError(t, stock.CanTransition(b2b, entity.TransferApproved))
}

func TestCanTransition_AprobadoNoSeReaprueba(t *testing.T) {
	tr := transferOf(entity.KindReturn, entity.HolderBranch, entity.HolderHeadOffice, entity.TransferApproved)
	assert.ErrorIs(t, stock.CanTransition(tr, entity.TransferApproved), domain.ErrInvalidStateTransition)
	assert.NoError(t, stock.CanTransition(tr, entity.TransferReceived))
	assert.NoError(t, stock.CanTransition(tr, entity.TransferRejected))
}

func TestCanTransition_TerminalesCerrados(t *testing.T) {
	for _, status := range []entity.TransferStatus{entity.TransferReceived, entity.TransferRejected} {
		tr := transferOf(entity.KindReturn, entity.HolderBranch, entity.HolderHeadOffice, status)
		for _, next := range []entity.TransferStatus{entity.TransferOpen, entity.TransferApproved, entity.TransferReceived, entity.TransferRejected} {
			assert.ErrorIs(t, stock.CanTransition(tr, next), domain.ErrInvalidStateTransition,
				"%s -> %s debe fallar", status, next)
		}
	}
}

func TestCanTransition_VolverAOpenNoPermitido(t *testing.T) {
	tr := transferOf(entity.KindTransfer, entity.HolderBranch, entity.HolderBranch, entity.TransferOpen)
	assert.ErrorIs(t, stock.CanTransition(tr, entity.TransferOpen), domain.ErrInvalidStateTransition)
}

func TestTransferStatus_Label(t *testing.T) {
	assert.Equal(t, "Part in Transit", entity.TransferOpen.Label())
	assert.Equal(t, "Part in Transit", entity.TransferApproved.Label())
	assert.Equal(t, "Received", entity.TransferReceived.Label())
	assert.Equal(t, "Rejected", entity.TransferRejected.Label())
}
