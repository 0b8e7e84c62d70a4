package ledger

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stock     repository.StockRepository
	Transfers repository.TransferRepository
	Jobs      repository.JobRepository
	Events    repository.LedgerEventRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: Commit si fn devuelve nil, Rollback en cualquier otro caso.
// Los fallos de serialización o deadlock deben devolverse envueltos en domain.ErrSerializationFailure.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// KeyLocker serializa operaciones sobre las mismas claves (holder, SKU) antes de abrir la transacción.
// Lock adquiere todas las claves o ninguna; unlock libera las adquiridas.
type KeyLocker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// EventPublisher difunde los eventos del ledger después del commit.
type EventPublisher interface {
	Publish(ctx context.Context, events []*entity.LedgerEvent) error
}

// Actor usuario que ejecuta la operación (tomado del JWT).
type Actor struct {
	UserID   string
	HolderID string
	Role     string
}

// IsAdmin indica si el actor es administrador (casa matriz).
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// CanActFor indica si el actor puede operar el stock del holder indicado.
func (a Actor) CanActFor(holderID string) bool {
	return a.IsAdmin() || (a.HolderID != "" && a.HolderID == holderID)
}
