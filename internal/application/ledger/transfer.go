package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
	"github.com/jhoicas/service-stock-api/internal/domain/stock"
)

// TransferUseCase motor de traslados con reserva al crear y ciclo open -> {approved} -> received | rejected.
type TransferUseCase struct {
	*engine
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(deps Deps) *TransferUseCase {
	return &TransferUseCase{engine: newEngine(deps)}
}

// CreateTransferInput entrada para crear traslados; un registro por línea del lote.
// SenderID vacío = holder del actor. ReceiverID vacío usa el receptor por defecto del tipo.
type CreateTransferInput struct {
	Kind       entity.TransferKind
	SenderID   string
	ReceiverID string
	Note       string
	Batch      PendingBatch
}

type kindRule struct {
	from, to  entity.Bucket
	senders   []entity.HolderType
	receivers []entity.HolderType
	// receptor por defecto: casa matriz o sucursal del ingeniero
	toHeadOffice bool
	toParent     bool
	// el receptor debe ser ingeniero de la sucursal emisora
	childOnly bool
}

var kindRules = map[entity.TransferKind]kindRule{
	entity.KindTransfer: {
		from: entity.BucketGood, to: entity.BucketGood,
		senders:   []entity.HolderType{entity.HolderHeadOffice, entity.HolderBranch, entity.HolderEngineer},
		receivers: []entity.HolderType{entity.HolderHeadOffice, entity.HolderBranch, entity.HolderEngineer},
	},
	entity.KindReturn: {
		from: entity.BucketGood, to: entity.BucketGood,
		senders:      []entity.HolderType{entity.HolderBranch},
		receivers:    []entity.HolderType{entity.HolderHeadOffice},
		toHeadOffice: true,
	},
	entity.KindFaulty: {
		from: entity.BucketFaulty, to: entity.BucketFaulty,
		senders:      []entity.HolderType{entity.HolderBranch},
		receivers:    []entity.HolderType{entity.HolderHeadOffice, entity.HolderBranch},
		toHeadOffice: true,
	},
	entity.KindDefective: {
		from: entity.BucketDefective, to: entity.BucketDefective,
		senders:      []entity.HolderType{entity.HolderBranch},
		receivers:    []entity.HolderType{entity.HolderHeadOffice},
		toHeadOffice: true,
	},
	entity.KindEngineerIssue: {
		from: entity.BucketGood, to: entity.BucketGood,
		senders:   []entity.HolderType{entity.HolderBranch},
		receivers: []entity.HolderType{entity.HolderEngineer},
		childOnly: true,
	},
	entity.KindEngineerReturn: {
		from: entity.BucketGood, to: entity.BucketGood,
		senders:   []entity.HolderType{entity.HolderEngineer},
		receivers: []entity.HolderType{entity.HolderBranch},
		toParent:  true,
	},
	entity.KindEngineerFaulty: {
		from: entity.BucketFaulty, to: entity.BucketFaulty,
		senders:   []entity.HolderType{entity.HolderEngineer},
		receivers: []entity.HolderType{entity.HolderBranch},
		toParent:  true,
	},
}

func hasType(types []entity.HolderType, t entity.HolderType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// Create reserva (debita) el stock del emisor y crea un traslado open por línea.
// El lote completo es una transacción: si una línea no alcanza, no se crea ninguno.
func (uc *TransferUseCase) Create(ctx context.Context, actor Actor, in CreateTransferInput) ([]*entity.Transfer, error) {
	rule, ok := kindRules[in.Kind]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if in.Batch.Len() == 0 {
		return nil, domain.ErrInvalidInput
	}
	senderID := in.SenderID
	if senderID == "" {
		senderID = actor.HolderID
	}
	sender, err := uc.holder(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, sender); err != nil {
		return nil, err
	}
	if !hasType(rule.senders, sender.Type) {
		return nil, domain.ErrInvalidInput
	}
	receiver, err := uc.receiver(ctx, rule, sender, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID || !hasType(rule.receivers, receiver.Type) {
		return nil, domain.ErrInvalidInput
	}
	if rule.childOnly && receiver.ParentID != sender.ID {
		return nil, domain.ErrInvalidInput
	}

	lines := in.Batch.Lines()
	keys := make([]string, 0, len(lines))
	skuIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		sku, err := uc.sku(ctx, l.SKUCodeID)
		if err != nil {
			return nil, err
		}
		if err := checkBucket(sku, rule.from, rule.to); err != nil {
			return nil, err
		}
		keys = append(keys, StockKey(sender.ID, sku.ID))
		skuIDs = append(skuIDs, sku.ID)
	}
	batchID := uuid.New().String()
	note := strings.TrimSpace(in.Note)

	var created []*entity.Transfer
	err = uc.execute(ctx, "transfer.create", actor, keys, func(r TxRepos, j *journal) error {
		for _, id := range skuIDs {
			if err := uc.recheckBuckets(ctx, id, rule.from, rule.to); err != nil {
				return err
			}
		}
		positions, err := lockPositions(ctx, r, sender.Ref(), skuIDs)
		if err != nil {
			return err
		}
		// reserva: el débito y su verificación ocurren con la fila bloqueada
		for _, l := range lines {
			if err := stock.Debit(positions[l.SKUCodeID], rule.from, l.Quantity); err != nil {
				return err
			}
		}
		created = make([]*entity.Transfer, 0, len(lines))
		for _, l := range lines {
			pos := positions[l.SKUCodeID]
			pos.UpdatedAt = j.at
			if err := r.Stock.Upsert(ctx, pos); err != nil {
				return err
			}
			t := &entity.Transfer{
				ID:         uuid.New().String(),
				BatchID:    batchID,
				Kind:       in.Kind,
				SKUCodeID:  l.SKUCodeID,
				Quantity:   l.Quantity,
				Sender:     sender.Ref(),
				Receiver:   receiver.Ref(),
				FromBucket: rule.from,
				ToBucket:   rule.to,
				Status:     entity.TransferOpen,
				Note:       note,
				CreatedBy:  actor.UserID,
				CreatedAt:  j.at,
			}
			if err := r.Transfers.Create(ctx, t); err != nil {
				return err
			}
			j.record(sender.Ref(), l.SKUCodeID, rule.from, -l.Quantity, entity.ReasonTransferReserve, t.ID)
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *TransferUseCase) receiver(ctx context.Context, rule kindRule, sender *entity.Holder, receiverID string) (*entity.Holder, error) {
	if receiverID != "" {
		return uc.holder(ctx, receiverID)
	}
	switch {
	case rule.toHeadOffice:
		h, err := uc.deps.Holders.GetHeadOffice(ctx)
		if err != nil {
			return nil, err
		}
		if h == nil {
			return nil, domain.ErrNotFound
		}
		return h, nil
	case rule.toParent:
		return uc.holder(ctx, sender.ParentID)
	}
	return nil, domain.ErrInvalidInput
}

// Approve open -> approved; sin efecto en el ledger. Solo casa matriz (admin).
func (uc *TransferUseCase) Approve(ctx context.Context, actor Actor, id string) (*entity.Transfer, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *entity.Transfer
	err = uc.execute(ctx, "transfer.approve", actor, []string{transferKey(t.ID)}, func(r TxRepos, j *journal) error {
		cur, err := lockTransfer(ctx, r, t.ID)
		if err != nil {
			return err
		}
		if err := stock.CanTransition(cur, entity.TransferApproved); err != nil {
			return err
		}
		cur.Status = entity.TransferApproved
		out = cur
		return r.Transfers.UpdateStatus(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveReceived acredita al receptor el bucket destino y cierra el traslado.
func (uc *TransferUseCase) ResolveReceived(ctx context.Context, actor Actor, id string) (*entity.Transfer, error) {
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(t.Receiver.ID) {
		return nil, domain.ErrForbidden
	}
	keys := []string{transferKey(t.ID), StockKey(t.Receiver.ID, t.SKUCodeID)}
	var out *entity.Transfer
	err = uc.execute(ctx, "transfer.receive", actor, keys, func(r TxRepos, j *journal) error {
		cur, err := lockTransfer(ctx, r, t.ID)
		if err != nil {
			return err
		}
		if err := stock.CanTransition(cur, entity.TransferReceived); err != nil {
			return err
		}
		if _, err := credit(ctx, r, j, cur.Receiver, cur.SKUCodeID, cur.ToBucket, cur.Quantity, nil, entity.ReasonTransferReceive, cur.ID); err != nil {
			return err
		}
		end := j.at
		cur.Status = entity.TransferReceived
		cur.EndAt = &end
		cur.EndedBy = actor.UserID
		out = cur
		return r.Transfers.UpdateStatus(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveRejected devuelve la reserva al bucket original del emisor. Requiere nota.
func (uc *TransferUseCase) ResolveRejected(ctx context.Context, actor Actor, id, note string) (*entity.Transfer, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(t.Receiver.ID) {
		return nil, domain.ErrForbidden
	}
	keys := []string{transferKey(t.ID), StockKey(t.Sender.ID, t.SKUCodeID)}
	var out *entity.Transfer
	err = uc.execute(ctx, "transfer.reject", actor, keys, func(r TxRepos, j *journal) error {
		cur, err := lockTransfer(ctx, r, t.ID)
		if err != nil {
			return err
		}
		if err := stock.CanTransition(cur, entity.TransferRejected); err != nil {
			return err
		}
		if _, err := credit(ctx, r, j, cur.Sender, cur.SKUCodeID, cur.FromBucket, cur.Quantity, nil, entity.ReasonTransferReject, cur.ID); err != nil {
			return err
		}
		end := j.at
		cur.Status = entity.TransferRejected
		cur.EndReason = note
		cur.EndAt = &end
		cur.EndedBy = actor.UserID
		out = cur
		return r.Transfers.UpdateStatus(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve despacha según el estado pedido (PUT /stock/:id).
func (uc *TransferUseCase) Resolve(ctx context.Context, actor Actor, id string, status entity.TransferStatus, note string) (*entity.Transfer, error) {
	switch status {
	case entity.TransferApproved:
		return uc.Approve(ctx, actor, id)
	case entity.TransferReceived:
		return uc.ResolveReceived(ctx, actor, id)
	case entity.TransferRejected:
		return uc.ResolveRejected(ctx, actor, id, note)
	case entity.TransferOpen:
		return nil, domain.ErrInvalidStateTransition
	}
	return nil, domain.ErrInvalidInput
}

// GetByID devuelve un traslado visible para el actor (emisor, receptor o admin).
func (uc *TransferUseCase) GetByID(ctx context.Context, actor Actor, id string) (*entity.Transfer, error) {
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(t.Sender.ID) && !actor.CanActFor(t.Receiver.ID) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// List lista traslados; fuera de admin se limita al holder del actor.
func (uc *TransferUseCase) List(ctx context.Context, actor Actor, f repository.TransferFilter) ([]*entity.Transfer, error) {
	if !actor.IsAdmin() {
		f.HolderID = actor.HolderID
	}
	return uc.deps.Transfers.List(ctx, f)
}

func (uc *TransferUseCase) find(ctx context.Context, id string) (*entity.Transfer, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.deps.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func lockTransfer(ctx context.Context, r TxRepos, id string) (*entity.Transfer, error) {
	t, err := r.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}
