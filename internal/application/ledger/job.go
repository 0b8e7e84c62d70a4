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

// JobUseCase registra órdenes de servicio descontando el stock bueno del holder elegido.
type JobUseCase struct {
	*engine
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(deps Deps) *JobUseCase {
	return &JobUseCase{engine: newEngine(deps)}
}

// SubmitJobInput entrada de una orden de servicio.
// SellFrom=branch usa BranchID (vacío = holder del actor); SellFrom=engineer exige EngineerID.
type SubmitJobInput struct {
	JobNo       string
	AssetsNo    string
	ServiceType string
	SellFrom    entity.SellFrom
	BranchID    string
	EngineerID  string
	Batch       PendingBatch
}

// Submit valida todas las líneas contra el stock bueno antes de debitar ninguna.
// Si una no alcanza falla con StockError nombrando ese SKU y el ledger no cambia.
func (uc *JobUseCase) Submit(ctx context.Context, actor Actor, in SubmitJobInput) (*entity.JobEntry, error) {
	if strings.TrimSpace(in.JobNo) == "" || in.Batch.Len() == 0 {
		return nil, domain.ErrInvalidInput
	}
	h, err := uc.jobHolder(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	lines := in.Batch.Lines()
	keys := make([]string, 0, len(lines))
	skuIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, err := uc.sku(ctx, l.SKUCodeID); err != nil {
			return nil, err
		}
		keys = append(keys, StockKey(h.ID, l.SKUCodeID))
		skuIDs = append(skuIDs, l.SKUCodeID)
	}

	var job *entity.JobEntry
	err = uc.execute(ctx, "job.submit", actor, keys, func(r TxRepos, j *journal) error {
		positions, err := lockPositions(ctx, r, h.Ref(), skuIDs)
		if err != nil {
			return err
		}
		for _, l := range lines {
			pos := positions[l.SKUCodeID]
			if l.Quantity > pos.Good {
				return &domain.StockError{
					SKUCodeID: l.SKUCodeID,
					HolderID:  h.ID,
					Bucket:    string(entity.BucketGood),
					Requested: l.Quantity,
					Available: pos.Good,
				}
			}
		}

		job = &entity.JobEntry{
			ID:          uuid.New().String(),
			JobNo:       strings.TrimSpace(in.JobNo),
			AssetsNo:    strings.TrimSpace(in.AssetsNo),
			ServiceType: strings.TrimSpace(in.ServiceType),
			SellFrom:    in.SellFrom,
			Holder:      h.Ref(),
			CreatedBy:   actor.UserID,
			CreatedAt:   j.at,
			Items:       make([]entity.JobItem, 0, len(lines)),
		}
		for i, l := range lines {
			pos := positions[l.SKUCodeID]
			if err := stock.Debit(pos, entity.BucketGood, l.Quantity); err != nil {
				return err
			}
			pos.UpdatedAt = j.at
			if err := r.Stock.Upsert(ctx, pos); err != nil {
				return err
			}
			job.Items = append(job.Items, entity.JobItem{
				ID:        uuid.New().String(),
				JobID:     job.ID,
				Position:  i + 1,
				SKUCodeID: l.SKUCodeID,
				Quantity:  l.Quantity,
				Price:     l.Price,
			})
			j.record(h.Ref(), l.SKUCodeID, entity.BucketGood, -l.Quantity, entity.ReasonJob, job.ID)
		}
		return r.Jobs.Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *JobUseCase) jobHolder(ctx context.Context, actor Actor, in SubmitJobInput) (*entity.Holder, error) {
	switch in.SellFrom {
	case entity.SellFromEngineer:
		if in.EngineerID == "" {
			return nil, domain.ErrInvalidInput
		}
		h, err := uc.holder(ctx, in.EngineerID)
		if err != nil {
			return nil, err
		}
		if h.Type != entity.HolderEngineer {
			return nil, domain.ErrInvalidInput
		}
		return h, nil
	case entity.SellFromBranch:
		id := in.BranchID
		if id == "" {
			id = actor.HolderID
		}
		h, err := uc.holder(ctx, id)
		if err != nil {
			return nil, err
		}
		if h.Type == entity.HolderEngineer {
			return nil, domain.ErrInvalidInput
		}
		return h, nil
	}
	return nil, domain.ErrInvalidInput
}

// GetByID devuelve un trabajo visible para el actor.
func (uc *JobUseCase) GetByID(ctx context.Context, actor Actor, id string) (*entity.JobEntry, error) {
	job, err := uc.deps.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	h, err := uc.holder(ctx, job.Holder.ID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	return job, nil
}

// List lista trabajos; fuera de admin se limita al holder del actor.
func (uc *JobUseCase) List(ctx context.Context, actor Actor, f repository.JobFilter) ([]*entity.JobEntry, error) {
	if !actor.IsAdmin() {
		f.HolderID = actor.HolderID
	}
	return uc.deps.Jobs.List(ctx, f)
}
