package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// defaultReportDays ventana por defecto cuando no se envía fromDate.
const defaultReportDays = 30

// ReportUseCase proyecciones de solo lectura sobre posiciones, traslados, trabajos y eventos.
type ReportUseCase struct {
	stock     repository.StockRepository
	transfers repository.TransferRepository
	jobs      repository.JobRepository
	events    repository.LedgerEventRepository
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	stock repository.StockRepository,
	transfers repository.TransferRepository,
	jobs repository.JobRepository,
	events repository.LedgerEventRepository,
) *ReportUseCase {
	return &ReportUseCase{stock: stock, transfers: transfers, jobs: jobs, events: events, now: time.Now}
}

// StockReport posiciones con el valor del stock bueno (Good * AvgPrice).
func (uc *ReportUseCase) StockReport(ctx context.Context, actor ledger.Actor, req dto.ReportRequest) (*dto.StockReportResponse, error) {
	holderID := scopeHolder(actor, req.HolderID)
	list, err := uc.stock.List(ctx, holderID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockReportResponse{HolderID: holderID, Rows: make([]dto.StockReportRow, 0, len(list)), TotalValue: decimal.Zero}
	for _, p := range list {
		value := p.AvgPrice.Mul(decimal.NewFromInt(p.Good))
		out.Rows = append(out.Rows, dto.StockReportRow{StockPositionResponse: dto.NewStockPositionResponse(p), GoodValue: value})
		out.TotalGood += p.Good
		out.TotalValue = out.TotalValue.Add(value)
	}
	return out, nil
}

// TransferReport traslados del período con conteo por etiqueta ("Part in Transit", "Received", "Rejected").
func (uc *ReportUseCase) TransferReport(ctx context.Context, actor ledger.Actor, req dto.ReportRequest) (*dto.TransferReportResponse, error) {
	from, to, err := parsePeriod(req.FromDate, req.ToDate, uc.now())
	if err != nil {
		return nil, err
	}
	f := repository.TransferFilter{HolderID: scopeHolder(actor, req.HolderID), From: &from, To: &to}
	if req.Status != "" {
		st := entity.TransferStatus(req.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("status inválido: %w", domain.ErrInvalidInput)
		}
		f.Statuses = []entity.TransferStatus{st}
	}
	list, err := uc.transfers.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.TransferReportResponse{From: from, To: to, Rows: dto.NewTransferResponses(list), ByLabel: map[string]int{}}
	for _, t := range list {
		out.ByLabel[t.Status.Label()]++
	}
	return out, nil
}

// JobReport trabajos del período con total por línea y total general.
func (uc *ReportUseCase) JobReport(ctx context.Context, actor ledger.Actor, req dto.ReportRequest) (*dto.JobReportResponse, error) {
	from, to, err := parsePeriod(req.FromDate, req.ToDate, uc.now())
	if err != nil {
		return nil, err
	}
	list, err := uc.jobs.List(ctx, repository.JobFilter{HolderID: scopeHolder(actor, req.HolderID), From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	out := &dto.JobReportResponse{From: from, To: to, Rows: make([]dto.JobResponse, 0, len(list)), GrandTotal: decimal.Zero}
	for _, j := range list {
		row := dto.NewJobResponse(j)
		out.GrandTotal = out.GrandTotal.Add(row.Total)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// LedgerReport eventos del período y delta neto por bucket.
func (uc *ReportUseCase) LedgerReport(ctx context.Context, actor ledger.Actor, req dto.ReportRequest) (*dto.LedgerReportResponse, error) {
	from, to, err := parsePeriod(req.FromDate, req.ToDate, uc.now())
	if err != nil {
		return nil, err
	}
	list, err := uc.events.List(ctx, repository.LedgerEventFilter{
		HolderID:  scopeHolder(actor, req.HolderID),
		SKUCodeID: req.SKUCodeID,
		From:      &from,
		To:        &to,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.LedgerReportResponse{From: from, To: to, Rows: make([]dto.LedgerEventResponse, 0, len(list)), NetDelta: map[string]int64{}}
	for _, b := range entity.Buckets {
		out.NetDelta[string(b)] = 0
	}
	for _, ev := range list {
		out.Rows = append(out.Rows, dto.NewLedgerEventResponse(ev))
		out.NetDelta[string(ev.Bucket)] += ev.Delta
	}
	return out, nil
}

// scopeHolder: fuera de admin el reporte siempre es del holder del actor.
func scopeHolder(actor ledger.Actor, requested string) string {
	if actor.IsAdmin() {
		return requested
	}
	return actor.HolderID
}

// parsePeriod interpreta fromDate/toDate (YYYY-MM-DD); toDate es inclusivo hasta el final del día.
func parsePeriod(fromStr, toStr string, now time.Time) (from, to time.Time, err error) {
	if toStr == "" {
		to = now
	} else {
		to, err = time.ParseInLocation("2006-01-02", toStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("toDate inválido: %w", domain.ErrInvalidInput)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	if fromStr == "" {
		day := to.AddDate(0, 0, -defaultReportDays)
		from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	} else {
		from, err = time.ParseInLocation("2006-01-02", fromStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fromDate inválido: %w", domain.ErrInvalidInput)
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("fromDate no puede ser posterior a toDate: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}
