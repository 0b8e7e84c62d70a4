package events

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/pkg/logger"
)

var _ ledger.EventPublisher = (*LogPublisher)(nil)

// LogPublisher escribe cada evento como una línea de log estructurada.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Component("events")}
}

// Publish nunca falla.
func (p *LogPublisher) Publish(_ context.Context, evs []*entity.LedgerEvent) error {
	for _, ev := range evs {
		p.log.Info().
			Str("event_id", ev.ID).
			Str("holder_id", ev.Holder.ID).
			Str("sku_code_id", ev.SKUCodeID).
			Str("bucket", string(ev.Bucket)).
			Int64("delta", ev.Delta).
			Str("reason", string(ev.Reason)).
			Str("ref_id", ev.RefID).
			Msg("ledger event")
	}
	return nil
}

// Fanout publica en todos los destinos; devuelve el primer error sin cortar el resto.
type Fanout []ledger.EventPublisher

// Publish implementa ledger.EventPublisher.
func (f Fanout) Publish(ctx context.Context, evs []*entity.LedgerEvent) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, evs); err != nil && first == nil {
			first = err
		}
	}
	return first
}
