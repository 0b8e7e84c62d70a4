package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/pkg/config"
)

var _ ledger.EventPublisher = (*PubSubPublisher)(nil)

// PubSubPublisher publica los eventos en un topic de Google Pub/Sub, uno por mensaje.
// La clave de orden es el holder: los consumidores ven los eventos de cada holder en orden de commit.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher abre el cliente y crea el topic si no existe.
func NewPubSubPublisher(ctx context.Context, cfg config.PubSubConfig) (*PubSubPublisher, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID requerido")
	}
	if cfg.LedgerTopic == "" {
		return nil, errors.New("PUBSUB_LEDGER_TOPIC requerido")
	}
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	topic := client.Topic(cfg.LedgerTopic)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pubsub topic %q: %w", cfg.LedgerTopic, err)
	}
	if !ok {
		if topic, err = client.CreateTopic(ctx, cfg.LedgerTopic); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("create topic %q: %w", cfg.LedgerTopic, err)
		}
	}
	topic.EnableMessageOrdering = true
	return &PubSubPublisher{client: client, topic: topic}, nil
}

// Publish envía todos los eventos y espera la confirmación de cada uno.
func (p *PubSubPublisher) Publish(ctx context.Context, evs []*entity.LedgerEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results := make([]*pubsub.PublishResult, 0, len(evs))
	for _, ev := range evs {
		msg, err := pubsubMessage(ev)
		if err != nil {
			return err
		}
		results = append(results, p.topic.Publish(ctx, msg))
	}
	var errs []error
	for i, res := range results {
		if _, err := res.Get(ctx); err != nil {
			// una clave con error queda pausada hasta ResumePublish
			p.topic.ResumePublish(evs[i].Holder.ID)
			errs = append(errs, fmt.Errorf("evento %s: %w", evs[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

func pubsubMessage(ev *entity.LedgerEvent) (*pubsub.Message, error) {
	data, err := json.Marshal(NewMessage(ev))
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data:        data,
		OrderingKey: ev.Holder.ID,
		Attributes: map[string]string{
			"holder_id": ev.Holder.ID,
			"reason":    string(ev.Reason),
		},
	}, nil
}

// Close vacía los mensajes pendientes y cierra el cliente.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
