package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// OrderStore is satisfied by *orders.Repo.
type OrderStore interface {
	Insert(ctx context.Context, p orders.OrderPlacedPayload) (bool, error)
}

// Service writes placed orders into the admin order store.
type Service struct {
	Repo  OrderStore
	Redis redis.Cmdable // optional event-id dedup in front of the idempotent insert
	Name  string
	Log   logrus.FieldLogger
}

// HandleOrderPlaced is installed as the consumer handler. Other event types are skipped.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// Poison message: log it and let the offset commit.
		s.Log.WithError(err).WithField("offset", m.Offset).Error("drop undecodable event")
		return nil
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}
	log := s.Log.WithFields(logrus.Fields{"event_id": env.EventID, "order_id": env.CorrelationID})

	dkey := fmt.Sprintf(redisx.KeyDedup, s.Name, env.EventID)
	if s.Redis != nil {
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			log.Debug("duplicate event")
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		log.WithError(err).Error("drop event with bad payload")
		return nil
	}

	inserted, err := s.Repo.Insert(ctx, p)
	if err != nil {
		return fmt.Errorf("record order %s: %w", p.OrderID, err)
	}
	if s.Redis != nil {
		if _, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup); err != nil {
			log.WithError(err).Warn("mark event seen")
		}
	}
	log.WithField("inserted", inserted).Info("order recorded")
	return nil
}
