package event

import (
	"context"

	"github.com/rs/zerolog"
)

// ブローカー未設定のときに使う Publisher 実装。ログに出すだけ。
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishOrderCreated(ctx context.Context, ev OrderCreated) error {
	p.log.Info().
		Int64("order_id", ev.OrderID).
		Int64("customer_id", ev.CustomerID).
		Str("total", ev.Total.String()).
		Time("occurred_at", ev.OccurredAt).
		Msg("order created")
	return nil
}
