package interfaces

import (
	"context"
	"iter"

	"easykaiko/src/models"
	"easykaiko/src/wire"
)

// -----------------------------------------------------------------------------

// ISubscriber opens realtime subscriptions; kaiko.Client implements it.
type ISubscriber interface {
	Subscribe(ctx context.Context, streamType models.MStreamType, criteria models.MInstrumentCriteria, aggregate string) (iter.Seq2[wire.Message, error], error)
}

// -----------------------------------------------------------------------------

// IStreamSource manages the lifecycle of one relayed subscription
type IStreamSource interface {
	GetName() string
	Start(ctx context.Context) error
	Stop() error
	GetStatus() *models.MStreamStatus
}
