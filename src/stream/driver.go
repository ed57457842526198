// Package stream drives realtime subscriptions: it opens one channel per
// subscription, sends the request and exposes the server messages as a
// pull-based sequence.
package stream

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync/atomic"

	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/wire"

	"github.com/google/uuid"
)

// ErrSubscriptionConsumed is yielded when a subscription sequence is ranged twice.
var ErrSubscriptionConsumed = errors.New("subscription already consumed")

// -----------------------------------------------------------------------------

// Driver opens subscriptions against channels built by an IChannelFactory.
type Driver struct {
	Name    string
	apiKey  string
	factory interfaces.IChannelFactory
	logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewDriver creates a Driver; a nil logger discards output.
func NewDriver(apiKey string, factory interfaces.IChannelFactory, log *logger.Logger) *Driver {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Driver{
		Name:    "SubscriptionDriver",
		apiKey:  apiKey,
		factory: factory,
		logger:  log,
	}
}

// -----------------------------------------------------------------------------

// Subscribe validates the stream type and options and returns a lazy sequence
// of server messages. Nothing touches the network until the sequence is
// ranged; the channel opened then is closed whenever the range ends, whether
// the server finished, an error was yielded or the consumer stopped early.
// A sequence can be ranged once.
func (d *Driver) Subscribe(ctx context.Context, streamType models.MStreamType, criteria models.MInstrumentCriteria, opts Options) (iter.Seq2[wire.Message, error], error) {
	traits, err := traitsFor(streamType)
	if err != nil {
		return nil, err
	}
	call, err := traits.prepare(wire.NewInstrumentCriteria(criteria), opts)
	if err != nil {
		return nil, err
	}

	var consumed atomic.Bool
	return func(yield func(wire.Message, error) bool) {
		if consumed.Swap(true) {
			yield(nil, ErrSubscriptionConsumed)
			return
		}
		d.run(ctx, traits, call, criteria, yield)
	}, nil
}

// -----------------------------------------------------------------------------

// run owns one channel for the lifetime of a single range.
func (d *Driver) run(ctx context.Context, traits streamTraits, call *preparedCall, criteria models.MInstrumentCriteria, yield func(wire.Message, error) bool) {
	session := uuid.NewString()

	channel, err := d.factory.OpenChannel(d.apiKey)
	if err != nil {
		d.logger.Error("%s : [%s] failed to open channel for %s %s: %v", d.Name, session, traits.Type, criteria, err)
		yield(nil, err)
		return
	}
	defer func() {
		if err := channel.Close(); err != nil {
			d.logger.Warning("%s : [%s] failed to close channel: %v", d.Name, session, err)
		}
		d.logger.Debug("%s : [%s] channel closed", d.Name, session)
	}()

	// cancelled before the channel closes so the server sees the stream end
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recv, err := call.open(ctx, channel)
	if err != nil {
		d.logger.Error("%s : [%s] %s failed: %v", d.Name, session, traits.Method, err)
		yield(nil, err)
		return
	}
	d.logger.Info("%s : [%s] subscribed to %s %s", d.Name, session, traits.Type, criteria)

	received := 0
	for {
		msg, err := recv()
		if errors.Is(err, io.EOF) {
			d.logger.Info("%s : [%s] server ended %s stream after %d messages", d.Name, session, traits.Type, received)
			return
		}
		if err != nil {
			d.logger.Error("%s : [%s] %s stream failed after %d messages: %v", d.Name, session, traits.Type, received, err)
			yield(nil, err)
			return
		}
		received++
		if !yield(msg, nil) {
			d.logger.Debug("%s : [%s] consumer stopped after %d messages", d.Name, session, received)
			return
		}
	}
}
