package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"

	"github.com/google/uuid"
)

var ErrAlreadyRunning = errors.New("stream source already running")

// -----------------------------------------------------------------------------

// StreamSource relays one configured subscription to the publisher. Each run
// owns its own subscription, so sources never share a channel.
type StreamSource struct {
	Name       string
	Config     *models.MStreamConfig
	Logger     *logger.Logger
	Subscriber interfaces.ISubscriber
	Publisher  interfaces.IPublisher

	mu     sync.RWMutex
	status models.MStreamStatus
	cancel context.CancelFunc
	done   chan struct{}
}

// -----------------------------------------------------------------------------

// NewStreamSource creates a stopped source for cfg.
func NewStreamSource(cfg *models.MStreamConfig, subscriber interfaces.ISubscriber, publisher interfaces.IPublisher, logger *logger.Logger) *StreamSource {
	return &StreamSource{
		Name:       cfg.Name,
		Config:     cfg,
		Logger:     logger,
		Subscriber: subscriber,
		Publisher:  publisher,
		status: models.MStreamStatus{
			Name:       cfg.Name,
			Type:       cfg.Type,
			Instrument: cfg.Instrument,
		},
	}
}

// -----------------------------------------------------------------------------

// GetName returns the configured stream name
func (s *StreamSource) GetName() string {
	return s.Name
}

// -----------------------------------------------------------------------------

// Start launches the relay loop in its own goroutine. It returns at once;
// the loop ends when ctx is cancelled, Stop is called or retries run out.
func (s *StreamSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Running {
		return fmt.Errorf("%s: %w", s.Name, ErrAlreadyRunning)
	}

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.status.Running = true
	s.status.LastError = ""

	go s.run(ctx, s.done)

	s.Logger.Info("%s : started %s relay for %s", s.Name, s.Config.Type, s.Config.Instrument)
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the subscription and waits for the loop to exit.
func (s *StreamSource) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	s.Logger.Info("%s : stopped", s.Name)
	return nil
}

// -----------------------------------------------------------------------------

// Done is closed when the current run exits; nil before the first Start.
func (s *StreamSource) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// -----------------------------------------------------------------------------

// GetStatus returns a snapshot of the source status.
func (s *StreamSource) GetStatus() *models.MStreamStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	return &status
}

// -----------------------------------------------------------------------------

// run resubscribes after stream failures, at most ReconnectAttempts times in a
// row. A received message resets the count.
func (s *StreamSource) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.update(func(st *models.MStreamStatus) { st.Running = false })

	failures := 0
	for {
		received, err := s.relayOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if received > 0 {
			failures = 0
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			s.Logger.Error("%s : subscription rejected: %v", s.Name, permanent.err)
			s.update(func(st *models.MStreamStatus) { st.LastError = permanent.err.Error() })
			return
		}

		if err == nil {
			err = errors.New("server ended the stream")
		}
		s.update(func(st *models.MStreamStatus) { st.LastError = err.Error() })

		if failures >= s.Config.ReconnectAttempts {
			s.Logger.Error("%s : giving up after %d reconnect attempts: %v", s.Name, failures, err)
			return
		}
		failures++

		s.Logger.Warning("%s : stream interrupted (%v), resubscribing in %s (attempt %d/%d)",
			s.Name, err, s.Config.ReconnectWait, failures, s.Config.ReconnectAttempts)
		s.update(func(st *models.MStreamStatus) { st.Reconnects++ })

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Config.ReconnectWait):
		}
	}
}

// -----------------------------------------------------------------------------

// relayOnce opens one subscription and publishes until it ends.
func (s *StreamSource) relayOnce(ctx context.Context) (int, error) {
	seq, err := s.Subscriber.Subscribe(ctx, s.Config.Type, s.Config.Instrument, s.Config.Aggregate)
	if err != nil {
		return 0, &permanentError{err}
	}

	session := uuid.NewString()
	s.update(func(st *models.MStreamStatus) { st.SessionID = session })
	s.Logger.Debug("%s : [%s] subscription session started", s.Name, session)

	received := 0
	for msg, err := range seq {
		if err != nil {
			return received, err
		}
		received++

		if err := s.Publisher.OnMessage(msg); err != nil {
			s.update(func(st *models.MStreamStatus) { st.LastError = err.Error() })
			continue
		}
		s.update(func(st *models.MStreamStatus) {
			st.Messages++
			st.LastMessage = time.Now()
		})
	}
	return received, nil
}

// -----------------------------------------------------------------------------

func (s *StreamSource) update(fn func(st *models.MStreamStatus)) {
	s.mu.Lock()
	fn(&s.status)
	s.mu.Unlock()
}

// permanentError marks failures that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }
