// Package relay runs the configured realtime subscriptions and forwards every
// streamed message to a publisher.
package relay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"easykaiko/src/config"
	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"
)

var ErrSourceNotFound = errors.New("stream source not found")

// -----------------------------------------------------------------------------

// Relay manages one StreamSource per configured stream.
type Relay struct {
	Name       string
	Config     *config.Config
	Logger     *logger.Logger
	Subscriber interfaces.ISubscriber
	Publisher  interfaces.IPublisher

	Sources map[string]interfaces.IStreamSource
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// -----------------------------------------------------------------------------

// NewRelay creates a Relay; sources are built from the configuration on Start.
func NewRelay(config *config.Config, logger *logger.Logger, subscriber interfaces.ISubscriber, publisher interfaces.IPublisher) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		Name:       "KaikoRelay",
		Config:     config,
		Logger:     logger,
		Subscriber: subscriber,
		Publisher:  publisher,
		Sources:    make(map[string]interfaces.IStreamSource),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// -----------------------------------------------------------------------------
// Lifecycle (all sources)
// -----------------------------------------------------------------------------

// Start connects the publisher, then starts every configured stream.
func (r *Relay) Start() error {
	r.Logger.Info("%s : starting relay", r.Name)

	// fail fast if the publisher is unavailable
	if err := r.Publisher.Connect(); err != nil {
		return fmt.Errorf("failed to connect to publisher: %w", err)
	}
	r.Logger.Info("%s : publisher connected", r.Name)

	for _, streamConfig := range r.Config.Streams {
		if err := r.AddSource(streamConfig); err != nil {
			return err
		}
	}

	for _, name := range r.ListSources() {
		if err := r.StartSource(name); err != nil {
			r.Logger.Error("%s : stream %s failed to start: %v", r.Name, name, err)
		}
	}

	r.Logger.Info("%s : relay started, running %d streams", r.Name, r.RunningSources())
	return nil
}

// -----------------------------------------------------------------------------

// Stop ends every subscription, then disconnects the publisher.
func (r *Relay) Stop() error {
	r.Logger.Info("%s : stopping relay", r.Name)

	r.cancel()

	r.mu.RLock()
	var wg sync.WaitGroup
	for _, source := range r.Sources {
		wg.Add(1)
		go func(s interfaces.IStreamSource) {
			defer wg.Done()
			if err := s.Stop(); err != nil {
				r.Logger.Error("%s : failed to stop %s: %v", r.Name, s.GetName(), err)
			}
		}(source)
	}
	r.mu.RUnlock()
	wg.Wait()

	if err := r.Publisher.Disconnect(); err != nil {
		r.Logger.Error("%s : failed to disconnect publisher: %v", r.Name, err)
	}

	r.Logger.Info("%s : relay stopped", r.Name)
	return nil
}

// -----------------------------------------------------------------------------
// Source management
// -----------------------------------------------------------------------------

// AddSource registers a stopped source for streamConfig.
func (r *Relay) AddSource(streamConfig *models.MStreamConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.Sources[streamConfig.Name]; exists {
		return fmt.Errorf("stream '%s' is already registered", streamConfig.Name)
	}
	r.Sources[streamConfig.Name] = NewStreamSource(streamConfig, r.Subscriber, r.Publisher, r.Logger)

	r.Logger.Info("%s : stream '%s' added (%s %s)", r.Name, streamConfig.Name, streamConfig.Type, streamConfig.Instrument)
	return nil
}

// -----------------------------------------------------------------------------

// StartSource starts a registered source under the relay context.
func (r *Relay) StartSource(name string) error {
	source, err := r.source(name)
	if err != nil {
		return err
	}
	return source.Start(r.ctx)
}

// -----------------------------------------------------------------------------

// StopSource stops a registered source.
func (r *Relay) StopSource(name string) error {
	source, err := r.source(name)
	if err != nil {
		return err
	}
	return source.Stop()
}

// -----------------------------------------------------------------------------

// RemoveSource stops a source and forgets it.
func (r *Relay) RemoveSource(name string) error {
	source, err := r.source(name)
	if err != nil {
		return err
	}
	if err := source.Stop(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.Sources, name)
	r.mu.Unlock()

	r.Logger.Info("%s : stream '%s' removed", r.Name, name)
	return nil
}

// -----------------------------------------------------------------------------

// ListSources returns the registered stream names, sorted.
func (r *Relay) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.Sources))
	for name := range r.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

// GetSourceStatus returns the status of one source.
func (r *Relay) GetSourceStatus(name string) (*models.MStreamStatus, error) {
	source, err := r.source(name)
	if err != nil {
		return nil, err
	}
	return source.GetStatus(), nil
}

// Statuses returns the status of every source, ordered by name.
func (r *Relay) Statuses() []*models.MStreamStatus {
	names := r.ListSources()
	statuses := make([]*models.MStreamStatus, 0, len(names))
	for _, name := range names {
		if status, err := r.GetSourceStatus(name); err == nil {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

// RunningSources counts the sources whose loop is alive.
func (r *Relay) RunningSources() int {
	running := 0
	for _, status := range r.Statuses() {
		if status.Running {
			running++
		}
	}
	return running
}

// -----------------------------------------------------------------------------

func (r *Relay) source(name string) (interfaces.IStreamSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.Sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrSourceNotFound, name)
	}
	return source, nil
}
