package relay

import (
	"context"
	"errors"
	"iter"
	"sync"
	"testing"
	"time"

	"easykaiko/src/config"
	"easykaiko/src/kaiko"
	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/wire"
	"easykaiko/src/wire/wiretest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakePublisher struct {
	mu         sync.Mutex
	messages   []wire.Message
	connected  bool
	connectErr error
	publishErr error
}

func (p *fakePublisher) OnMessage(msg wire.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connectErr != nil {
		return p.connectErr
	}
	p.connected = true
	return nil
}

func (p *fakePublisher) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	return nil
}

func (p *fakePublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// rejectingSubscriber fails every Subscribe call.
type rejectingSubscriber struct {
	calls int
}

func (s *rejectingSubscriber) Subscribe(context.Context, models.MStreamType, models.MInstrumentCriteria, string) (iter.Seq2[wire.Message, error], error) {
	s.calls++
	return nil, errors.New("unknown stream type")
}

// -----------------------------------------------------------------------------

func streamConfig(name string, streamType models.MStreamType, attempts int) *models.MStreamConfig {
	aggregate := "1m"
	if streamType == models.StreamTypeTrades {
		aggregate = ""
	}
	return &models.MStreamConfig{
		Name:              name,
		Type:              streamType,
		Instrument:        models.MInstrumentCriteria{Exchange: "cbse", InstrumentClass: "spot", Code: "btc-usd"},
		Aggregate:         aggregate,
		ReconnectAttempts: attempts,
		ReconnectWait:     time.Millisecond,
	}
}

func newTestRelay(t *testing.T, behaviour wiretest.Behaviour, streams ...*models.MStreamConfig) (*Relay, *fakePublisher, *wiretest.Factory) {
	t.Helper()
	gw := wiretest.Start(t, behaviour)
	factory := wiretest.NewFactory(gw)
	client := kaiko.NewClient("secret", kaiko.WithChannelFactory(factory))

	cfg := &config.Config{MConfig: &models.MConfig{Name: "test", Streams: streams}}
	publisher := &fakePublisher{}
	r := NewRelay(cfg, logger.NewNopLogger(), client, publisher)
	t.Cleanup(func() { _ = r.Stop() })
	return r, publisher, factory
}

func waitStopped(t *testing.T, r *Relay) {
	t.Helper()
	require.Eventually(t, func() bool { return r.RunningSources() == 0 }, 5*time.Second, 5*time.Millisecond)
}

// -----------------------------------------------------------------------------

func TestRelay_PublishesEveryStream(t *testing.T) {
	r, publisher, factory := newTestRelay(t, wiretest.Behaviour{Messages: 3},
		streamConfig("btc-bars", models.StreamTypeOHLCV, 0),
		streamConfig("btc-trades", models.StreamTypeTrades, 0),
	)

	require.NoError(t, r.Start())
	assert.True(t, publisher.IsConnected())
	assert.Equal(t, []string{"btc-bars", "btc-trades"}, r.ListSources())

	waitStopped(t, r)

	assert.Equal(t, 6, publisher.count())
	assert.Equal(t, 2, factory.Opens())
	assert.Equal(t, 2, factory.Closes())

	for _, st := range r.Statuses() {
		assert.False(t, st.Running)
		assert.Equal(t, uint64(3), st.Messages)
		assert.NotEmpty(t, st.SessionID)
		assert.Equal(t, "server ended the stream", st.LastError)
		assert.False(t, st.LastMessage.IsZero())
	}
}

func TestRelay_ResubscribesUpToReconnectAttempts(t *testing.T) {
	r, _, factory := newTestRelay(t,
		wiretest.Behaviour{Err: status.Error(codes.Unavailable, "gateway restarting")},
		streamConfig("vwap", models.StreamTypeVWAP, 2),
	)

	require.NoError(t, r.Start())
	waitStopped(t, r)

	st, err := r.GetSourceStatus("vwap")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Reconnects)
	assert.Contains(t, st.LastError, "gateway restarting")
	assert.Equal(t, 3, factory.Opens())
	assert.Equal(t, 3, factory.Closes())
}

func TestRelay_StopEndsSubscriptions(t *testing.T) {
	r, publisher, factory := newTestRelay(t, wiretest.Behaviour{Endless: true},
		streamConfig("a", models.StreamTypeTrades, 5),
		streamConfig("b", models.StreamTypeOHLCV, 5),
	)

	require.NoError(t, r.Start())
	require.Eventually(t, func() bool { return publisher.count() > 10 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, r.RunningSources())

	require.NoError(t, r.Stop())

	assert.Zero(t, r.RunningSources())
	assert.False(t, publisher.IsConnected())
	assert.Equal(t, factory.Opens(), factory.Closes())
}

func TestRelay_PublishFailureKeepsStreaming(t *testing.T) {
	r, publisher, _ := newTestRelay(t, wiretest.Behaviour{Messages: 2},
		streamConfig("a", models.StreamTypeTrades, 0),
	)
	publisher.publishErr = errors.New("nats down")

	require.NoError(t, r.Start())
	waitStopped(t, r)

	st, err := r.GetSourceStatus("a")
	require.NoError(t, err)
	assert.Zero(t, st.Messages)
}

func TestRelay_PublisherConnectFailure(t *testing.T) {
	r, publisher, factory := newTestRelay(t, wiretest.Behaviour{Messages: 1},
		streamConfig("a", models.StreamTypeTrades, 0),
	)
	publisher.connectErr = errors.New("connection refused")

	assert.ErrorContains(t, r.Start(), "connection refused")
	assert.Empty(t, r.ListSources())
	assert.Zero(t, factory.Opens())
}

func TestRelay_SourceManagement(t *testing.T) {
	r, _, _ := newTestRelay(t, wiretest.Behaviour{Endless: true})

	require.NoError(t, r.AddSource(streamConfig("a", models.StreamTypeTrades, 0)))
	assert.Error(t, r.AddSource(streamConfig("a", models.StreamTypeTrades, 0)))

	assert.ErrorIs(t, r.StartSource("missing"), ErrSourceNotFound)
	_, err := r.GetSourceStatus("missing")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	require.NoError(t, r.StartSource("a"))
	assert.ErrorIs(t, r.StartSource("a"), ErrAlreadyRunning)

	require.NoError(t, r.StopSource("a"))
	assert.Zero(t, r.RunningSources())

	require.NoError(t, r.RemoveSource("a"))
	assert.Empty(t, r.ListSources())
}

// -----------------------------------------------------------------------------

func TestStreamSource_RejectedSubscriptionIsNotRetried(t *testing.T) {
	subscriber := &rejectingSubscriber{}
	source := NewStreamSource(streamConfig("x", models.StreamTypeOHLCV, 3), subscriber, &fakePublisher{}, logger.NewNopLogger())

	require.NoError(t, source.Start(context.Background()))
	select {
	case <-source.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("source did not stop")
	}

	st := source.GetStatus()
	assert.False(t, st.Running)
	assert.Equal(t, "unknown stream type", st.LastError)
	assert.Zero(t, st.Reconnects)
	assert.Equal(t, 1, subscriber.calls)
}
