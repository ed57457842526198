package publishers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/wire"

	"github.com/nats-io/nats.go"
)

// SubjectRoot is the first token of every published subject.
const SubjectRoot = "kaiko"

var ErrNotConnected = errors.New("nats client not connected")

// -----------------------------------------------------------------------------

// NATSPublisher relays streamed messages to NATS core or JetStream.
type NATSPublisher struct {
	name   string
	config *models.MNATSConfig
	logger *logger.Logger

	useJetStream bool

	mu sync.RWMutex

	nc         *nats.Conn             // NATS core connection
	js         nats.JetStreamContext  // JetStream context (if enabled)
	serializer interfaces.ISerializer // encodes messages before sending

	connected bool
}

// -----------------------------------------------------------------------------

// NewNATSPublisher creates a publisher; Connect must be called before OnMessage.
func NewNATSPublisher(config *models.MNATSConfig, logger *logger.Logger, serializer interfaces.ISerializer) *NATSPublisher {
	return &NATSPublisher{
		name:       config.ClientID,
		config:     config,
		logger:     logger,
		serializer: serializer,
	}
}

// -----------------------------------------------------------------------------

// OnMessage serializes msg and publishes it on its instrument subject.
func (np *NATSPublisher) OnMessage(msg wire.Message) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}
	subject := Subject(msg)

	payload, err := np.serializer.Marshal(msg)
	if err != nil {
		np.logger.Error("%s : failed to serialize %s message for %s: %v", np.name, msg.GetStreamType(), subject, err)
		return fmt.Errorf("failed to serialize message for %s: %w", subject, err)
	}

	if np.useJetStream {
		err = np.PublishJetStream(subject, payload)
	} else {
		err = np.Publish(subject, payload)
	}
	if err != nil {
		np.logger.Error("%s : failed to publish %s message to %s: %v", np.name, msg.GetStreamType(), subject, err)
		return err
	}

	np.logger.Debug("%s : published %s %s/%s/%s", np.name, msg.GetStreamType(), msg.GetExchange(), msg.GetClass(), msg.GetCode())
	return nil
}

// -----------------------------------------------------------------------------

// Publish sends raw data to a NATS core subject (fire-and-forget).
func (np *NATSPublisher) Publish(subject string, data []byte) error {
	if !np.IsConnected() {
		return ErrNotConnected
	}
	return np.nc.PublishMsg(np.newMsg(subject, data))
}

// -----------------------------------------------------------------------------

// PublishJetStream sends raw data using JetStream and waits for the ack.
func (np *NATSPublisher) PublishJetStream(subject string, data []byte) error {
	if !np.IsConnected() {
		return ErrNotConnected
	}
	if np.js == nil {
		return fmt.Errorf("jetstream is not initialized or enabled")
	}

	msg := np.newMsg(subject, data)
	if _, err := np.js.PublishMsg(msg); err != nil {
		np.logger.Error("%s : jetstream publish failed for %s: %v", np.name, msg.Subject, err)
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Connect establishes the NATS connection and, if configured, the JetStream context.
func (np *NATSPublisher) Connect() error {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc != nil && np.nc.IsConnected() {
		return nil
	}
	if len(np.config.Servers) == 0 {
		return fmt.Errorf("no nats servers configured")
	}

	opts := []nats.Option{
		nats.Name(np.config.ClientID),
		nats.Timeout(np.config.ConnectTimeout),
		nats.ReconnectWait(np.config.ReconnectWait),
		nats.MaxReconnects(np.config.MaxReconnects),
		nats.FlusherTimeout(np.config.FlushTimeout),

		nats.RetryOnFailedConnect(true),
		nats.ConnectHandler(func(nc *nats.Conn) {
			np.logger.Info("%s : NATS connected to %s", np.name, nc.ConnectedUrl())
			np.setConnected(true)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			np.logger.Error("%s : NATS connection closed", np.name)
			np.setConnected(false)
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			np.logger.Warning("%s : NATS disconnected, attempting reconnect: %v", np.name, err)
			np.setConnected(false)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			np.logger.Info("%s : NATS reconnected to %s", np.name, nc.ConnectedUrl())
			np.setConnected(true)
		}),
	}

	var err error
	np.nc, err = nats.Connect(strings.Join(np.config.Servers, ","), opts...)
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}

	// with retry on failed connect the first attempt may still be pending
	np.connected = np.nc.IsConnected()
	if np.connected {
		np.logger.Info("%s : connected to NATS at %s", np.name, np.nc.ConnectedUrl())
	} else {
		np.logger.Warning("%s : NATS not reachable yet, retrying in background", np.name)
	}

	if np.config.JetStream != nil && np.config.JetStream.Enabled {
		np.useJetStream = true

		np.js, err = np.nc.JetStream()
		if err != nil {
			np.logger.Error("%s : failed to create JetStream context: %v", np.name, err)
			return fmt.Errorf("jetstream context creation failed: %w", err)
		}
		np.logger.Info("%s : publishing through JetStream", np.name)

		if err := np.ensureStreamExists(); err != nil {
			// publishing reports the error if the stream is really missing
			np.logger.Warning("%s : failed to ensure stream exists: %v (continuing anyway)", np.name, err)
		}
	} else {
		np.useJetStream = false
		np.logger.Warning("%s : publishing through NATS core (fire-and-forget), JetStream is disabled", np.name)
	}

	return nil
}

// -----------------------------------------------------------------------------

// ensureStreamExists creates the configured JetStream stream when missing.
func (np *NATSPublisher) ensureStreamExists() error {
	if np.js == nil || np.config.JetStream == nil {
		return fmt.Errorf("jetstream not initialized")
	}

	streamConfig, err := StreamConfig(np.config)
	if err != nil {
		return err
	}

	if info, err := np.js.StreamInfo(streamConfig.Name); err == nil {
		np.logger.Info("%s : JetStream stream '%s' already exists with %d subjects",
			np.name, streamConfig.Name, len(info.Config.Subjects))
		return nil
	}

	np.logger.Info("%s : creating JetStream stream '%s'", np.name, streamConfig.Name)
	if _, err := np.js.AddStream(streamConfig); err != nil {
		return fmt.Errorf("failed to create stream '%s': %w", streamConfig.Name, err)
	}

	np.logger.Info("%s : created JetStream stream '%s' with subjects: %v", np.name, streamConfig.Name, streamConfig.Subjects)
	return nil
}

// -----------------------------------------------------------------------------

// Disconnect drains pending messages and closes the connection.
func (np *NATSPublisher) Disconnect() error {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc == nil || np.nc.IsClosed() {
		return nil
	}

	if err := np.nc.Drain(); err != nil {
		np.logger.Warning("%s : drain failed, closing: %v", np.name, err)
		np.nc.Close()
	}
	np.connected = false
	np.logger.Info("%s : NATS connection closed", np.name)
	return nil
}

// -----------------------------------------------------------------------------

// IsConnected returns connection status
func (np *NATSPublisher) IsConnected() bool {
	np.mu.RLock()
	defer np.mu.RUnlock()
	return np.connected
}

// GetName returns the client identifier
func (np *NATSPublisher) GetName() string {
	return np.name
}

// -----------------------------------------------------------------------------

// Flush waits until the server has processed everything published so far.
func (np *NATSPublisher) Flush() error {
	if !np.IsConnected() {
		return ErrNotConnected
	}
	return np.nc.FlushTimeout(np.flushTimeout())
}

// -----------------------------------------------------------------------------

// setConnected is called from NATS event handlers on other goroutines.
func (np *NATSPublisher) setConnected(status bool) {
	np.mu.Lock()
	np.connected = status
	np.mu.Unlock()
}

func (np *NATSPublisher) flushTimeout() time.Duration {
	if np.config.FlushTimeout > 0 {
		return np.config.FlushTimeout
	}
	return 5 * time.Second
}

// newMsg builds the outgoing message with its prefixed subject and content type.
func (np *NATSPublisher) newMsg(subject string, data []byte) *nats.Msg {
	msg := nats.NewMsg(PrefixSubject(np.config.SubjectPrefix, subject))
	msg.Data = data
	msg.Header.Set("Content-Type", np.serializer.ContentType())
	return msg
}
