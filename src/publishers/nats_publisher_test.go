package publishers

import (
	"testing"
	"time"

	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/serializers"
	"easykaiko/src/wire"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name string
		msg  wire.Message
		want string
	}{
		{
			name: "ohlcv",
			msg:  &wire.StreamAggregatesOHLCVResponseV1{Exchange: "cbse", Class: "spot", Code: "btc-usd"},
			want: "kaiko.ohlcv.cbse.spot.btc-usd",
		},
		{
			name: "vwap",
			msg:  &wire.StreamAggregatesVWAPResponseV1{Exchange: "krkn", Class: "spot", Code: "eth-usd"},
			want: "kaiko.vwap.krkn.spot.eth-usd",
		},
		{
			name: "trades with reserved characters",
			msg:  &wire.StreamTradesResponseV1{Exchange: "BNCE", Class: "perpetual-future", Code: "btc.usdt*"},
			want: "kaiko.trades.bnce.perpetual-future.btc_usdt_",
		},
		{
			name: "empty token",
			msg:  &wire.StreamTradesResponseV1{Exchange: "cbse", Code: "btc-usd"},
			want: "kaiko.trades.cbse._.btc-usd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.msg))
		})
	}
}

func TestPrefixSubject(t *testing.T) {
	assert.Equal(t, "kaiko.trades.a.b.c", PrefixSubject("", "kaiko.trades.a.b.c"))
	assert.Equal(t, "prod.kaiko.trades.a.b.c", PrefixSubject("prod", "kaiko.trades.a.b.c"))
}

func TestStreamConfig(t *testing.T) {
	cfg := &models.MNATSConfig{
		SubjectPrefix: "prod",
		JetStream: &models.MJetStreamConfig{
			Enabled:    true,
			StreamName: "KAIKO",
			Replicas:   3,
			MaxMsgSize: 1024,
		},
	}

	sc, err := StreamConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "KAIKO", sc.Name)
	assert.Equal(t, []string{"prod.kaiko.>"}, sc.Subjects)
	assert.Equal(t, 72*time.Hour, sc.MaxAge)
	assert.Equal(t, 3, sc.Replicas)
	assert.Equal(t, int32(1024), sc.MaxMsgSize)
	assert.Equal(t, nats.DiscardOld, sc.Discard)

	cfg.JetStream.Subjects = []string{"custom.>"}
	sc, err = StreamConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom.>"}, sc.Subjects)

	_, err = StreamConfig(&models.MNATSConfig{})
	assert.Error(t, err)
}

func TestOnMessage_NotConnected(t *testing.T) {
	np := NewNATSPublisher(&models.MNATSConfig{ClientID: "test"}, logger.NewNopLogger(), serializers.NewJSONSerializer())

	assert.False(t, np.IsConnected())
	err := np.OnMessage(&wire.StreamTradesResponseV1{Exchange: "cbse", Class: "spot", Code: "btc-usd"})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Error(t, np.OnMessage(nil))
	assert.NoError(t, np.Disconnect())
}

func TestConnect_NoServers(t *testing.T) {
	np := NewNATSPublisher(&models.MNATSConfig{ClientID: "test"}, logger.NewNopLogger(), serializers.NewJSONSerializer())
	assert.Error(t, np.Connect())
}

func TestNewMsg_SetsPrefixAndContentType(t *testing.T) {
	np := NewNATSPublisher(&models.MNATSConfig{ClientID: "test", SubjectPrefix: "dev"}, logger.NewNopLogger(), serializers.NewBinSerializer())

	msg := np.newMsg("kaiko.trades.cbse.spot.btc-usd", []byte("x"))
	assert.Equal(t, "dev.kaiko.trades.cbse.spot.btc-usd", msg.Subject)
	assert.Equal(t, "application/x-gob", msg.Header.Get("Content-Type"))
	assert.Equal(t, []byte("x"), msg.Data)
}
