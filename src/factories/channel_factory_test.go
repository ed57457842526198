package factories

import (
	"testing"

	"easykaiko/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/connectivity"
)

func TestNewSecureChannelFactory_DefaultGateway(t *testing.T) {
	f := NewSecureChannelFactory("", logger.NewNopLogger())
	assert.Equal(t, DefaultGateway, f.Gateway)
}

func TestBearerCredentials(t *testing.T) {
	creds := bearerCredentials("api-key-1")

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Equal(t, "api-key-1", token.AccessToken)
	assert.Equal(t, "Bearer", token.Type())
	// the token is only sent over TLS channels
	assert.True(t, creds.RequireTransportSecurity())
}

func TestOpenChannel_IsLazyAndClosable(t *testing.T) {
	// grpc.NewClient does not dial, so an unreachable gateway still yields a channel
	f := NewSecureChannelFactory("localhost:1", logger.NewNopLogger())

	ch, err := f.OpenChannel("k")
	require.NoError(t, err)
	require.NoError(t, ch.Close())

	type stater interface{ GetState() connectivity.State }
	s, ok := ch.(stater)
	require.True(t, ok)
	assert.Equal(t, connectivity.Shutdown, s.GetState())
}
