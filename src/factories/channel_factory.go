package factories

import (
	"crypto/tls"
	"fmt"

	"easykaiko/src/interfaces"
	"easykaiko/src/logger"

	"golang.org/x/oauth2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/oauth"
)

// DefaultGateway is the streaming gateway of the provider.
const DefaultGateway = "gateway-v0-grpc.kaiko.ovh:443"

// -----------------------------------------------------------------------------

// SecureChannelFactory opens TLS channels authenticated with a bearer token per call
type SecureChannelFactory struct {
	Name    string
	Gateway string
	Logger  *logger.Logger
	// DialOptions are appended after the credential options
	DialOptions []grpc.DialOption
}

// -----------------------------------------------------------------------------

// NewSecureChannelFactory creates a factory for the given gateway host:port.
func NewSecureChannelFactory(gateway string, logger *logger.Logger) *SecureChannelFactory {
	if gateway == "" {
		gateway = DefaultGateway
	}
	return &SecureChannelFactory{
		Name:    "SecureChannelFactory",
		Gateway: gateway,
		Logger:  logger,
	}
}

// -----------------------------------------------------------------------------

// OpenChannel creates a new, unshared channel for one subscription.
// TLS uses the system trust store; the API key travels as a bearer token.
func (f *SecureChannelFactory) OpenChannel(apiKey string) (interfaces.IChannel, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})),
		grpc.WithPerRPCCredentials(bearerCredentials(apiKey)),
	}, f.DialOptions...)

	conn, err := grpc.NewClient(f.Gateway, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open channel to %s: %w", f.Gateway, err)
	}

	f.Logger.Debug("%s : channel opened to %s", f.Name, f.Gateway)
	return conn, nil
}

// -----------------------------------------------------------------------------

// bearerCredentials attaches "authorization: Bearer <apiKey>" to every call.
func bearerCredentials(apiKey string) oauth.TokenSource {
	return oauth.TokenSource{
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: apiKey,
			TokenType:   "Bearer",
		}),
	}
}
