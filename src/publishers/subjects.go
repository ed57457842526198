package publishers

import (
	"fmt"
	"strings"
	"time"

	"easykaiko/src/models"
	"easykaiko/src/wire"

	"github.com/nats-io/nats.go"
)

// Subject returns kaiko.<type>.<exchange>.<class>.<code> for msg.
// Tokens are lowercased; NATS separators and wildcards inside a token become "_".
func Subject(msg wire.Message) string {
	return strings.Join([]string{
		SubjectRoot,
		token(string(msg.GetStreamType())),
		token(msg.GetExchange()),
		token(msg.GetClass()),
		token(msg.GetCode()),
	}, ".")
}

// PrefixSubject prepends prefix when it is set.
func PrefixSubject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

var tokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

func token(s string) string {
	if s == "" {
		return "_"
	}
	return tokenReplacer.Replace(strings.ToLower(s))
}

// -----------------------------------------------------------------------------

// StreamConfig maps the JetStream section of the configuration to a stream
// definition. Subjects default to every kaiko subject under the prefix.
func StreamConfig(config *models.MNATSConfig) (*nats.StreamConfig, error) {
	js := config.JetStream
	if js == nil || js.StreamName == "" {
		return nil, fmt.Errorf("stream name not configured")
	}

	subjects := js.Subjects
	if len(subjects) == 0 {
		subjects = []string{PrefixSubject(config.SubjectPrefix, SubjectRoot+".>")}
	}

	maxAge := js.MaxAge
	if maxAge == 0 {
		maxAge = 72 * time.Hour
	}

	return &nats.StreamConfig{
		Name:       js.StreamName,
		Subjects:   subjects,
		Retention:  nats.LimitsPolicy,
		Storage:    nats.FileStorage,
		Replicas:   int(js.Replicas),
		MaxAge:     maxAge,
		MaxMsgs:    js.MaxMsgs,
		MaxBytes:   js.MaxBytes,
		MaxMsgSize: int32(js.MaxMsgSize),
		Discard:    nats.DiscardOld,
	}, nil
}
