package wire

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName is registered as the gRPC content-subtype, so servers see application/grpc+proto.
const CodecName = "proto"

// -----------------------------------------------------------------------------

// marshaler is implemented by every message of proto/kaikosdk.proto.
type marshaler interface {
	appendWire(b []byte) []byte
}

type unmarshaler interface {
	unmarshalWire(b []byte) error
}

// -----------------------------------------------------------------------------

// Codec encodes the kaikosdk messages in protobuf binary format for gRPC.
// It satisfies google.golang.org/grpc/encoding.Codec.
type Codec struct{}

// Marshal encodes a kaikosdk message.
func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(marshaler)
	if !ok {
		return nil, fmt.Errorf("wire: cannot marshal %T", v)
	}
	return m.appendWire(nil), nil
}

// Unmarshal decodes data into a kaikosdk message pointer.
func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(unmarshaler)
	if !ok {
		return fmt.Errorf("wire: cannot unmarshal into %T", v)
	}
	if err := m.unmarshalWire(data); err != nil {
		return fmt.Errorf("wire: decode %T: %w", v, err)
	}
	return nil
}

// Name returns the content-subtype of the codec.
func (Codec) Name() string {
	return CodecName
}

// -----------------------------------------------------------------------------
// encoding helpers
// -----------------------------------------------------------------------------

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendMessage(b []byte, num protowire.Number, m marshaler) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

func appendTimestamp(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	// timestamppb.New never produces an invalid message for a valid time.Time
	raw, _ := proto.Marshal(timestamppb.New(t))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

// -----------------------------------------------------------------------------
// decoding helpers
// -----------------------------------------------------------------------------

// field is one decoded top-level field. Only the value matching typ is set.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	bytes []byte
	fixed uint64
}

// walkFields calls fn for every length-delimited and fixed64 field of b.
// Other wire types are skipped so newer schema revisions stay readable.
func walkFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.Fixed64Type:
			f.fixed, n = protowire.ConsumeFixed64(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) string() (string, error) {
	if f.typ != protowire.BytesType {
		return "", fmt.Errorf("field %d: expected bytes, got wire type %d", f.num, f.typ)
	}
	return string(f.bytes), nil
}

func (f field) double() (float64, error) {
	if f.typ != protowire.Fixed64Type {
		return 0, fmt.Errorf("field %d: expected fixed64, got wire type %d", f.num, f.typ)
	}
	return math.Float64frombits(f.fixed), nil
}

func (f field) timestamp() (time.Time, error) {
	if f.typ != protowire.BytesType {
		return time.Time{}, fmt.Errorf("field %d: expected bytes, got wire type %d", f.num, f.typ)
	}
	ts := &timestamppb.Timestamp{}
	if err := proto.Unmarshal(f.bytes, ts); err != nil {
		return time.Time{}, fmt.Errorf("field %d: %w", f.num, err)
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("field %d: %w", f.num, err)
	}
	return ts.AsTime(), nil
}

// stringFields assigns each known string field number to its destination.
func stringFields(dst map[protowire.Number]*string) func(f field) (bool, error) {
	return func(f field) (bool, error) {
		p, ok := dst[f.num]
		if !ok {
			return false, nil
		}
		s, err := f.string()
		if err != nil {
			return true, err
		}
		*p = s
		return true, nil
	}
}
