// Package wire holds the Go side of proto/kaikosdk.proto: request and response
// messages, their protobuf binary codec and the gRPC stubs of the three
// streaming services.
package wire

import (
	"time"

	"easykaiko/src/models"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a server-pushed response of any stream type.
type Message interface {
	GetStreamType() models.MStreamType
	GetExchange() string
	GetClass() string
	GetCode() string
	GetTimestamp() time.Time
}

// -----------------------------------------------------------------------------

type InstrumentCriteria struct {
	Exchange        string `json:"exchange"`
	InstrumentClass string `json:"instrument_class"`
	Code            string `json:"code"`
}

// NewInstrumentCriteria converts the model criteria to its wire form.
func NewInstrumentCriteria(c models.MInstrumentCriteria) *InstrumentCriteria {
	return &InstrumentCriteria{
		Exchange:        c.Exchange,
		InstrumentClass: c.InstrumentClass,
		Code:            c.Code,
	}
}

func (m *InstrumentCriteria) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Exchange)
	b = appendString(b, 2, m.InstrumentClass)
	return appendString(b, 3, m.Code)
}

func (m *InstrumentCriteria) unmarshalWire(b []byte) error {
	assign := stringFields(map[protowire.Number]*string{
		1: &m.Exchange,
		2: &m.InstrumentClass,
		3: &m.Code,
	})
	return walkFields(b, func(f field) error {
		_, err := assign(f)
		return err
	})
}

// criteriaField decodes an embedded InstrumentCriteria.
func criteriaField(f field) (*InstrumentCriteria, error) {
	c := &InstrumentCriteria{}
	if err := c.unmarshalWire(f.bytes); err != nil {
		return nil, err
	}
	return c, nil
}

// -----------------------------------------------------------------------------
// OHLCV
// -----------------------------------------------------------------------------

type StreamAggregatesOHLCVRequestV1 struct {
	InstrumentCriteria *InstrumentCriteria `json:"instrument_criteria"`
	Aggregate          string              `json:"aggregate"`
}

func (m *StreamAggregatesOHLCVRequestV1) appendWire(b []byte) []byte {
	if m.InstrumentCriteria != nil {
		b = appendMessage(b, 1, m.InstrumentCriteria)
	}
	return appendString(b, 2, m.Aggregate)
}

func (m *StreamAggregatesOHLCVRequestV1) unmarshalWire(b []byte) error {
	return walkFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.InstrumentCriteria, err = criteriaField(f)
		case 2:
			m.Aggregate, err = f.string()
		}
		return err
	})
}

type StreamAggregatesOHLCVResponseV1 struct {
	Aggregate  string    `json:"aggregate"`
	Class      string    `json:"class"`
	Close      string    `json:"close"`
	Code       string    `json:"code"`
	Exchange   string    `json:"exchange"`
	High       string    `json:"high"`
	Low        string    `json:"low"`
	Open       string    `json:"open"`
	SequenceId string    `json:"sequence_id"`
	Timestamp  time.Time `json:"timestamp"`
	Uid        string    `json:"uid"`
	Volume     string    `json:"volume"`
}

func (m *StreamAggregatesOHLCVResponseV1) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Aggregate)
	b = appendString(b, 2, m.Class)
	b = appendString(b, 3, m.Close)
	b = appendString(b, 4, m.Code)
	b = appendString(b, 5, m.Exchange)
	b = appendString(b, 6, m.High)
	b = appendString(b, 7, m.Low)
	b = appendString(b, 8, m.Open)
	b = appendString(b, 9, m.SequenceId)
	b = appendTimestamp(b, 10, m.Timestamp)
	b = appendString(b, 11, m.Uid)
	return appendString(b, 12, m.Volume)
}

func (m *StreamAggregatesOHLCVResponseV1) unmarshalWire(b []byte) error {
	assign := stringFields(map[protowire.Number]*string{
		1: &m.Aggregate, 2: &m.Class, 3: &m.Close, 4: &m.Code,
		5: &m.Exchange, 6: &m.High, 7: &m.Low, 8: &m.Open,
		9: &m.SequenceId, 11: &m.Uid, 12: &m.Volume,
	})
	return walkFields(b, func(f field) (err error) {
		if f.num == 10 {
			m.Timestamp, err = f.timestamp()
			return err
		}
		_, err = assign(f)
		return err
	})
}

func (m *StreamAggregatesOHLCVResponseV1) GetStreamType() models.MStreamType {
	return models.StreamTypeOHLCV
}

func (m *StreamAggregatesOHLCVResponseV1) GetExchange() string {
	if m == nil {
		return ""
	}
	return m.Exchange
}

func (m *StreamAggregatesOHLCVResponseV1) GetClass() string {
	if m == nil {
		return ""
	}
	return m.Class
}

func (m *StreamAggregatesOHLCVResponseV1) GetCode() string {
	if m == nil {
		return ""
	}
	return m.Code
}

func (m *StreamAggregatesOHLCVResponseV1) GetTimestamp() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.Timestamp
}

// -----------------------------------------------------------------------------
// VWAP
// -----------------------------------------------------------------------------

type StreamAggregatesVWAPRequestV1 struct {
	InstrumentCriteria *InstrumentCriteria `json:"instrument_criteria"`
	Aggregate          string              `json:"aggregate"`
}

func (m *StreamAggregatesVWAPRequestV1) appendWire(b []byte) []byte {
	if m.InstrumentCriteria != nil {
		b = appendMessage(b, 1, m.InstrumentCriteria)
	}
	return appendString(b, 2, m.Aggregate)
}

func (m *StreamAggregatesVWAPRequestV1) unmarshalWire(b []byte) error {
	return walkFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.InstrumentCriteria, err = criteriaField(f)
		case 2:
			m.Aggregate, err = f.string()
		}
		return err
	})
}

type StreamAggregatesVWAPResponseV1 struct {
	Aggregate  string    `json:"aggregate"`
	Class      string    `json:"class"`
	Code       string    `json:"code"`
	Exchange   string    `json:"exchange"`
	Price      float64   `json:"price"`
	SequenceId string    `json:"sequence_id"`
	Timestamp  time.Time `json:"timestamp"`
	Uid        string    `json:"uid"`
}

func (m *StreamAggregatesVWAPResponseV1) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Aggregate)
	b = appendString(b, 2, m.Class)
	b = appendString(b, 3, m.Code)
	b = appendString(b, 4, m.Exchange)
	b = appendDouble(b, 5, m.Price)
	b = appendString(b, 6, m.SequenceId)
	b = appendTimestamp(b, 7, m.Timestamp)
	return appendString(b, 8, m.Uid)
}

func (m *StreamAggregatesVWAPResponseV1) unmarshalWire(b []byte) error {
	assign := stringFields(map[protowire.Number]*string{
		1: &m.Aggregate, 2: &m.Class, 3: &m.Code, 4: &m.Exchange,
		6: &m.SequenceId, 8: &m.Uid,
	})
	return walkFields(b, func(f field) (err error) {
		switch f.num {
		case 5:
			m.Price, err = f.double()
		case 7:
			m.Timestamp, err = f.timestamp()
		default:
			_, err = assign(f)
		}
		return err
	})
}

func (m *StreamAggregatesVWAPResponseV1) GetStreamType() models.MStreamType {
	return models.StreamTypeVWAP
}

func (m *StreamAggregatesVWAPResponseV1) GetExchange() string {
	if m == nil {
		return ""
	}
	return m.Exchange
}

func (m *StreamAggregatesVWAPResponseV1) GetClass() string {
	if m == nil {
		return ""
	}
	return m.Class
}

func (m *StreamAggregatesVWAPResponseV1) GetCode() string {
	if m == nil {
		return ""
	}
	return m.Code
}

func (m *StreamAggregatesVWAPResponseV1) GetTimestamp() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.Timestamp
}

// -----------------------------------------------------------------------------
// Trades
// -----------------------------------------------------------------------------

type StreamTradesRequestV1 struct {
	InstrumentCriteria *InstrumentCriteria `json:"instrument_criteria"`
}

func (m *StreamTradesRequestV1) appendWire(b []byte) []byte {
	if m.InstrumentCriteria != nil {
		b = appendMessage(b, 1, m.InstrumentCriteria)
	}
	return b
}

func (m *StreamTradesRequestV1) unmarshalWire(b []byte) error {
	return walkFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.InstrumentCriteria, err = criteriaField(f)
		}
		return err
	})
}

type StreamTradesResponseV1 struct {
	Aggregate  string    `json:"aggregate"`
	Amount     string    `json:"amount"`
	Class      string    `json:"class"`
	Code       string    `json:"code"`
	Exchange   string    `json:"exchange"`
	Price      string    `json:"price"`
	SequenceId string    `json:"sequence_id"`
	Side       string    `json:"side"`
	Timestamp  time.Time `json:"timestamp"`
	TradeId    string    `json:"trade_id"`
}

func (m *StreamTradesResponseV1) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Aggregate)
	b = appendString(b, 2, m.Amount)
	b = appendString(b, 3, m.Class)
	b = appendString(b, 4, m.Code)
	b = appendString(b, 5, m.Exchange)
	b = appendString(b, 6, m.Price)
	b = appendString(b, 7, m.SequenceId)
	b = appendString(b, 8, m.Side)
	b = appendTimestamp(b, 9, m.Timestamp)
	return appendString(b, 10, m.TradeId)
}

func (m *StreamTradesResponseV1) unmarshalWire(b []byte) error {
	assign := stringFields(map[protowire.Number]*string{
		1: &m.Aggregate, 2: &m.Amount, 3: &m.Class, 4: &m.Code,
		5: &m.Exchange, 6: &m.Price, 7: &m.SequenceId, 8: &m.Side,
		10: &m.TradeId,
	})
	return walkFields(b, func(f field) (err error) {
		if f.num == 9 {
			m.Timestamp, err = f.timestamp()
			return err
		}
		_, err = assign(f)
		return err
	})
}

func (m *StreamTradesResponseV1) GetStreamType() models.MStreamType {
	return models.StreamTypeTrades
}

func (m *StreamTradesResponseV1) GetExchange() string {
	if m == nil {
		return ""
	}
	return m.Exchange
}

func (m *StreamTradesResponseV1) GetClass() string {
	if m == nil {
		return ""
	}
	return m.Class
}

func (m *StreamTradesResponseV1) GetCode() string {
	if m == nil {
		return ""
	}
	return m.Code
}

func (m *StreamTradesResponseV1) GetTimestamp() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.Timestamp
}
