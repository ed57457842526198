package models

import (
	"encoding/json"
	"fmt"
)

// -----------------------------------------------------------------------------

// MStreamType is the logical stream type of a realtime subscription.
type MStreamType string

const (
	StreamTypeOHLCV  MStreamType = "ohlcv"
	StreamTypeVWAP   MStreamType = "vwap"
	StreamTypeTrades MStreamType = "trades"
)

// StreamTypes lists every supported stream type.
var StreamTypes = []MStreamType{StreamTypeOHLCV, StreamTypeVWAP, StreamTypeTrades}

// -----------------------------------------------------------------------------

// MInstrumentCriteria identifies a tradable instrument.
type MInstrumentCriteria struct {
	Exchange        string `yaml:"exchange" json:"exchange"`
	InstrumentClass string `yaml:"instrument_class" json:"instrument_class"`
	Code            string `yaml:"code" json:"code"`
}

// String renders the criteria as exchange/class/code.
func (c MInstrumentCriteria) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Exchange, c.InstrumentClass, c.Code)
}

// -----------------------------------------------------------------------------

// MPageEnvelope is one decoded REST response page.
// Data records are kept raw, their schema depends on the endpoint.
type MPageEnvelope struct {
	Result  string            `json:"result"`
	Message string            `json:"message,omitempty"`
	Data    []json.RawMessage `json:"data"`
	NextURL string            `json:"next_url,omitempty"`
}

const (
	ResultSuccess = "success"
	ResultError   = "error"
)
