package models

import "time"

// -----------------------------------------------------------------------------

// MStreamStatus represents the runtime status of one relayed subscription.
type MStreamStatus struct {
	Name        string              // configured stream name
	Type        MStreamType         // ohlcv, vwap, trades
	Instrument  MInstrumentCriteria // subscribed instrument
	Running     bool                // subscription loop alive
	SessionID   string              // id of the current subscription session
	Messages    uint64              // messages relayed since start
	Reconnects  int                 // resubscriptions after transport errors
	LastMessage time.Time
	LastError   string
}
