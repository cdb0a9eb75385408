package broker

import "time"

// Envelope is the wire shape of every event on the exchange.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

type Meta struct {
	CorrelationID *string `json:"correlation_id,omitempty"`
	// Unique event ID; consumers deduplicate on it.
	ID       string    `json:"id"`
	Producer *string   `json:"producer,omitempty"`
	Time     time.Time `json:"time"`
	// Event name and version, e.g. chat.created.v1
	Type string `json:"type"`
}
