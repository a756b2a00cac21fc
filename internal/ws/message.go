package ws

import "time"

// Message is the envelope for every frame pushed to stream subscribers.
// It mirrors the bus event verbatim: Topic names the event, Source the
// plugin that emitted it, and Data carries the topic-specific payload.
type Message struct {
	Topic     string    `json:"topic"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
