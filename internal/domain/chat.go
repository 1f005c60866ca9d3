package domain

import "time"

// ChatReply is the assistant's answer to a single user message.
type ChatReply struct {
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
