package model

// Message is a post in a room. Timestamp is Unix milliseconds.
//
// Author holds the posting session's id and is never serialized; it becomes
// nil once that session is reclaimed.
type Message struct {
	ID        int64   `json:"id"`
	RoomID    int64   `json:"-"`
	Content   string  `json:"content"`
	Timestamp int64   `json:"timestamp"`
	Author    *string `json:"-"`
	ReplyTo   *int64  `json:"replyTo"`
}

// Updates is the answer to a poll.
type Updates struct {
	ResetRequired bool      `json:"resetRequired"`
	Messages      []Message `json:"messages"`
}
