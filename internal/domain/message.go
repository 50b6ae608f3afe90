package domain

import "time"

const DefaultChannel = "general"

// Message is a persisted chat message. The ID is assigned by the message
// repository on append and is monotonically increasing within a channel.
// Messages are never mutated; the retention sweep eventually deletes them.
type Message struct {
	ID        int64      `json:"id"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	Origin    Coordinate `json:"origin"`
	Channel   string     `json:"channel"`
	CreatedAt time.Time  `json:"created_at"`
}
