package model

import "time"

const (
	EventFriendAdded   = "friend.added"
	EventFriendRemoved = "friend.removed"
)

// FriendEvent is emitted after a friend set actually changed.
type FriendEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Address       string    `json:"address"`
	FriendAddress string    `json:"friendAddress"`
	OccurredAt    time.Time `json:"occurredAt"`
}
