// Package audit captures key account and wishlist actions. Events are emitted
// from domain logic, buffered in-process, and shipped to a sink by a worker so
// the request path never blocks on delivery.
package audit

import "time"

// Action identifies what happened.
type Action string

const (
	ActionUserCreated     Action = "user_created"
	ActionUserLogin       Action = "user_login"
	ActionUserLogout      Action = "user_logout"
	ActionWishlistAdded   Action = "wishlist_added"
	ActionWishlistRemoved Action = "wishlist_removed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	Method    string    `json:"method,omitempty"` // google | password
	GameID    int64     `json:"gameId,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Device    string    `json:"device,omitempty"`
}
