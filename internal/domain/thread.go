// internal/domain/thread.go
package domain

// Thread summarizes the conversation between a viewer and one peer. It is derived
// from the message log on every read and never stored.
type Thread struct {
	PeerID      int64   `json:"peer_id"`
	LastMessage Message `json:"last_message"`
	UnreadCount int64   `json:"unread_count"` // peer -> viewer messages not yet read
}
