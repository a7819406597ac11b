package model

import "time"

// ChatMessage is one entry in a table's append-only history. The history is
// discarded wholesale when its table is destroyed; chat is ephemeral by
// policy, not persisted anywhere else.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Role      Role      `json:"role,omitempty"` // empty for system and admin messages
	Text      string    `json:"text"`
	IsSystem  bool      `json:"is_system"`
	IsAdmin   bool      `json:"is_admin"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemSender is the sender name stamped on system-generated messages.
const SystemSender = "System"

// AdminSender is the sender name for admin messages not sent under a table
// persona.
const AdminSender = "Administrator"
