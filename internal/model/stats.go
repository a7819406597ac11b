package model

import "time"

// GameStats is the process-wide aggregate view pushed to admin observers.
// SplitTables and TotalParticipants are monotonic; the other two are derived
// from the live table set at read time.
type GameStats struct {
	ActiveTables       int `json:"active_tables"`
	SplitTables        int `json:"split_tables"`
	TotalParticipants  int `json:"total_participants"`
	SeatedParticipants int `json:"seated_participants"`
}

// AdminLogEntry is one line of the admin activity log, replayed to admins on
// login and fanned out live as entries are appended.
type AdminLogEntry struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}
