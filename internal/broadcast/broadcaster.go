package broadcast

import (
	"encoding/json"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/model"
)

// Broadcaster is the domain-facing face of the hub: services hand it model
// values and it takes care of projection, encoding, and routing.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "broadcaster")),
	}
}

// Hub exposes the underlying hub for stream registration.
func (b *Broadcaster) Hub() *Hub {
	return b.hub
}

// MoveSession rebinds a connected session to another table's room.
func (b *Broadcaster) MoveSession(sessionID string, tableID model.TableID) {
	b.hub.MoveSession(sessionID, TableRoom(tableID))
}

func (b *Broadcaster) encode(eventName string, payload any) (string, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to encode event payload",
			slog.String("event", eventName),
			slog.String("error", err.Error()))
		return "", false
	}
	return string(data), true
}

func (b *Broadcaster) toRoom(room RoomID, eventName string, payload any) {
	if data, ok := b.encode(eventName, payload); ok {
		b.hub.BroadcastRoom(room, eventName, data)
	}
}

func (b *Broadcaster) toSession(sessionID, eventName string, payload any) {
	if data, ok := b.encode(eventName, payload); ok {
		b.hub.SendToSession(sessionID, eventName, data)
	}
}

// TableUpdate pushes the current roster to everyone at the table.
func (b *Broadcaster) TableUpdate(table *model.Table) {
	b.toRoom(TableRoom(table.ID), EventTableUpdate, NewTableView(table))
}

// ChatMessage pushes a chat message to everyone at the table.
func (b *Broadcaster) ChatMessage(tableID model.TableID, msg model.ChatMessage) {
	b.toRoom(TableRoom(tableID), EventChatMessage, msg)
}

// TableSplit tells one participant where the split placed them.
func (b *Broadcaster) TableSplit(sessionID string, notice TableSplitNotice) {
	b.toSession(sessionID, EventTableSplit, notice)
}

// GiftConfirmed acknowledges a confirmed gift to the spirit who sent it.
func (b *Broadcaster) GiftConfirmed(sessionID string, notice GiftConfirmedNotice) {
	b.toSession(sessionID, EventGiftConfirmed, notice)
}

// ReferralGenerated delivers a fresh code to its sponsor.
func (b *Broadcaster) ReferralGenerated(sessionID string, notice ReferralNotice) {
	b.toSession(sessionID, EventReferralGenerated, notice)
}

// Kicked tells a participant they were removed from their table.
func (b *Broadcaster) Kicked(sessionID string, reason string) {
	b.toSession(sessionID, EventKicked, KickedNotice{Reason: reason})
}

// AdminTablesUpdate pushes the table overview to the admin room.
func (b *Broadcaster) AdminTablesUpdate(summaries []AdminTableSummary) {
	b.toRoom(AdminRoom, EventAdminTablesUpdate, summaries)
}

// AdminStatsUpdate pushes game statistics to the admin room.
func (b *Broadcaster) AdminStatsUpdate(stats model.GameStats) {
	b.toRoom(AdminRoom, EventAdminStatsUpdate, stats)
}

// AdminTablesUpdateTo pushes the table overview to one operator's stream.
func (b *Broadcaster) AdminTablesUpdateTo(sessionID string, summaries []AdminTableSummary) {
	b.toSession(sessionID, EventAdminTablesUpdate, summaries)
}

// AdminStatsUpdateTo pushes game statistics to one operator's stream.
func (b *Broadcaster) AdminStatsUpdateTo(sessionID string, stats model.GameStats) {
	b.toSession(sessionID, EventAdminStatsUpdate, stats)
}

// AdminLog pushes one log entry to the admin room.
func (b *Broadcaster) AdminLog(entry model.AdminLogEntry) {
	b.toRoom(AdminRoom, EventAdminLog, entry)
}

// AdminLogTo replays one log entry to a single admin session.
func (b *Broadcaster) AdminLogTo(sessionID string, entry model.AdminLogEntry) {
	b.toSession(sessionID, EventAdminLog, entry)
}

// AdminTableJoined confirms to one admin that they attached to a table.
func (b *Broadcaster) AdminTableJoined(sessionID string, notice AdminTableJoinedNotice) {
	b.toSession(sessionID, EventAdminTableJoined, notice)
}
