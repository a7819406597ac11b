package broadcast

import (
	"github.com/mkarpov/giftcircle/internal/model"
)

// SSE event names
const (
	EventTableUpdate       = "tableUpdate"
	EventChatMessage       = "chatMessage"
	EventTableSplit        = "tableSplit"
	EventGiftConfirmed     = "giftConfirmed"
	EventReferralGenerated = "referralGenerated"
	EventKicked            = "kicked"
	EventAdminTablesUpdate = "adminTablesUpdate"
	EventAdminStatsUpdate  = "adminStatsUpdate"
	EventAdminLog          = "adminLog"
	EventAdminTableJoined  = "adminTableJoined"
)

// ParticipantView is the wire shape of a seated participant
type ParticipantView struct {
	ID                   model.ParticipantID `json:"id"`
	Name                 string              `json:"name"`
	Role                 model.Role          `json:"role"`
	IsAdmin              bool                `json:"is_admin"`
	GiftSent             bool                `json:"gift_sent"`
	GiftConfirmed        bool                `json:"gift_confirmed"`
	CanGenerateReferrals bool                `json:"can_generate_referrals"`
}

// TableView is the wire shape of a table roster
type TableView struct {
	ID           model.TableID     `json:"id"`
	Status       model.TableStatus `json:"status"`
	Participants []ParticipantView `json:"participants"`
}

// TableSplitNotice tells one participant where the split landed them
type TableSplitNotice struct {
	Table                TableView  `json:"table"`
	Role                 model.Role `json:"role"`
	CanGenerateReferrals bool       `json:"can_generate_referrals"`
	Message              string     `json:"message"`
}

// GiftConfirmedNotice acknowledges a confirmed gift to its sender
type GiftConfirmedNotice struct {
	SpiritID   model.ParticipantID `json:"spirit_id"`
	SpiritName string              `json:"spirit_name"`
}

// ReferralNotice carries a freshly issued code to its sponsor
type ReferralNotice struct {
	Code          string        `json:"code"`
	RemainingUses int           `json:"remaining_uses"`
	TableID       model.TableID `json:"table_id"`
}

// KickedNotice tells a participant they were removed
type KickedNotice struct {
	Reason string `json:"reason"`
}

// AdminTableSummary is one row of the admin overview
type AdminTableSummary struct {
	ID                  model.TableID     `json:"id"`
	Status              model.TableStatus `json:"status"`
	ParticipantCount    int               `json:"participant_count"`
	HasAdminGrandfather bool              `json:"has_admin_grandfather"`
	Participants        []ParticipantView `json:"participants"`
}

// AdminTableJoinedNotice is sent to an admin who attached to a table
type AdminTableJoinedNotice struct {
	Table       TableView           `json:"table"`
	ChatHistory []model.ChatMessage `json:"chat_history"`
}

// NewParticipantView projects a participant onto its wire shape
func NewParticipantView(p model.Participant) ParticipantView {
	return ParticipantView{
		ID:                   p.ID,
		Name:                 p.DisplayName,
		Role:                 p.Role,
		IsAdmin:              p.IsAdmin,
		GiftSent:             p.GiftSent,
		GiftConfirmed:        p.GiftConfirmed,
		CanGenerateReferrals: p.CanGenerateReferrals,
	}
}

// NewTableView projects a table onto its wire shape
func NewTableView(table *model.Table) TableView {
	views := make([]ParticipantView, 0, len(table.Participants))
	for _, p := range table.Participants {
		views = append(views, NewParticipantView(p))
	}
	return TableView{
		ID:           table.ID,
		Status:       table.Status,
		Participants: views,
	}
}

// NewAdminTableSummary projects a table onto its admin overview row
func NewAdminTableSummary(table *model.Table) AdminTableSummary {
	view := NewTableView(table)
	return AdminTableSummary{
		ID:                  table.ID,
		Status:              table.Status,
		ParticipantCount:    len(table.Participants),
		HasAdminGrandfather: table.HasAdminGrandfather(),
		Participants:        view.Participants,
	}
}
