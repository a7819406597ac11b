// Package response defines the JSON bodies the API returns.
package response

import (
	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/session"
)

// Login is returned by POST /api/v1/login and /api/v1/reconnect
type Login struct {
	Token         string              `json:"token"`
	ParticipantID model.ParticipantID `json:"participant_id"`
	Role          model.Role          `json:"role"`
	Table         broadcast.TableView `json:"table"`
	ChatHistory   []model.ChatMessage `json:"chat_history"`
	GiftSent      bool                `json:"gift_sent"`
	GiftConfirmed bool                `json:"gift_confirmed"`
}

// LoginFromResult projects an admission result onto the wire.
func LoginFromResult(res *session.LoginResult) Login {
	return Login{
		Token:         res.Token,
		ParticipantID: res.ParticipantID,
		Role:          res.Role,
		Table:         res.Table,
		ChatHistory:   res.ChatHistory,
		GiftSent:      res.GiftSent,
		GiftConfirmed: res.GiftConfirmed,
	}
}

// Referral is returned when a referral code is issued
type Referral struct {
	Code          string        `json:"code"`
	RemainingUses int           `json:"remaining_uses"`
	TableID       model.TableID `json:"table_id"`
	AdminIssued   bool          `json:"admin_issued"`
}

// ReferralFromModel projects a referral code onto the wire.
func ReferralFromModel(ref *model.ReferralCode) Referral {
	return Referral{
		Code:          ref.Code,
		RemainingUses: ref.RemainingUses,
		TableID:       ref.TableID,
		AdminIssued:   ref.AdminIssued,
	}
}

// AdminLogin is returned by POST /api/v1/admin/login
type AdminLogin struct {
	Token string `json:"token"`
}

// AdminTable is returned when an operator attaches to a table
type AdminTable struct {
	Table       broadcast.TableView `json:"table"`
	ChatHistory []model.ChatMessage `json:"chat_history"`
}
