// Package request defines the JSON request bodies accepted by the API.
package request

import "github.com/mkarpov/giftcircle/internal/model"

// Login is the body of POST /api/v1/login
type Login struct {
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// Reconnect is the body of POST /api/v1/reconnect. It carries the identity
// the client saved from its previous session.
type Reconnect struct {
	Name          string        `json:"name"`
	Role          model.Role    `json:"role"`
	TableID       model.TableID `json:"table_id"`
	GiftSent      bool          `json:"gift_sent,omitempty"`
	GiftConfirmed bool          `json:"gift_confirmed,omitempty"`
}

// ConfirmGift is the body of POST /api/v1/gift/confirm
type ConfirmGift struct {
	SpiritID model.ParticipantID `json:"spirit_id"`
}

// Chat is the body of POST /api/v1/chat and /api/v1/admin/tables/{id}/chat.
// AsTablePersona is only honored on the admin endpoint: it asks for the
// message to be voiced by the table's synthesized host.
type Chat struct {
	Text           string `json:"text"`
	AsTablePersona bool   `json:"as_table_persona,omitempty"`
}

// AdminReferral is the body of POST /api/v1/admin/tables/{id}/referrals
type AdminReferral struct {
	SponsorID model.ParticipantID `json:"sponsor_id"`
}

// AdminLogin is the body of POST /api/v1/admin/login
type AdminLogin struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
