package model

import "time"

// Remaining-use counts for freshly issued referral codes.
const (
	SelfIssuedReferralUses  = 1
	AdminIssuedReferralUses = 3

	// MaxReferralsPerSon caps self-service issuance. Consumed codes still
	// count until they are purged at split time.
	MaxReferralsPerSon = 2
)

// ReferralCode is an admission token sponsored by a Son, gating entry into
// the Spirit tier of the sponsor's table.
type ReferralCode struct {
	Code        string
	SponsorID   ParticipantID
	SponsorName string
	TableID     TableID

	// RemainingUses only ever decreases and never drops below zero. A code
	// at zero is inert but kept until its table's codes are purged.
	RemainingUses int

	AdminIssued bool
	IssuedAt    time.Time
}
