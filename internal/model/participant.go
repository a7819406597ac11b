package model

import "time"

// ParticipantID is the connection-bound identity of a participant. A
// participant that reconnects gets a fresh ID; the old one is dead.
type ParticipantID string

// Role is one of the four table tiers, in strict admission order.
type Role string

const (
	RoleGrandfather Role = "grandfather"
	RoleFather      Role = "father"
	RoleSon         Role = "son"
	RoleSpirit      Role = "spirit"
)

// Per-role seat capacities on a table.
const (
	MaxGrandfathers = 1
	MaxFathers      = 1
	MaxSons         = 2
	MaxSpirits      = 4
)

// Participant is a seated member of a table. Exactly one table owns a
// participant at any time.
type Participant struct {
	ID          ParticipantID
	DisplayName string
	Role        Role

	// IsAdmin marks synthesized or admin-seated grandfathers. Administrative
	// participants carry no live client connection, so broadcast and room
	// rebinding logic skips them.
	IsAdmin bool

	// Gift protocol state, meaningful only while Role is RoleSpirit.
	GiftSent      bool
	GiftConfirmed bool

	// SponsorID is the Son whose referral code admitted this Spirit.
	// Empty for all other roles.
	SponsorID ParticipantID

	// CanGenerateReferrals is granted to Sons promoted out of the Spirit
	// tier at split time.
	CanGenerateReferrals bool

	SeatedAt time.Time
}

// IsSpirit reports whether the participant occupies a Spirit seat.
func (p *Participant) IsSpirit() bool {
	return p.Role == RoleSpirit
}
