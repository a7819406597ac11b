package model

import "time"

// TableID identifies a table. Children of a split get "<parent>-1" and
// "<parent>-2".
type TableID string

// TableStatus is the lifecycle state of a table.
type TableStatus string

const (
	TableStatusWaiting TableStatus = "waiting" // still filling
	TableStatusActive  TableStatus = "active"  // all eight seats taken
	TableStatusSplit   TableStatus = "split"   // terminal; torn down
)

// TableCapacity is the total number of seats at a table.
const TableCapacity = 8

// Table is a bounded group of participants progressing through one cycle of
// the gift ritual. Participants are ordered by arrival.
type Table struct {
	ID           TableID
	Status       TableStatus
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetParticipant returns the seated participant with the given ID, or nil.
func (t *Table) GetParticipant(id ParticipantID) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

// Grandfather returns the table's grandfather, or nil if the seat is empty.
func (t *Table) Grandfather() *Participant {
	for i := range t.Participants {
		if t.Participants[i].Role == RoleGrandfather {
			return &t.Participants[i]
		}
	}
	return nil
}

// Father returns the table's father, or nil if the seat is empty.
func (t *Table) Father() *Participant {
	for i := range t.Participants {
		if t.Participants[i].Role == RoleFather {
			return &t.Participants[i]
		}
	}
	return nil
}

// Sons returns the table's sons in arrival order.
func (t *Table) Sons() []Participant {
	return t.withRole(RoleSon)
}

// Spirits returns the table's spirits in arrival order.
func (t *Table) Spirits() []Participant {
	return t.withRole(RoleSpirit)
}

func (t *Table) withRole(role Role) []Participant {
	var out []Participant
	for _, p := range t.Participants {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// CountRole returns the number of seated participants holding the role.
func (t *Table) CountRole(role Role) int {
	n := 0
	for i := range t.Participants {
		if t.Participants[i].Role == role {
			n++
		}
	}
	return n
}

// IsFull reports whether every seat is taken.
func (t *Table) IsFull() bool {
	return len(t.Participants) >= TableCapacity
}

// CanSeat reports whether seating a participant with the given role would
// keep the roster invariants: one grandfather, one father (only once a
// grandfather exists), two sons, four spirits, eight seats total.
func (t *Table) CanSeat(role Role) bool {
	if t.IsFull() {
		return false
	}
	switch role {
	case RoleGrandfather:
		return t.CountRole(RoleGrandfather) < MaxGrandfathers
	case RoleFather:
		return t.Grandfather() != nil && t.CountRole(RoleFather) < MaxFathers
	case RoleSon:
		return t.CountRole(RoleSon) < MaxSons
	case RoleSpirit:
		return t.CountRole(RoleSpirit) < MaxSpirits
	default:
		return false
	}
}

// HasAdminGrandfather reports whether an administrative participant holds
// the grandfather seat.
func (t *Table) HasAdminGrandfather() bool {
	gf := t.Grandfather()
	return gf != nil && gf.IsAdmin
}

// AllSpiritsSent reports whether the spirit tier is complete and every
// spirit has sent their gift.
func (t *Table) AllSpiritsSent() bool {
	spirits := t.Spirits()
	if len(spirits) != MaxSpirits {
		return false
	}
	for _, sp := range spirits {
		if !sp.GiftSent {
			return false
		}
	}
	return true
}

// AllSpiritsConfirmed reports whether the spirit tier is complete and every
// gift has been confirmed. This is the split trigger condition.
func (t *Table) AllSpiritsConfirmed() bool {
	spirits := t.Spirits()
	if len(spirits) != MaxSpirits {
		return false
	}
	for _, sp := range spirits {
		if !sp.GiftConfirmed {
			return false
		}
	}
	return true
}
