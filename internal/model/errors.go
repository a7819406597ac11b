package model

import "errors"

// Common errors used across the application
var (
	// Admission errors: surfaced to the initiating connection as a declined
	// login, with no state mutated.
	ErrTableNotFound     = errors.New("table not found")
	ErrTableFull         = errors.New("table is full")
	ErrReferralRequired  = errors.New("a referral code is required to enter as a spirit")
	ErrInvalidReferral   = errors.New("referral code is not valid")
	ErrReferralExhausted = errors.New("referral code has no remaining uses")
	ErrSponsorGone       = errors.New("referral sponsor is no longer seated")

	// Reconnection errors: surfaced as a declined reconnect; the caller
	// falls back to a fresh login.
	ErrSeatTaken = errors.New("grandfather seat is held by another participant")

	// Referral issuance errors
	ErrReferralLimit = errors.New("referral issuance limit reached")
	ErrNotASon       = errors.New("participant is not a son")

	// Participant errors
	ErrParticipantNotFound = errors.New("participant not found")
	ErrSeatInvalid         = errors.New("seating would violate table invariants")
	ErrNameRequired        = errors.New("a display name is required")

	// Gift actions from the wrong seat or state are absorbed as no-ops
	// rather than failed, so the protocol has no errors of its own.

	// Split invariant violations are fatal to the operation: the split is
	// refused outright rather than leaving half-built child tables.
	ErrSplitInvariant = errors.New("table roster cannot be split")
	ErrAlreadySplit   = errors.New("table has already split")

	// Admin errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrTablesExist        = errors.New("a table already exists")
)
