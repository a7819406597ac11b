package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/dependencies/clock"
	"github.com/mkarpov/giftcircle/internal/dependencies/random"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/chat"
	"github.com/mkarpov/giftcircle/internal/services/referral"
	"github.com/mkarpov/giftcircle/internal/services/table"
	"github.com/mkarpov/giftcircle/internal/storage"
)

const (
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	participantIDLength = 16
	firstTableID        = model.TableID("table1")
)

// Grandfather personas for tables that split off without a live grandfather.
var grandfatherNamePool = []string{
	"Grandfather Frost",
	"Father Christmas",
	"Saint Nicholas",
	"Old Man Winter",
	"Kris Kringle",
	"Joulupukki",
}

// Session binds an issued token to a seated participant. Sessions live only
// as long as the process, like the connections they stand in for.
type Session struct {
	Token         string
	ParticipantID model.ParticipantID
	DisplayName   string
	TableID       model.TableID
}

// Orchestrator is the single entry point for every state-changing event in
// the game. One mutex serializes all of them, so each event observes the
// full effect of every earlier event and interleaving cannot corrupt a
// table mid-split.
type Orchestrator struct {
	mu sync.Mutex

	tables      *table.Registry
	referrals   *referral.Registry
	chat        *chat.Service
	storage     storage.Storage
	broadcaster *broadcast.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	sessions      map[string]*Session
	byParticipant map[model.ParticipantID]*Session
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	tables *table.Registry,
	referrals *referral.Registry,
	chatSvc *chat.Service,
	store storage.Storage,
	broadcaster *broadcast.Broadcaster,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		tables:        tables,
		referrals:     referrals,
		chat:          chatSvc,
		storage:       store,
		broadcaster:   broadcaster,
		clock:         clk,
		random:        rnd,
		logger:        logger.With(slog.String("component", "session")),
		sessions:      make(map[string]*Session),
		byParticipant: make(map[model.ParticipantID]*Session),
	}
}

// LoginResult is what a successful admission or reconnect hands back.
type LoginResult struct {
	Token         string
	ParticipantID model.ParticipantID
	Role          model.Role
	Table         broadcast.TableView
	ChatHistory   []model.ChatMessage
	GiftSent      bool
	GiftConfirmed bool
}

// ReconnectRequest carries the identity a returning client saved from its
// previous session.
type ReconnectRequest struct {
	Name          string
	Role          model.Role
	TableID       model.TableID
	GiftSent      bool
	GiftConfirmed bool
}

// GetSession resolves a token, or model.ErrInvalidSession. The returned
// session is a snapshot: the orchestrator rebinds the live one at split time,
// so callers must not read a stale copy expecting updates.
func (o *Orchestrator) GetSession(token string) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[token]
	if !ok {
		return nil, model.ErrInvalidSession
	}
	snapshot := *sess
	return &snapshot, nil
}

// Login admits a new participant. The role is dictated entirely by the
// target table's roster: the first arrival seats as grandfather, the second
// as father, the next two as sons, and everyone after that needs a referral
// code to take a spirit seat.
func (o *Orchestrator) Login(ctx context.Context, name, referralCode string) (*LoginResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	target, err := o.pickTable(ctx, referralCode)
	if err != nil {
		return nil, err
	}

	role, err := roleForRoster(target)
	if err != nil {
		return nil, err
	}

	p := model.Participant{
		ID:          model.ParticipantID("p-" + o.random.String(participantIDLength, tokenAlphabet)),
		DisplayName: name,
		Role:        role,
	}

	if role == model.RoleSpirit {
		sponsorID, err := o.redeemReferral(ctx, target, referralCode)
		if err != nil {
			return nil, err
		}
		p.SponsorID = sponsorID
	}

	updated, err := o.tables.Seat(ctx, target.ID, p)
	if err != nil {
		return nil, err
	}

	sess := o.createSession(p.ID, name, updated.ID)

	o.logger.Info("participant admitted",
		slog.String("participant_id", string(p.ID)),
		slog.String("table_id", string(updated.ID)),
		slog.String("role", string(role)),
	)

	o.announceArrival(ctx, updated, name, role)
	o.pushAdminState(ctx)

	history, err := o.chat.History(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:         sess.Token,
		ParticipantID: p.ID,
		Role:          role,
		Table:         broadcast.NewTableView(updated),
		ChatHistory:   history,
	}, nil
}

// Reconnect reseats a returning participant using the identity their client
// saved. The stale seat matching their name and role is vacated first; gift
// protocol state survives the round trip.
func (o *Orchestrator) Reconnect(ctx context.Context, req ReconnectRequest) (*LoginResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	target, err := o.tables.Get(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	// Vacate the seat the disconnected incarnation held, matched by name
	// and role. Two participants sharing both is indistinguishable here;
	// arrival order breaks the tie.
	var stale *model.Participant
	for i := range target.Participants {
		cand := &target.Participants[i]
		if cand.DisplayName == name && cand.Role == req.Role && !cand.IsAdmin {
			stale = cand
			break
		}
	}

	if stale != nil {
		target, _, err = o.tables.Unseat(ctx, target.ID, stale.ID)
		if err != nil {
			return nil, err
		}
		o.dropSessionByParticipant(stale.ID)
	} else if req.Role == model.RoleGrandfather && target.Grandfather() != nil {
		return nil, model.ErrSeatTaken
	}

	if !target.CanSeat(req.Role) {
		return nil, model.ErrSeatTaken
	}

	p := model.Participant{
		ID:          model.ParticipantID("p-" + o.random.String(participantIDLength, tokenAlphabet)),
		DisplayName: name,
		Role:        req.Role,
	}
	if req.Role == model.RoleSpirit {
		p.GiftSent = req.GiftSent
		p.GiftConfirmed = req.GiftConfirmed
		if stale != nil {
			p.SponsorID = stale.SponsorID
			p.GiftSent = p.GiftSent || stale.GiftSent
			p.GiftConfirmed = p.GiftConfirmed || stale.GiftConfirmed
		}
	}
	if stale != nil {
		p.CanGenerateReferrals = stale.CanGenerateReferrals
	}

	updated, err := o.tables.Seat(ctx, target.ID, p)
	if err != nil {
		return nil, err
	}

	sess := o.createSession(p.ID, name, updated.ID)

	o.logger.Info("participant reconnected",
		slog.String("participant_id", string(p.ID)),
		slog.String("table_id", string(updated.ID)),
		slog.String("role", string(req.Role)),
	)

	o.broadcaster.TableUpdate(updated)
	o.pushAdminState(ctx)

	history, err := o.chat.History(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:         sess.Token,
		ParticipantID: p.ID,
		Role:          p.Role,
		Table:         broadcast.NewTableView(updated),
		ChatHistory:   history,
		GiftSent:      p.GiftSent,
		GiftConfirmed: p.GiftConfirmed,
	}, nil
}

// Disconnect vacates the session's seat and forgets the session. The seat
// simply opens up again; the gift protocol does not roll back.
func (o *Orchestrator) Disconnect(ctx context.Context, token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[token]
	if !ok {
		return model.ErrInvalidSession
	}
	o.dropSession(sess)

	updated, removed, err := o.tables.Unseat(ctx, sess.TableID, sess.ParticipantID)
	if err != nil {
		// The table or seat may already be gone (split, kick). The session
		// is dropped either way.
		o.logger.Info("disconnect with no seat to vacate",
			slog.String("participant_id", string(sess.ParticipantID)))
		return nil
	}

	o.logger.Info("participant departed",
		slog.String("participant_id", string(sess.ParticipantID)),
		slog.String("table_id", string(sess.TableID)),
	)

	if msg, err := o.chat.AppendSystem(ctx, updated.ID, removed.DisplayName+" left the table"); err == nil {
		o.broadcaster.ChatMessage(updated.ID, msg)
	}
	o.broadcaster.TableUpdate(updated)
	o.pushAdminState(ctx)
	return nil
}

// Chat relays a participant's message to their table.
func (o *Orchestrator) Chat(ctx context.Context, token, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[token]
	if !ok {
		return model.ErrInvalidSession
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	t, err := o.tables.Get(ctx, sess.TableID)
	if err != nil {
		return err
	}
	p := t.GetParticipant(sess.ParticipantID)
	if p == nil {
		return model.ErrParticipantNotFound
	}

	msg, err := o.chat.AppendUser(ctx, t.ID, p.DisplayName, p.Role, text)
	if err != nil {
		return err
	}
	o.broadcaster.ChatMessage(t.ID, msg)
	return nil
}

// pickTable resolves the table a login targets. A resolvable referral code
// pins the join to the code's origin table; anything else, including a code
// nobody issued, falls back to walk-up selection, so a typo'd code still
// seats its holder while pre-spirit tiers are open. The code itself is only
// judged once a spirit seat is what the roster offers.
func (o *Orchestrator) pickTable(ctx context.Context, referralCode string) (*model.Table, error) {
	if referralCode != "" {
		tableID, err := o.referrals.FindOriginTable(ctx, referralCode)
		if err == nil {
			return o.tables.Get(ctx, tableID)
		}
		if !errors.Is(err, model.ErrInvalidReferral) {
			return nil, err
		}
	}

	tables, err := o.tables.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, model.ErrTableNotFound
	}

	var open *model.Table
	for _, t := range sortTables(tables) {
		if t.IsFull() {
			continue
		}
		if open == nil {
			open = t
		}
		if len(t.Participants) <= model.TableCapacity-model.MaxSpirits-1 {
			return t, nil
		}
	}

	if open != nil {
		if referralCode != "" {
			// Spirit seats only; redemption decides whether the code holds.
			return open, nil
		}
		return nil, model.ErrReferralRequired
	}
	return nil, model.ErrTableFull
}

// redeemReferral validates and consumes a code against its origin table,
// returning the sponsoring son's ID.
func (o *Orchestrator) redeemReferral(ctx context.Context, target *model.Table, code string) (model.ParticipantID, error) {
	if code == "" {
		return "", model.ErrReferralRequired
	}

	ref, err := o.referrals.Lookup(ctx, code)
	if err != nil {
		return "", err
	}
	if ref.RemainingUses <= 0 {
		return "", model.ErrReferralExhausted
	}
	if ref.TableID != target.ID {
		return "", model.ErrInvalidReferral
	}
	if target.GetParticipant(ref.SponsorID) == nil {
		return "", model.ErrSponsorGone
	}

	if err := o.referrals.Consume(ctx, code); err != nil {
		return "", err
	}
	return ref.SponsorID, nil
}

func (o *Orchestrator) announceArrival(ctx context.Context, t *model.Table, name string, role model.Role) {
	if msg, err := o.chat.AppendSystem(ctx, t.ID, name+" joined the table as "+string(role)); err == nil {
		o.broadcaster.ChatMessage(t.ID, msg)
	}
	o.broadcaster.TableUpdate(t)
}

func (o *Orchestrator) createSession(pid model.ParticipantID, name string, tableID model.TableID) *Session {
	sess := &Session{
		Token:         o.random.String(tokenLength, tokenAlphabet),
		ParticipantID: pid,
		DisplayName:   name,
		TableID:       tableID,
	}
	o.sessions[sess.Token] = sess
	o.byParticipant[pid] = sess
	return sess
}

func (o *Orchestrator) dropSession(sess *Session) {
	delete(o.sessions, sess.Token)
	if o.byParticipant[sess.ParticipantID] == sess {
		delete(o.byParticipant, sess.ParticipantID)
	}
}

func (o *Orchestrator) dropSessionByParticipant(pid model.ParticipantID) {
	if sess, ok := o.byParticipant[pid]; ok {
		o.dropSession(sess)
	}
}

// roleForRoster maps a table's roster size onto the admission ladder.
func roleForRoster(t *model.Table) (model.Role, error) {
	n := len(t.Participants)
	switch {
	case n == 0:
		return model.RoleGrandfather, nil
	case n == 1 && t.Grandfather() != nil:
		return model.RoleFather, nil
	case n <= model.MaxGrandfathers+model.MaxFathers+model.MaxSons-1:
		return model.RoleSon, nil
	case n < model.TableCapacity:
		return model.RoleSpirit, nil
	default:
		return "", model.ErrTableFull
	}
}

// sortTables orders tables oldest-first, with the ID as a stable tie-break.
func sortTables(tables map[model.TableID]*model.Table) []*model.Table {
	out := make([]*model.Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
