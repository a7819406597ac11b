package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/dependencies/mocks"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/chat"
	"github.com/mkarpov/giftcircle/internal/services/referral"
	"github.com/mkarpov/giftcircle/internal/services/table"
	"github.com/mkarpov/giftcircle/internal/storage/memory"
	"github.com/mkarpov/giftcircle/internal/testutil"
)

type OrchestratorSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	random    *mocks.MockRandom
	hub       *broadcast.Hub
	tables    *table.Registry
	referrals *referral.Registry
	orch      *Orchestrator
	ctx       context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}

func (s *OrchestratorSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.hub = broadcast.NewHub(logger)
	s.tables = table.NewRegistry(s.storage, s.clock, logger)
	s.referrals = referral.NewRegistry(s.storage, s.clock, s.random, logger)
	chatSvc := chat.NewService(s.storage, s.clock, logger)
	broadcaster := broadcast.NewBroadcaster(s.hub, logger)
	s.orch = NewOrchestrator(s.tables, s.referrals, chatSvc, s.storage, broadcaster, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// login admits a participant, failing the test on error.
func (s *OrchestratorSuite) login(name, code string) *LoginResult {
	res, err := s.orch.Login(s.ctx, name, code)
	s.Require().NoError(err)
	return res
}

// seatDirect uses a reconnect with no prior seat to place a participant with
// a chosen role, which regular admission cannot always produce.
func (s *OrchestratorSuite) seatDirect(name string, role model.Role, tableID model.TableID) *LoginResult {
	res, err := s.orch.Reconnect(s.ctx, ReconnectRequest{Name: name, Role: role, TableID: tableID})
	s.Require().NoError(err)
	return res
}

// buildFullTable assembles a complete eight-seat table with a player
// grandfather and returns every participant's login result keyed by name.
func (s *OrchestratorSuite) buildFullTable(id model.TableID) map[string]*LoginResult {
	_, err := s.tables.Create(s.ctx, id)
	s.Require().NoError(err)

	results := map[string]*LoginResult{}
	results["Greg"] = s.seatDirect("Greg", model.RoleGrandfather, id)
	results["Fiona"] = s.login("Fiona", "")
	s.Require().Equal(model.RoleFather, results["Fiona"].Role)
	results["Sam"] = s.login("Sam", "")
	results["Sonya"] = s.login("Sonya", "")
	s.Require().Equal(model.RoleSon, results["Sam"].Role)
	s.Require().Equal(model.RoleSon, results["Sonya"].Role)

	spirits := []string{"Wisp", "Shade", "Echo", "Glow"}
	sponsors := []string{"Sam", "Sam", "Sonya", "Sonya"}
	for i, name := range spirits {
		ref, err := s.orch.GenerateReferral(s.ctx, results[sponsors[i]].Token)
		s.Require().NoError(err)
		results[name] = s.login(name, ref.Code)
		s.Require().Equal(model.RoleSpirit, results[name].Role)
	}
	return results
}

// Admission tests

func (s *OrchestratorSuite) TestLoginRequiresName() {
	_, err := s.orch.Login(s.ctx, "   ", "")
	s.ErrorIs(err, model.ErrNameRequired)
}

func (s *OrchestratorSuite) TestLoginWithNoTables() {
	_, err := s.orch.Login(s.ctx, "Alice", "")
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *OrchestratorSuite) TestRolesFollowAdmissionLadder() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)

	s.Equal(model.RoleGrandfather, s.login("Greg", "").Role)
	s.Equal(model.RoleFather, s.login("Fiona", "").Role)
	s.Equal(model.RoleSon, s.login("Sam", "").Role)
	s.Equal(model.RoleSon, s.login("Sonya", "").Role)

	_, err = s.orch.Login(s.ctx, "Walkup", "")
	s.ErrorIs(err, model.ErrReferralRequired)
}

func (s *OrchestratorSuite) TestLoginAfterAdminFirstTable() {
	_, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	// The synthesized host holds the grandfather seat.
	res := s.login("Fiona", "")
	s.Equal(model.RoleFather, res.Role)
}

func (s *OrchestratorSuite) TestLoginWithUnresolvableCodeStillSeatsPreSpirit() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	s.login("Fiona", "")

	// A typo'd code does not block admission while son seats are open; the
	// code only matters once a spirit seat is on offer.
	res, err := s.orch.Login(s.ctx, "Sam", "ref-bogus")
	s.Require().NoError(err)
	s.Equal(model.RoleSon, res.Role)
}

func (s *OrchestratorSuite) TestSpiritAdmissionChecksReferralInOrder() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	s.login("Fiona", "")
	son := s.login("Sam", "")
	s.login("Sonya", "")

	_, err = s.orch.Login(s.ctx, "Wisp", "ref-bogus")
	s.ErrorIs(err, model.ErrInvalidReferral)

	ref, err := s.orch.GenerateReferral(s.ctx, son.Token)
	s.Require().NoError(err)

	spirit := s.login("Wisp", ref.Code)
	s.Equal(model.RoleSpirit, spirit.Role)

	// Single-use code is now spent.
	_, err = s.orch.Login(s.ctx, "Shade", ref.Code)
	s.ErrorIs(err, model.ErrReferralExhausted)
}

func (s *OrchestratorSuite) TestSpiritAdmissionFailsWhenSponsorGone() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	s.login("Fiona", "")
	son := s.login("Sam", "")
	s.login("Sonya", "")

	first, err := s.orch.GenerateReferral(s.ctx, son.Token)
	s.Require().NoError(err)
	second, err := s.orch.GenerateReferral(s.ctx, son.Token)
	s.Require().NoError(err)

	// Keep the roster in its spirit phase, then drop the sponsor.
	s.login("Wisp", first.Code)
	s.Require().NoError(s.orch.Disconnect(s.ctx, son.Token))

	_, err = s.orch.Login(s.ctx, "Shade", second.Code)
	s.ErrorIs(err, model.ErrSponsorGone)
}

func (s *OrchestratorSuite) TestLoginRecordsUniqueAdmissions() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	s.login("Fiona", "")

	count, err := s.storage.AdmittedCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Referral issuance tests

func (s *OrchestratorSuite) TestGenerateReferralRequiresSonRole() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	gf := s.login("Greg", "")

	_, err = s.orch.GenerateReferral(s.ctx, gf.Token)
	s.ErrorIs(err, model.ErrNotASon)
}

func (s *OrchestratorSuite) TestGenerateReferralCapsPerSon() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	s.login("Fiona", "")
	son := s.login("Sam", "")

	_, err = s.orch.GenerateReferral(s.ctx, son.Token)
	s.Require().NoError(err)
	_, err = s.orch.GenerateReferral(s.ctx, son.Token)
	s.Require().NoError(err)

	_, err = s.orch.GenerateReferral(s.ctx, son.Token)
	s.ErrorIs(err, model.ErrReferralLimit)
}

// Gift protocol tests

func (s *OrchestratorSuite) TestSendGiftIgnoredForNonSpirit() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	gf := s.login("Greg", "")

	s.Require().NoError(s.orch.SendGift(s.ctx, gf.Token))

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.False(t.GetParticipant(gf.ParticipantID).GiftSent)
}

func (s *OrchestratorSuite) TestSendGiftIsIdempotent() {
	results := s.buildFullTable("table1")
	wisp := results["Wisp"]

	s.Require().NoError(s.orch.SendGift(s.ctx, wisp.Token))
	s.Require().NoError(s.orch.SendGift(s.ctx, wisp.Token))

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.True(t.GetParticipant(wisp.ParticipantID).GiftSent)
}

func (s *OrchestratorSuite) TestAllGiftsSentMilestone() {
	results := s.buildFullTable("table1")
	for _, name := range []string{"Wisp", "Shade", "Echo", "Glow"} {
		s.Require().NoError(s.orch.SendGift(s.ctx, results[name].Token))
	}

	history, err := s.storage.GetChatHistory(s.ctx, "table1")
	s.Require().NoError(err)

	found := false
	for _, msg := range history {
		if msg.IsSystem && msg.Text == "All gifts are in! Waiting for the grandfather to confirm them." {
			found = true
		}
	}
	s.True(found)
}

func (s *OrchestratorSuite) TestConfirmGiftIgnoredForNonGrandfather() {
	results := s.buildFullTable("table1")
	s.Require().NoError(s.orch.SendGift(s.ctx, results["Wisp"].Token))

	s.Require().NoError(s.orch.ConfirmGift(s.ctx, results["Fiona"].Token, results["Wisp"].ParticipantID))

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.False(t.GetParticipant(results["Wisp"].ParticipantID).GiftConfirmed)
}

func (s *OrchestratorSuite) TestConfirmGiftIgnoredBeforeSend() {
	results := s.buildFullTable("table1")

	s.Require().NoError(s.orch.ConfirmGift(s.ctx, results["Greg"].Token, results["Wisp"].ParticipantID))

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.False(t.GetParticipant(results["Wisp"].ParticipantID).GiftConfirmed)
}

// Split tests

func (s *OrchestratorSuite) TestFourthConfirmationSplitsTable() {
	results := s.buildFullTable("table1")
	spirits := []string{"Wisp", "Shade", "Echo", "Glow"}

	for _, name := range spirits {
		s.Require().NoError(s.orch.SendGift(s.ctx, results[name].Token))
	}
	for _, name := range spirits {
		s.Require().NoError(s.orch.ConfirmGift(s.ctx, results["Greg"].Token, results[name].ParticipantID))
	}

	// Parent is gone; two successors exist.
	_, err := s.tables.Get(s.ctx, "table1")
	s.ErrorIs(err, model.ErrTableNotFound)

	childA, err := s.tables.Get(s.ctx, "table1-1")
	s.Require().NoError(err)
	childB, err := s.tables.Get(s.ctx, "table1-2")
	s.Require().NoError(err)

	// Child 1: father became grandfather, first son became father, first
	// two spirits became sons.
	s.Equal("Fiona", childA.Grandfather().DisplayName)
	s.Equal("Sam", childA.Father().DisplayName)
	sonsA := childA.Sons()
	s.Require().Len(sonsA, 2)
	s.Equal("Wisp", sonsA[0].DisplayName)
	s.Equal("Shade", sonsA[1].DisplayName)

	// Child 2: synthesized grandfather, second son became father, last two
	// spirits became sons.
	s.True(childB.Grandfather().IsAdmin)
	s.Equal("Grandfather Frost", childB.Grandfather().DisplayName)
	s.Equal("Sonya", childB.Father().DisplayName)
	sonsB := childB.Sons()
	s.Require().Len(sonsB, 2)
	s.Equal("Echo", sonsB[0].DisplayName)
	s.Equal("Glow", sonsB[1].DisplayName)

	// Promoted spirits carry a clean gift slate and referral rights.
	for _, son := range append(sonsA, sonsB...) {
		s.False(son.GiftSent)
		s.False(son.GiftConfirmed)
		s.True(son.CanGenerateReferrals)
		s.Empty(son.SponsorID)
	}

	// Sessions followed their participants to the children.
	fiona, err := s.orch.GetSession(results["Fiona"].Token)
	s.Require().NoError(err)
	s.Equal(model.TableID("table1-1"), fiona.TableID)
	sonya, err := s.orch.GetSession(results["Sonya"].Token)
	s.Require().NoError(err)
	s.Equal(model.TableID("table1-2"), sonya.TableID)

	// The retiring grandfather's session is gone.
	_, err = s.orch.GetSession(results["Greg"].Token)
	s.ErrorIs(err, model.ErrInvalidSession)

	// Parent transcript discarded; children seeded with provenance.
	parentHistory, _ := s.storage.GetChatHistory(s.ctx, "table1")
	s.Empty(parentHistory)
	childHistory, _ := s.storage.GetChatHistory(s.ctx, "table1-1")
	s.Require().NotEmpty(childHistory)
	s.True(childHistory[0].IsSystem)

	// Parent-sponsored codes are purged, and the counter advanced.
	refs, _ := s.storage.ListReferrals(s.ctx)
	s.Empty(refs)
	splitCount, _ := s.storage.SplitTableCount(s.ctx)
	s.Equal(1, splitCount)
}

func (s *OrchestratorSuite) TestSplitRefusedWhenRosterCannotCoverSuccessors() {
	// A forced removal can leave four confirmed spirits but a single son.
	// The final confirmation then must not tear the table down.
	now := s.clock.Now()
	crafted := &model.Table{
		ID:     "table1",
		Status: model.TableStatusActive,
		Participants: []model.Participant{
			{ID: "gf-1", DisplayName: "Greg", Role: model.RoleGrandfather, SeatedAt: now},
			{ID: "f-1", DisplayName: "Fiona", Role: model.RoleFather, SeatedAt: now},
			{ID: "son-1", DisplayName: "Sam", Role: model.RoleSon, SeatedAt: now},
			{ID: "sp-1", DisplayName: "Wisp", Role: model.RoleSpirit, GiftSent: true, GiftConfirmed: true, SeatedAt: now},
			{ID: "sp-2", DisplayName: "Shade", Role: model.RoleSpirit, GiftSent: true, GiftConfirmed: true, SeatedAt: now},
			{ID: "sp-3", DisplayName: "Echo", Role: model.RoleSpirit, GiftSent: true, GiftConfirmed: true, SeatedAt: now},
			{ID: "sp-4", DisplayName: "Glow", Role: model.RoleSpirit, GiftSent: true, SeatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.SaveTable(s.ctx, crafted))

	err := s.orch.AdminConfirmGift(s.ctx, "table1", "sp-4")
	s.ErrorIs(err, model.ErrSplitInvariant)

	// The table survives, with the confirmation applied.
	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.True(t.GetParticipant("sp-4").GiftConfirmed)

	logs, err := s.storage.AdminLogs(s.ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(logs)
	s.Equal("warn", logs[len(logs)-1].Level)
}

// Reconnect tests

func (s *OrchestratorSuite) TestReconnectToMissingTable() {
	_, err := s.orch.Reconnect(s.ctx, ReconnectRequest{Name: "Greg", Role: model.RoleGrandfather, TableID: "gone"})
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *OrchestratorSuite) TestReconnectGrandfatherConflict() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")

	_, err = s.orch.Reconnect(s.ctx, ReconnectRequest{Name: "Impostor", Role: model.RoleGrandfather, TableID: "table1"})
	s.ErrorIs(err, model.ErrSeatTaken)
}

func (s *OrchestratorSuite) TestReconnectReplacesStaleSeat() {
	results := s.buildFullTable("table1")
	wisp := results["Wisp"]
	s.Require().NoError(s.orch.SendGift(s.ctx, wisp.Token))

	res, err := s.orch.Reconnect(s.ctx, ReconnectRequest{
		Name:    "Wisp",
		Role:    model.RoleSpirit,
		TableID: "table1",
	})
	s.Require().NoError(err)
	s.NotEqual(wisp.Token, res.Token)
	s.True(res.GiftSent)

	// Still exactly eight seats; the stale incarnation is gone.
	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.Len(t.Participants, 8)
	s.Nil(t.GetParticipant(wisp.ParticipantID))

	p := t.GetParticipant(res.ParticipantID)
	s.Require().NotNil(p)
	s.True(p.GiftSent)
	s.NotEmpty(p.SponsorID)

	// The stale session no longer resolves.
	_, err = s.orch.GetSession(wisp.Token)
	s.ErrorIs(err, model.ErrInvalidSession)
}

// Departure tests

func (s *OrchestratorSuite) TestDisconnectVacatesSeat() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	fiona := s.login("Fiona", "")

	s.Require().NoError(s.orch.Disconnect(s.ctx, fiona.Token))

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.Len(t.Participants, 1)

	_, err = s.orch.GetSession(fiona.Token)
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *OrchestratorSuite) TestDisconnectUnknownToken() {
	err := s.orch.Disconnect(s.ctx, "no-such-token")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *OrchestratorSuite) TestGetSessionReturnsDetachedSnapshot() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	gf := s.login("Greg", "")

	sess, err := s.orch.GetSession(gf.Token)
	s.Require().NoError(err)
	sess.TableID = "tampered"

	fresh, err := s.orch.GetSession(gf.Token)
	s.Require().NoError(err)
	s.Equal(model.TableID("table1"), fresh.TableID)
}

// Chat tests

func (s *OrchestratorSuite) TestChatAppendsAndSkipsBlankMessages() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	gf := s.login("Greg", "")

	s.Require().NoError(s.orch.Chat(s.ctx, gf.Token, "hello table"))
	s.Require().NoError(s.orch.Chat(s.ctx, gf.Token, "   "))

	history, err := s.storage.GetChatHistory(s.ctx, "table1")
	s.Require().NoError(err)

	var user []model.ChatMessage
	for _, msg := range history {
		if !msg.IsSystem {
			user = append(user, msg)
		}
	}
	s.Require().Len(user, 1)
	s.Equal("hello table", user[0].Text)
	s.Equal(model.RoleGrandfather, user[0].Role)
}

// Admin operation tests

func (s *OrchestratorSuite) TestCreateFirstTableOnlyOnce() {
	t, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(t.Grandfather())
	s.True(t.Grandfather().IsAdmin)

	_, err = s.orch.CreateFirstTable(s.ctx)
	s.ErrorIs(err, model.ErrTablesExist)
}

func (s *OrchestratorSuite) TestRemoveParticipantDropsSeatAndSession() {
	_, err := s.tables.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.login("Greg", "")
	fiona := s.login("Fiona", "")

	err = s.orch.RemoveParticipant(s.ctx, "table1", fiona.ParticipantID, "removed by operator")
	s.Require().NoError(err)

	t, err := s.tables.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.Len(t.Participants, 1)

	_, err = s.orch.GetSession(fiona.Token)
	s.ErrorIs(err, model.ErrInvalidSession)

	logs, _ := s.storage.AdminLogs(s.ctx)
	s.Require().NotEmpty(logs)
}

func (s *OrchestratorSuite) TestIssueAdminReferralAdmitsThreeSpirits() {
	results := s.buildFullTable("table1")
	sam := results["Sam"]

	// Free a spirit seat so admin-admitted spirits have room.
	s.Require().NoError(s.orch.Disconnect(s.ctx, results["Glow"].Token))

	ref, err := s.orch.IssueAdminReferral(s.ctx, "table1", sam.ParticipantID)
	s.Require().NoError(err)
	s.Equal(model.AdminIssuedReferralUses, ref.RemainingUses)
	s.True(ref.AdminIssued)
	s.Equal(sam.ParticipantID, ref.SponsorID)

	res := s.login("Flare", ref.Code)
	s.Equal(model.RoleSpirit, res.Role)

	stored, err := s.referrals.Lookup(s.ctx, ref.Code)
	s.Require().NoError(err)
	s.Equal(2, stored.RemainingUses)
}

func (s *OrchestratorSuite) TestIssueAdminReferralNotifiesSponsor() {
	results := s.buildFullTable("table1")
	sam := results["Sam"]

	client := broadcast.NewClient(sam.Token, broadcast.TableRoom("table1"))
	s.hub.Register(client)

	_, err := s.orch.IssueAdminReferral(s.ctx, "table1", sam.ParticipantID)
	s.Require().NoError(err)

	s.Require().Len(client.Send(), 1)
	s.Contains(string(<-client.Send()), broadcast.EventReferralGenerated)
}

func (s *OrchestratorSuite) TestIssueAdminReferralRequiresSeatedSon() {
	results := s.buildFullTable("table1")

	_, err := s.orch.IssueAdminReferral(s.ctx, "table1", results["Fiona"].ParticipantID)
	s.ErrorIs(err, model.ErrNotASon)

	_, err = s.orch.IssueAdminReferral(s.ctx, "table1", "ghost")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *OrchestratorSuite) TestAdminChatSpeaksAsHostPersona() {
	_, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.orch.AdminChat(s.ctx, firstTableID, "welcome, travelers", true))

	history, err := s.storage.GetChatHistory(s.ctx, firstTableID)
	s.Require().NoError(err)
	last := history[len(history)-1]
	s.True(last.IsAdmin)
	s.Equal("Grandfather Frost", last.Sender)
	s.Equal(model.RoleGrandfather, last.Role)
}

func (s *OrchestratorSuite) TestAdminChatAsPlainAdministrator() {
	_, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.orch.AdminChat(s.ctx, firstTableID, "a word from the operators", false))

	history, err := s.storage.GetChatHistory(s.ctx, firstTableID)
	s.Require().NoError(err)
	last := history[len(history)-1]
	s.True(last.IsAdmin)
	s.Equal(model.AdminSender, last.Sender)
	s.Empty(last.Role)
}

func (s *OrchestratorSuite) TestStatsCountNonAdminSeats() {
	_, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)
	s.login("Fiona", "")
	s.login("Sam", "")

	stats, err := s.orch.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.ActiveTables)
	s.Equal(0, stats.SplitTables)
	s.Equal(2, stats.TotalParticipants)
	s.Equal(2, stats.SeatedParticipants)
}

func (s *OrchestratorSuite) TestOverviewMarksAdminHostedTables() {
	_, err := s.orch.CreateFirstTable(s.ctx)
	s.Require().NoError(err)

	summaries, err := s.orch.Overview(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.True(summaries[0].HasAdminGrandfather)
	s.Equal(1, summaries[0].ParticipantCount)
}
