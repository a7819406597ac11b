package table

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarpov/giftcircle/internal/dependencies/mocks"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage/memory"
	"github.com/mkarpov/giftcircle/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC))
	s.registry = NewRegistry(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RegistrySuite) seatRole(id model.TableID, pid model.ParticipantID, role model.Role) *model.Table {
	table, err := s.registry.Seat(s.ctx, id, model.Participant{
		ID:          pid,
		DisplayName: string(pid),
		Role:        role,
	})
	s.Require().NoError(err)
	return table
}

func (s *RegistrySuite) TestCreateStartsWaiting() {
	table, err := s.registry.Create(s.ctx, "table1")
	s.Require().NoError(err)
	s.Equal(model.TableStatusWaiting, table.Status)
	s.Empty(table.Participants)
	s.Equal(s.clock.Now(), table.CreatedAt)

	stored, err := s.registry.Get(s.ctx, "table1")
	s.Require().NoError(err)
	s.Equal(table.ID, stored.ID)
}

func (s *RegistrySuite) TestSeatStampsSeatedAt() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.clock.Advance(time.Minute)

	table := s.seatRole("table1", "gf-1", model.RoleGrandfather)
	s.Require().Len(table.Participants, 1)
	s.Equal(s.clock.Now(), table.Participants[0].SeatedAt)
}

func (s *RegistrySuite) TestSeatRejectsSecondGrandfather() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)

	_, err := s.registry.Seat(s.ctx, "table1", model.Participant{ID: "gf-2", Role: model.RoleGrandfather})
	s.ErrorIs(err, model.ErrSeatInvalid)
}

func (s *RegistrySuite) TestSeatRejectsFatherBeforeGrandfather() {
	_, _ = s.registry.Create(s.ctx, "table1")

	_, err := s.registry.Seat(s.ctx, "table1", model.Participant{ID: "f-1", Role: model.RoleFather})
	s.ErrorIs(err, model.ErrSeatInvalid)
}

func (s *RegistrySuite) TestFillingLastSeatActivatesTable() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)
	s.seatRole("table1", "f-1", model.RoleFather)
	s.seatRole("table1", "son-1", model.RoleSon)
	s.seatRole("table1", "son-2", model.RoleSon)
	s.seatRole("table1", "sp-1", model.RoleSpirit)
	s.seatRole("table1", "sp-2", model.RoleSpirit)
	s.seatRole("table1", "sp-3", model.RoleSpirit)
	table := s.seatRole("table1", "sp-4", model.RoleSpirit)

	s.Equal(model.TableStatusActive, table.Status)

	_, err := s.registry.Seat(s.ctx, "table1", model.Participant{ID: "sp-5", Role: model.RoleSpirit})
	s.ErrorIs(err, model.ErrTableFull)
}

func (s *RegistrySuite) TestSeatRecordsUniqueAdmissions() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)

	_, err := s.registry.Seat(s.ctx, "table1", model.Participant{ID: "admin-gf", Role: model.RoleFather, IsAdmin: true})
	s.Require().NoError(err)

	count, err := s.storage.AdmittedCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RegistrySuite) TestUnseatReturnsRemovedParticipant() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)
	s.seatRole("table1", "son-1", model.RoleSon)

	table, removed, err := s.registry.Unseat(s.ctx, "table1", "gf-1")
	s.Require().NoError(err)
	s.Equal(model.RoleGrandfather, removed.Role)
	s.Require().Len(table.Participants, 1)
	s.Equal(model.ParticipantID("son-1"), table.Participants[0].ID)
}

func (s *RegistrySuite) TestUnseatReopensActiveTable() {
	_, _ = s.registry.Create(s.ctx, "table1")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)
	s.seatRole("table1", "f-1", model.RoleFather)
	s.seatRole("table1", "son-1", model.RoleSon)
	s.seatRole("table1", "son-2", model.RoleSon)
	s.seatRole("table1", "sp-1", model.RoleSpirit)
	s.seatRole("table1", "sp-2", model.RoleSpirit)
	s.seatRole("table1", "sp-3", model.RoleSpirit)
	s.seatRole("table1", "sp-4", model.RoleSpirit)

	table, _, err := s.registry.Unseat(s.ctx, "table1", "sp-4")
	s.Require().NoError(err)
	s.Equal(model.TableStatusWaiting, table.Status)
}

func (s *RegistrySuite) TestUnseatUnknownParticipant() {
	_, _ = s.registry.Create(s.ctx, "table1")

	_, _, err := s.registry.Unseat(s.ctx, "table1", "ghost")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *RegistrySuite) TestFindParticipantAcrossTables() {
	_, _ = s.registry.Create(s.ctx, "table1")
	_, _ = s.registry.Create(s.ctx, "table2")
	s.seatRole("table1", "gf-1", model.RoleGrandfather)
	s.seatRole("table2", "gf-2", model.RoleGrandfather)

	table, p, err := s.registry.FindParticipant(s.ctx, "gf-2")
	s.Require().NoError(err)
	s.Equal(model.TableID("table2"), table.ID)
	s.Equal(model.RoleGrandfather, p.Role)

	_, _, err = s.registry.FindParticipant(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *RegistrySuite) TestDestroy() {
	_, _ = s.registry.Create(s.ctx, "table1")

	err := s.registry.Destroy(s.ctx, "table1")
	s.Require().NoError(err)

	_, err = s.registry.Get(s.ctx, "table1")
	s.ErrorIs(err, model.ErrTableNotFound)

	count, _ := s.registry.Count(s.ctx)
	s.Equal(0, count)
}
