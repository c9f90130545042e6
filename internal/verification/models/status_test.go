package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

type StatusSuite struct {
	suite.Suite
	now time.Time
}

func TestStatusSuite(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}

func (s *StatusSuite) SetupTest() {
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}

func (s *StatusSuite) TestLegalTransitions() {
	legal := []struct {
		from models.State
		to   models.State
	}{
		{models.StateDraft, models.StatePendingPayment},
		{models.StateDraft, models.StateSubmitted},
		{models.StateDraft, models.StateCancelled},
		{models.StatePendingPayment, models.StateSubmitted},
		{models.StatePendingPayment, models.StateCancelled},
		{models.StateSubmitted, models.StateAssigned},
		{models.StateSubmitted, models.StateRejected},
		{models.StateSubmitted, models.StateCancelled},
		{models.StateAssigned, models.StateInProgress},
		{models.StateAssigned, models.StateCancelled},
		{models.StateAssigned, models.StateRequiresRevision},
		{models.StateInProgress, models.StateCompleted},
		{models.StateInProgress, models.StateRequiresRevision},
		{models.StateInProgress, models.StateCancelled},
		{models.StateRequiresRevision, models.StateSubmitted},
		{models.StateRequiresRevision, models.StateCancelled},
	}
	for _, edge := range legal {
		s.True(edge.from.CanTransitionTo(edge.to), "%s -> %s should be legal", edge.from, edge.to)
	}
}

func (s *StatusSuite) TestIllegalTransitions() {
	illegal := []struct {
		from models.State
		to   models.State
	}{
		{models.StateDraft, models.StateAssigned},
		{models.StateDraft, models.StateCompleted},
		{models.StatePendingPayment, models.StateAssigned},
		{models.StateSubmitted, models.StateCompleted},
		{models.StateSubmitted, models.StateInProgress},
		{models.StateAssigned, models.StateCompleted},
		{models.StateInProgress, models.StateAssigned},
		{models.StateRequiresRevision, models.StateAssigned},
		{models.StateCompleted, models.StateSubmitted},
		{models.StateCancelled, models.StateDraft},
		{models.StateRejected, models.StateSubmitted},
	}
	for _, edge := range illegal {
		s.False(edge.from.CanTransitionTo(edge.to), "%s -> %s should be illegal", edge.from, edge.to)
	}
}

func (s *StatusSuite) TestTerminalStates() {
	for _, state := range []models.State{models.StateCompleted, models.StateCancelled, models.StateRejected} {
		s.True(state.IsTerminal(), state)
	}
	for _, state := range []models.State{
		models.StateDraft, models.StatePendingPayment, models.StateSubmitted,
		models.StateAssigned, models.StateInProgress, models.StateRequiresRevision,
	} {
		s.False(state.IsTerminal(), state)
	}
	s.False(models.State("BOGUS").IsTerminal())
}

func (s *StatusSuite) TestParseState() {
	state, err := models.ParseState("IN_PROGRESS")
	s.Require().NoError(err)
	s.Equal(models.StateInProgress, state)

	_, err = models.ParseState("in_progress")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StatusSuite) TestReasonRequirement() {
	s.Run("cancelled requires a reason", func() {
		_, err := models.NewRequestStatus(models.StateCancelled, "", "client-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejected requires a reason", func() {
		_, err := models.NewRequestStatus(models.StateRejected, "", "agent-1", s.now)
		s.Require().Error(err)
	})

	s.Run("requires_revision requires a reason", func() {
		_, err := models.NewRequestStatus(models.StateRequiresRevision, "", "agent-1", s.now)
		s.Require().Error(err)
	})

	s.Run("other states accept an empty reason", func() {
		status, err := models.NewRequestStatus(models.StateSubmitted, "", "client-1", s.now)
		s.Require().NoError(err)
		s.Equal(models.StateSubmitted, status.State)
	})
}

func (s *StatusSuite) TestTransitionTo() {
	draft := models.MustRequestStatus(models.StateDraft, "", "client-1", s.now)

	s.Run("legal edge produces the successor", func() {
		next, err := draft.TransitionTo(models.StateSubmitted, "", "client-1", s.now.Add(time.Hour))
		s.Require().NoError(err)
		s.Equal(models.StateSubmitted, next.State)
		s.Equal(s.now.Add(time.Hour), next.ChangedAt)
		// The origin status is untouched.
		s.Equal(models.StateDraft, draft.State)
	})

	s.Run("illegal edge is an invariant violation", func() {
		_, err := draft.TransitionTo(models.StateCompleted, "", "client-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("legal edge still enforces the reason rule", func() {
		_, err := draft.TransitionTo(models.StateCancelled, "", "client-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *StatusSuite) TestGuardPredicates() {
	mk := func(state models.State) models.RequestStatus {
		reason := ""
		if state == models.StateRequiresRevision {
			reason = "photos unusable"
		}
		return models.MustRequestStatus(state, reason, "tester", s.now)
	}

	s.True(mk(models.StateSubmitted).CanBeAssigned())
	s.True(mk(models.StateRequiresRevision).CanBeAssigned())
	s.False(mk(models.StateDraft).CanBeAssigned())

	s.True(mk(models.StateAssigned).CanProgress())
	s.True(mk(models.StateInProgress).CanProgress())
	s.False(mk(models.StateSubmitted).CanProgress())

	s.True(mk(models.StateDraft).CanBeCancelled())
	s.True(mk(models.StateSubmitted).CanBeCancelled())
	s.True(mk(models.StateAssigned).CanBeCancelled())
	s.False(mk(models.StateInProgress).CanBeCancelled())
	s.False(mk(models.StateCompleted).CanBeCancelled())
}
