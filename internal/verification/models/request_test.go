package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veritask/internal/verification/models"
	id "veritask/pkg/domain"
	dErrors "veritask/pkg/domain-errors"
)

type RequestSuite struct {
	suite.Suite
	now      time.Time
	clientID id.ClientID
	agentID  id.AgentID
}

func TestRequestSuite(t *testing.T) {
	suite.Run(t, new(RequestSuite))
}

func (s *RequestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	var err error
	s.clientID, err = id.ParseClientID("7f9c24e5-1b3a-4a5c-9d2e-8f6a0b1c2d3e")
	s.Require().NoError(err)
	s.agentID, err = id.ParseAgentID("a1b2c3d4-e5f6-4789-8abc-def012345678")
	s.Require().NoError(err)
}

func (s *RequestSuite) newRequest(kind models.VerificationKind) *models.VerificationRequest {
	r, err := models.NewVerificationRequest(
		id.NewVerificationID(),
		s.clientID,
		"Verify office lease",
		"Confirm the tenant actually occupies suite 12 at the listed address.",
		kind,
		models.MustGeoPoint("12 Marina Road, Lagos Island", 6.4541, 3.3947),
		s.now,
	)
	s.Require().NoError(err)
	return r
}

func (s *RequestSuite) standardKind() models.VerificationKind {
	return models.MustVerificationKind(models.CategoryDocument, models.UrgencyStandard, false, 30)
}

func (s *RequestSuite) TestConstruction() {
	r := s.newRequest(s.standardKind())

	s.Equal(models.StateDraft, r.Status.State)
	s.Len(r.StatusHistory, 1)
	s.Equal(s.clientID.String(), r.Status.ChangedBy)
	s.Equal(models.PaymentStatusPending, r.PaymentStatus)
	s.Equal(s.now.Add(48*time.Hour), r.EstimatedCompletionDate)
	s.NotNil(r.Attachments)
	s.Empty(r.Attachments)
}

func (s *RequestSuite) TestConstructionValidation() {
	location := models.MustGeoPoint("12 Marina Road, Lagos Island", 6.4541, 3.3947)

	s.Run("rejects a short title", func() {
		_, err := models.NewVerificationRequest(id.NewVerificationID(), s.clientID,
			"abc", "Confirm the tenant actually occupies suite 12 at the listed address.",
			s.standardKind(), location, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects a short description", func() {
		_, err := models.NewVerificationRequest(id.NewVerificationID(), s.clientID,
			"Verify office lease", "too short",
			s.standardKind(), location, s.now)
		s.Require().Error(err)
	})

	s.Run("rejects a zero client id", func() {
		_, err := models.NewVerificationRequest(id.NewVerificationID(), id.ClientID{},
			"Verify office lease", "Confirm the tenant actually occupies suite 12 at the listed address.",
			s.standardKind(), location, s.now)
		s.Require().Error(err)
	})

	s.Run("rejects a zero location", func() {
		_, err := models.NewVerificationRequest(id.NewVerificationID(), s.clientID,
			"Verify office lease", "Confirm the tenant actually occupies suite 12 at the listed address.",
			s.standardKind(), models.GeoPoint{}, s.now)
		s.Require().Error(err)
	})
}

func (s *RequestSuite) TestFlatPrice() {
	s.Run("document standard", func() {
		r := s.newRequest(s.standardKind())
		s.True(r.Price.Equals(models.MustMoney("25.00", models.DefaultCurrency)))
	})

	s.Run("property inspection immediate", func() {
		r := s.newRequest(models.MustVerificationKind(models.CategoryPropertyInspection, models.UrgencyImmediate, true, 120))
		s.True(r.Price.Equals(models.MustMoney("120.00", models.DefaultCurrency)))
	})

	s.Run("identity urgent", func() {
		r := s.newRequest(models.MustVerificationKind(models.CategoryIdentity, models.UrgencyUrgent, false, 45))
		s.True(r.Price.Equals(models.MustMoney("37.50", models.DefaultCurrency)))
	})
}

func (s *RequestSuite) TestHappyPathLifecycle() {
	r := s.newRequest(s.standardKind())
	step := s.now

	next := func() time.Time {
		step = step.Add(time.Hour)
		return step
	}

	s.Require().NoError(r.Submit(s.clientID.String(), next()))
	s.Equal(models.StateSubmitted, r.Status.State)

	s.Require().NoError(r.AssignAgent(s.agentID, "dispatcher", next()))
	s.Equal(models.StateAssigned, r.Status.State)
	s.Require().NotNil(r.AssignedAgentID)
	s.Equal(s.agentID, *r.AssignedAgentID)

	s.Require().NoError(r.StartVerification(s.agentID.String(), next()))
	s.Equal(models.StateInProgress, r.Status.State)

	s.Require().NoError(r.Complete(s.agentID.String(), next()))
	s.Equal(models.StateCompleted, r.Status.State)
	s.Require().NotNil(r.ActualCompletionDate)
	s.Equal(step, *r.ActualCompletionDate)

	s.Len(r.StatusHistory, 5)
	s.Equal(step, r.ModifiedAt)
	s.True(r.Status.IsTerminal())
}

func (s *RequestSuite) TestPaymentLifecycle() {
	r := s.newRequest(s.standardKind())
	paymentID, err := id.ParsePaymentID("0b54f5a2-93de-4f6b-8f33-2f1a9c7e5d41")
	s.Require().NoError(err)

	s.Require().NoError(r.SetPendingPayment("stripe_pi_123", s.clientID.String(), s.now.Add(time.Minute)))
	s.Equal(models.StatePendingPayment, r.Status.State)
	s.Equal("stripe_pi_123", r.PaymentReference)
	s.Equal(models.PaymentStatusPending, r.PaymentStatus)

	s.Require().NoError(r.ConfirmPayment(paymentID, "payments", s.now.Add(2*time.Minute)))
	s.Equal(models.StateSubmitted, r.Status.State)
	s.Equal(models.PaymentStatusPaid, r.PaymentStatus)
	s.Require().NotNil(r.PaymentID)
	s.Equal(paymentID, *r.PaymentID)

	s.Run("confirm is only legal from pending payment", func() {
		err := r.ConfirmPayment(paymentID, "payments", s.now.Add(3*time.Minute))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *RequestSuite) TestRevisionLoop() {
	r := s.newRequest(s.standardKind())
	s.Require().NoError(r.Submit(s.clientID.String(), s.now))
	s.Require().NoError(r.AssignAgent(s.agentID, "dispatcher", s.now))

	s.Require().NoError(r.RequestRevision("photos unusable", s.agentID.String(), s.now))
	s.Equal(models.StateRequiresRevision, r.Status.State)
	s.Equal("photos unusable", r.Status.Reason)

	// The loop closes: resubmit, reassign.
	s.Require().NoError(r.Submit(s.clientID.String(), s.now))
	s.Require().NoError(r.AssignAgent(s.agentID, "dispatcher", s.now))
	s.Equal(models.StateAssigned, r.Status.State)

	s.Run("revision requires a reason", func() {
		err := r.RequestRevision("", s.agentID.String(), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RequestSuite) TestCancel() {
	s.Run("from draft with a reason", func() {
		r := s.newRequest(s.standardKind())
		s.Require().NoError(r.Cancel("changed my mind", s.clientID.String(), s.now))
		s.Equal(models.StateCancelled, r.Status.State)
		s.Equal("changed my mind", r.Status.Reason)
	})

	s.Run("requires a reason", func() {
		r := s.newRequest(s.standardKind())
		err := r.Cancel("", s.clientID.String(), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(models.StateDraft, r.Status.State)
	})

	s.Run("illegal from a terminal state", func() {
		r := s.newRequest(s.standardKind())
		s.Require().NoError(r.Cancel("first", s.clientID.String(), s.now))
		err := r.Cancel("second", s.clientID.String(), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *RequestSuite) TestRejectBypassesTransitionTable() {
	r := s.newRequest(s.standardKind())
	s.Require().NoError(r.Submit(s.clientID.String(), s.now))
	s.Require().NoError(r.AssignAgent(s.agentID, "dispatcher", s.now))
	s.Require().NoError(r.StartVerification(s.agentID.String(), s.now))
	s.Require().NoError(r.Complete(s.agentID.String(), s.now))

	// COMPLETED is terminal for every other mutator, but rejection is
	// unconditional.
	s.Require().NoError(r.Reject("fraudulent evidence discovered", "auditor", s.now.Add(time.Hour)))
	s.Equal(models.StateRejected, r.Status.State)
	s.Equal("fraudulent evidence discovered", r.Status.Reason)
	s.Len(r.StatusHistory, 6)

	s.Run("still requires a reason", func() {
		err := r.Reject("", "auditor", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RequestSuite) TestFailedMutatorLeavesAggregateUnchanged() {
	r := s.newRequest(s.standardKind())
	before := r.ModifiedAt

	err := r.Complete(s.agentID.String(), s.now.Add(time.Hour))
	s.Require().Error(err)
	s.Equal(models.StateDraft, r.Status.State)
	s.Len(r.StatusHistory, 1)
	s.Equal(before, r.ModifiedAt)
	s.Nil(r.ActualCompletionDate)
}

func (s *RequestSuite) TestStartRequiresAssignedAgent() {
	r := s.newRequest(s.standardKind())
	s.Require().NoError(r.Submit(s.clientID.String(), s.now))

	err := r.StartVerification(s.agentID.String(), s.now)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *RequestSuite) TestSchedule() {
	r := s.newRequest(s.standardKind())

	s.Run("rejects a past date", func() {
		err := r.Schedule(s.now.Add(-time.Hour), s.now)
		s.Require().Error(err)
		s.Nil(r.ScheduledDate)
	})

	s.Run("rejects the exact present", func() {
		s.Error(r.Schedule(s.now, s.now))
	})

	s.Run("accepts a future date", func() {
		date := s.now.Add(26 * time.Hour)
		s.Require().NoError(r.Schedule(date, s.now))
		s.Require().NotNil(r.ScheduledDate)
		s.Equal(date, *r.ScheduledDate)
	})
}

func (s *RequestSuite) TestAttachments() {
	r := s.newRequest(s.standardKind())

	s.Require().NoError(r.AddAttachment("https://cdn.example/doc1.pdf", s.now))
	s.Require().NoError(r.AddAttachment("https://cdn.example/doc2.pdf", s.now))

	s.Run("rejects duplicates", func() {
		err := r.AddAttachment("https://cdn.example/doc1.pdf", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Len(r.Attachments, 2)
	})

	s.Run("rejects an empty url", func() {
		s.Error(r.AddAttachment("", s.now))
	})

	s.Run("removes an existing attachment", func() {
		s.Require().NoError(r.RemoveAttachment("https://cdn.example/doc1.pdf", s.now))
		s.Equal([]string{"https://cdn.example/doc2.pdf"}, r.Attachments)
	})

	s.Run("removing a missing attachment fails", func() {
		err := r.RemoveAttachment("https://cdn.example/missing.pdf", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *RequestSuite) TestIsOverdue() {
	r := s.newRequest(s.standardKind())

	s.False(r.IsOverdue(s.now.Add(47 * time.Hour)))
	s.True(r.IsOverdue(s.now.Add(49 * time.Hour)))

	s.Require().NoError(r.Submit(s.clientID.String(), s.now))
	s.Require().NoError(r.AssignAgent(s.agentID, "dispatcher", s.now))
	s.Require().NoError(r.StartVerification(s.agentID.String(), s.now))
	s.Require().NoError(r.Complete(s.agentID.String(), s.now.Add(time.Hour)))

	// Completed work is never overdue, even past the estimate.
	s.False(r.IsOverdue(s.now.Add(100 * time.Hour)))
}
