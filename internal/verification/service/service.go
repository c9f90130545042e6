package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"veritask/internal/pricing"
	"veritask/internal/verification/events"
	verifmetrics "veritask/internal/verification/metrics"
	"veritask/internal/verification/models"
	"veritask/internal/verification/store"
	id "veritask/pkg/domain"
	dErrors "veritask/pkg/domain-errors"
	"veritask/pkg/platform/sentinel"
	"veritask/pkg/requestcontext"
)

// Service orchestrates the verification request lifecycle: it loads the
// aggregate, invokes exactly one mutator, persists the result, and emits a
// status event. Business rules live on the aggregate and in the pricing
// engine; the service owns collaborator wiring only.
type Service struct {
	requests  store.Store
	engine    *pricing.Engine
	planner   DistancePlanner
	discounts DiscountProvider
	surge     SurgeProvider
	emitter   *events.Emitter
	metrics   *verifmetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	newID     func() id.VerificationID
}

// Option configures optional collaborators.
type Option func(*Service)

// WithMetrics attaches the verification metrics.
func WithMetrics(m *verifmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEmitter attaches the status event emitter.
func WithEmitter(e *events.Emitter) Option {
	return func(s *Service) { s.emitter = e }
}

// WithIDGenerator overrides the aggregate ID source. Tests inject a
// deterministic generator here.
func WithIDGenerator(gen func() id.VerificationID) Option {
	return func(s *Service) { s.newID = gen }
}

// New creates a Service.
func New(
	requests store.Store,
	engine *pricing.Engine,
	planner DistancePlanner,
	discounts DiscountProvider,
	surgeProvider SurgeProvider,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		requests:  requests,
		engine:    engine,
		planner:   planner,
		discounts: discounts,
		surge:     surgeProvider,
		logger:    logger,
		tracer:    otel.Tracer("veritask/verification"),
		newID:     id.NewVerificationID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the validated inputs for a new request.
type CreateParams struct {
	ClientID    id.ClientID
	Title       string
	Description string
	Kind        models.VerificationKind
	Location    models.GeoPoint
	Notes       string
}

// Create builds a new aggregate in DRAFT and persists it.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.VerificationRequest, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Create")
	defer span.End()

	now := requestcontext.Now(ctx)
	request, err := models.NewVerificationRequest(
		s.newID(), params.ClientID, params.Title, params.Description,
		params.Kind, params.Location, now,
	)
	if err != nil {
		return nil, err
	}
	if params.Notes != "" {
		request.SetNotes(params.Notes, now)
	}

	saved, err := s.requests.Save(ctx, request)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification request")
	}
	s.metrics.IncrementRequestsCreated()
	s.logger.InfoContext(ctx, "verification request created",
		"request_id", saved.ID.String(),
		"category", saved.Kind.Category.String(),
		"urgency", saved.Kind.Urgency.String(),
	)
	return saved, nil
}

// Get loads a request by ID.
func (s *Service) Get(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	request, err := s.requests.Load(ctx, requestID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return request, nil
}

// ListByClient returns a client's requests, newest first.
func (s *Service) ListByClient(ctx context.Context, clientID id.ClientID) ([]*models.VerificationRequest, error) {
	requests, err := s.requests.ListByClient(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verification requests")
	}
	return requests, nil
}

// mutate runs the load-mutate-save-emit cycle shared by every lifecycle
// operation. The mutator must either fully apply or leave the aggregate
// untouched; a mutator error aborts before any write.
func (s *Service) mutate(
	ctx context.Context,
	operation string,
	requestID id.VerificationID,
	mutator func(r *models.VerificationRequest, now time.Time) error,
) (*models.VerificationRequest, error) {
	ctx, span := s.tracer.Start(ctx, "verification."+operation)
	defer span.End()

	request, err := s.requests.Load(ctx, requestID)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	now := requestcontext.Now(ctx)
	before := request.Status.State
	if err := mutator(request, now); err != nil {
		return nil, err
	}

	saved, err := s.requests.Save(ctx, request)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification request")
	}

	if after := saved.Status.State; after != before {
		s.metrics.ObserveTransition(string(before), string(after))
		if s.emitter != nil {
			s.emitter.Emit(events.StatusChanged{
				RequestID:  saved.ID,
				ClientID:   saved.ClientID,
				From:       string(before),
				To:         string(after),
				Reason:     saved.Status.Reason,
				Actor:      saved.Status.ChangedBy,
				OccurredAt: saved.Status.ChangedAt,
			})
		}
	}
	return saved, nil
}

// Submit moves a request to SUBMITTED.
func (s *Service) Submit(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Submit", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.Submit(actor, now)
	})
}

// Assign records the agent and moves the request to ASSIGNED.
func (s *Service) Assign(ctx context.Context, requestID id.VerificationID, agentID id.AgentID) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Assign", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.AssignAgent(agentID, actor, now)
	})
}

// Start moves the request to IN_PROGRESS.
func (s *Service) Start(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Start", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.StartVerification(actor, now)
	})
}

// Complete finishes the request.
func (s *Service) Complete(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Complete", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.Complete(actor, now)
	})
}

// Cancel terminates the request with a reason.
func (s *Service) Cancel(ctx context.Context, requestID id.VerificationID, reason string) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Cancel", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.Cancel(reason, actor, now)
	})
}

// Reject terminates the request with a reason, from any state.
func (s *Service) Reject(ctx context.Context, requestID id.VerificationID, reason string) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "Reject", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.Reject(reason, actor, now)
	})
}

// RequestRevision sends the request back for rework.
func (s *Service) RequestRevision(ctx context.Context, requestID id.VerificationID, reason string) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "RequestRevision", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.RequestRevision(reason, actor, now)
	})
}

// Schedule sets the visit date.
func (s *Service) Schedule(ctx context.Context, requestID id.VerificationID, date time.Time) (*models.VerificationRequest, error) {
	return s.mutate(ctx, "Schedule", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.Schedule(date, now)
	})
}

// AddAttachment appends a supporting document URL.
func (s *Service) AddAttachment(ctx context.Context, requestID id.VerificationID, url string) (*models.VerificationRequest, error) {
	return s.mutate(ctx, "AddAttachment", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.AddAttachment(url, now)
	})
}

// RemoveAttachment removes a previously attached URL.
func (s *Service) RemoveAttachment(ctx context.Context, requestID id.VerificationID, url string) (*models.VerificationRequest, error) {
	return s.mutate(ctx, "RemoveAttachment", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.RemoveAttachment(url, now)
	})
}

// SetPendingPayment records the payment reference and moves the request to
// PENDING_PAYMENT.
func (s *Service) SetPendingPayment(ctx context.Context, requestID id.VerificationID, reference string) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "SetPendingPayment", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.SetPendingPayment(reference, actor, now)
	})
}

// ConfirmPayment marks the request paid and advances it to SUBMITTED.
func (s *Service) ConfirmPayment(ctx context.Context, requestID id.VerificationID, paymentID id.PaymentID) (*models.VerificationRequest, error) {
	actor := requestcontext.ActorID(ctx)
	return s.mutate(ctx, "ConfirmPayment", requestID, func(r *models.VerificationRequest, now time.Time) error {
		return r.ConfirmPayment(paymentID, actor, now)
	})
}

// QuoteParams carries the inputs for an itemized quote.
type QuoteParams struct {
	RequestID    id.VerificationID
	City         string
	DiscountCode string
}

// Quote computes the on-demand itemized price for a request: distance from
// the planner, surge from the demand feed, discounts from the promotions
// backend, everything else from the aggregate itself. The quote does not
// mutate the request; callers decide whether to re-price.
func (s *Service) Quote(ctx context.Context, params QuoteParams) (*pricing.Breakdown, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Quote")
	defer span.End()
	start := time.Now()

	request, err := s.requests.Load(ctx, params.RequestID)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	distanceKm, err := s.planner.DistanceKm(ctx, request.Location)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve distance")
	}

	surgeMultiplier, err := s.surge.Multiplier(ctx, params.City)
	if err != nil {
		s.logger.WarnContext(ctx, "surge lookup failed, quoting at neutral",
			"request_id", params.RequestID.String(),
			"error", err.Error(),
		)
		surgeMultiplier = decimal.NewFromInt(1)
	}

	var discounts []pricing.Discount
	if params.DiscountCode != "" {
		discounts, err = s.discounts.DiscountsForCode(ctx, params.DiscountCode)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve discount code")
		}
	}

	scheduledAt := requestcontext.Now(ctx)
	if request.ScheduledDate != nil {
		scheduledAt = *request.ScheduledDate
	}

	breakdown, err := s.engine.Quote(
		request.Kind, scheduledAt, distanceKm,
		pricing.ModeFor(request.Kind), surgeMultiplier, discounts,
	)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementQuotes()
	if s.metrics != nil {
		s.metrics.QuoteDuration.Observe(time.Since(start).Seconds())
	}
	return breakdown, nil
}

// Suggestions re-quotes the request across time slots and returns the
// cheaper alternatives.
func (s *Service) Suggestions(ctx context.Context, params QuoteParams) ([]pricing.Suggestion, error) {
	request, err := s.requests.Load(ctx, params.RequestID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	distanceKm, err := s.planner.DistanceKm(ctx, request.Location)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve distance")
	}
	var discounts []pricing.Discount
	if params.DiscountCode != "" {
		discounts, err = s.discounts.DiscountsForCode(ctx, params.DiscountCode)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve discount code")
		}
	}
	scheduledAt := requestcontext.Now(ctx)
	if request.ScheduledDate != nil {
		scheduledAt = *request.ScheduledDate
	}
	return s.engine.Suggestions(request.Kind, scheduledAt, distanceKm, pricing.ModeFor(request.Kind), discounts)
}

// ReconcilePayments reports requests whose payment is marked paid while the
// status never advanced past PENDING_PAYMENT. Payment confirmation and
// status advancement are separate writes with no transactional guarantee,
// so this pass makes the gap detectable.
func (s *Service) ReconcilePayments(ctx context.Context) ([]*models.VerificationRequest, error) {
	ctx, span := s.tracer.Start(ctx, "verification.ReconcilePayments")
	defer span.End()

	mismatched, err := s.requests.ListPaidPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan for payment mismatches")
	}
	s.metrics.SetPaymentMismatches(len(mismatched))
	for _, request := range mismatched {
		s.logger.WarnContext(ctx, "payment confirmed but status still pending",
			"request_id", request.ID.String(),
			"payment_reference", request.PaymentReference,
		)
	}
	return mismatched, nil
}

func translateStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "verification request not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "verification store failure")
}
