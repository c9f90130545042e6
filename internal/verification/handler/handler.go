// Package handler is the thin HTTP layer over the verification service.
// It parses and validates wire input, delegates to the service, and writes
// JSON envelopes; no business logic lives here.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritask/internal/platform/middleware"
	"veritask/internal/pricing/location"
	"veritask/internal/verification/service"
	id "veritask/pkg/domain"
	dErrors "veritask/pkg/domain-errors"
	"veritask/internal/transport/http/shared"
	"veritask/pkg/requestcontext"
)

// Handler handles verification request endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *service.Service
	locations *location.Resolver
	validator middleware.JWTValidator
}

// New creates a Handler.
func New(svc *service.Service, locations *location.Resolver, validator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		service:   svc,
		locations: locations,
		validator: validator,
	}
}

// Register mounts the verification routes.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	if h.validator != nil {
		router.Use(middleware.RequireAuth(h.validator, h.logger))
	}

	router.Post("/verifications", h.handleCreate)
	router.Get("/verifications", h.handleList)
	router.Get("/verifications/{id}", h.handleGet)
	router.Post("/verifications/{id}/submit", h.handleSubmit)
	router.Post("/verifications/{id}/assign", h.handleAssign)
	router.Post("/verifications/{id}/start", h.handleStart)
	router.Post("/verifications/{id}/complete", h.handleComplete)
	router.Post("/verifications/{id}/cancel", h.handleCancel)
	router.Post("/verifications/{id}/reject", h.handleReject)
	router.Post("/verifications/{id}/revision", h.handleRevision)
	router.Post("/verifications/{id}/schedule", h.handleSchedule)
	router.Post("/verifications/{id}/attachments", h.handleAddAttachment)
	router.Delete("/verifications/{id}/attachments", h.handleRemoveAttachment)
	router.Post("/verifications/{id}/payment/pending", h.handlePendingPayment)
	router.Post("/verifications/{id}/payment/confirm", h.handleConfirmPayment)
	router.Get("/verifications/{id}/quote", h.handleQuote)
	router.Get("/verifications/{id}/suggestions", h.handleSuggestions)
	router.Get("/pricing/locations", h.handleResolveLocation)

	r.Mount("/", router)
}

func (h *Handler) requestID(r *http.Request) (id.VerificationID, error) {
	return id.ParseVerificationID(chi.URLParam(r, "id"))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	clientID, err := id.ParseClientID(req.ClientID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	kind, err := req.kind()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	point, err := req.location()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), service.CreateParams{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Kind:        kind,
		Location:    point,
		Notes:       req.Notes,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clientID, err := id.ParseClientID(r.URL.Query().Get("client_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	requests, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID, err := h.requestID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	request, err := h.service.Get(r.Context(), requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Submit(r.Context(), requestID)
	})
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	agentID, err := id.ParseAgentID(req.AgentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Assign(r.Context(), requestID, agentID)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Start(r.Context(), requestID)
	})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Complete(r.Context(), requestID)
	})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Cancel(r.Context(), requestID, req.Reason)
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Reject(r.Context(), requestID, req.Reason)
	})
}

func (h *Handler) handleRevision(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.RequestRevision(r.Context(), requestID, req.Reason)
	})
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.Schedule(r.Context(), requestID, req.Date)
	})
}

func (h *Handler) handleAddAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.AddAttachment(r.Context(), requestID, req.URL)
	})
}

func (h *Handler) handleRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.RemoveAttachment(r.Context(), requestID, req.URL)
	})
}

func (h *Handler) handlePendingPayment(w http.ResponseWriter, r *http.Request) {
	var req pendingPaymentRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.SetPendingPayment(r.Context(), requestID, req.Reference)
	})
}

func (h *Handler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := decode(r.Body, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	paymentID, err := id.ParsePaymentID(req.PaymentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.mutation(w, r, func(requestID id.VerificationID) (any, error) {
		return h.service.ConfirmPayment(r.Context(), requestID, paymentID)
	})
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	requestID, err := h.requestID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	breakdown, err := h.service.Quote(r.Context(), service.QuoteParams{
		RequestID:    requestID,
		City:         r.URL.Query().Get("city"),
		DiscountCode: r.URL.Query().Get("discount_code"),
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	requestID, err := h.requestID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	suggestions, err := h.service.Suggestions(r.Context(), service.QuoteParams{
		RequestID:    requestID,
		City:         r.URL.Query().Get("city"),
		DiscountCode: r.URL.Query().Get("discount_code"),
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) handleResolveLocation(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "city is required"))
		return
	}
	resolution, err := h.locations.Resolve(r.Context(), city, r.URL.Query().Get("area"), requestcontext.Now(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resolution)
}

// mutation shares the parse-id / call / respond shape of the lifecycle
// endpoints.
func (h *Handler) mutation(w http.ResponseWriter, r *http.Request, call func(requestID id.VerificationID) (any, error)) {
	requestID, err := h.requestID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := call(requestID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
