package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/http/respond"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/models/dto"
)

// CampingService is the destination and programme surface used by CampingHandler.
type CampingService interface {
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	VerifyDestinationPassword(ctx context.Context, destinationID int64, password string) (bool, error)
	GetCampingInfo(ctx context.Context, id auth.Identity, destinationID int64) (models.CampingInfo, error)
	ListActivities(ctx context.Context, organizerID int64, period *models.DateRange) ([]models.ActivityView, error)
}

// CampingHandler serves destinations, vacation password checks, camping info and activities.
type CampingHandler struct {
	svc CampingService
	Options
}

// NewCampingHandler constructs the handler.
func NewCampingHandler(svc CampingService, opts Options) *CampingHandler {
	return &CampingHandler{svc: svc, Options: opts}
}

// Register attaches camping routes. Only camping info requires authentication.
func (h *CampingHandler) Register(mux *http.ServeMux, requireAuth Middleware) {
	mux.HandleFunc("GET /api/mobile/destinations", h.handleDestinations)
	mux.HandleFunc("POST /api/mobile/verify-password", h.handleVerifyPassword)
	// camping/info/{id} and camping/{id}/activities overlap as ServeMux
	// patterns, so one route dispatches both.
	info := requireAuth(http.HandlerFunc(h.handleInfo))
	mux.HandleFunc("GET /api/mobile/camping/{first}/{second}", func(w http.ResponseWriter, r *http.Request) {
		first, second := r.PathValue("first"), r.PathValue("second")
		switch {
		case first == "info":
			r.SetPathValue("id", second)
			info.ServeHTTP(w, r)
		case second == "activities":
			r.SetPathValue("id", first)
			h.handleActivities(w, r)
		default:
			respond.Error(w, http.StatusNotFound, "not found")
		}
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

func (h *CampingHandler) handleDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.svc.ListDestinations(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to fetch destinations")
		return
	}
	respond.JSON(w, http.StatusOK, dto.DestinationsResponse{
		Destinations: destinations,
		Count:        len(destinations),
		Message:      "Destinations retrieved successfully",
	})
}

func (h *CampingHandler) handleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "invalid JSON payload")
		return
	}
	if req.DestinationID == nil || req.Password == nil {
		h.fail(w, r, apperr.Validation("destinationId and password are required"), "")
		return
	}
	ok, err := h.svc.VerifyDestinationPassword(r.Context(), int64(*req.DestinationID), *req.Password)
	if err != nil {
		h.fail(w, r, err, "failed to verify password")
		return
	}
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, dto.VerifyPasswordResponse{Valid: false, Message: "Invalid password"})
		return
	}
	respond.JSON(w, http.StatusOK, dto.VerifyPasswordResponse{Valid: true, Message: "Password is valid"})
}

func (h *CampingHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	info, err := h.svc.GetCampingInfo(r.Context(), identity(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to fetch camping")
		return
	}
	respond.JSON(w, http.StatusOK, info)
}

func (h *CampingHandler) handleActivities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	q := r.URL.Query()
	period, err := models.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.fail(w, r, apperr.Validation(err.Error()), "")
		return
	}
	activities, err := h.svc.ListActivities(r.Context(), id, period)
	if err != nil {
		h.fail(w, r, err, "failed to fetch activities")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ActivitiesResponse{Activities: activities})
}
