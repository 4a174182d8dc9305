package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/markjakearzadon/announcements-gobackend/internal/metrics"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"github.com/markjakearzadon/announcements-gobackend/internal/services"
	"go.uber.org/zap"
)

// AnnouncementHandler handles HTTP requests for announcements
type AnnouncementHandler struct {
	announcementService *services.AnnouncementService
	validator           *requestValidator
	metrics             *metrics.Metrics
	logger              *zap.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler. m may be nil.
func NewAnnouncementHandler(announcementService *services.AnnouncementService, m *metrics.Metrics, logger *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		validator:           newRequestValidator(),
		metrics:             m,
		logger:              logger.Named("AnnouncementHandler"),
	}
}

// RegisterRoutes mounts the announcement endpoints on router.
func (h *AnnouncementHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/announcements", h.GetAnnouncements).Methods("GET")
	router.HandleFunc("/api/announcements", h.CreateAnnouncement).Methods("POST")
	router.HandleFunc("/api/announcements/{announcementID}", h.GetAnnouncement).Methods("GET")
	router.HandleFunc("/api/announcements/{announcementID}", h.UpdateAnnouncement).Methods("PUT", "PATCH")
	router.HandleFunc("/api/announcements/{announcementID}", h.DeleteAnnouncement).Methods("DELETE")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeValidationErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fields})
}

func (h *AnnouncementHandler) writeServiceError(w http.ResponseWriter, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationErrors(w, verr.Fields)
	case errors.Is(err, repository.ErrStoreUnavailable):
		h.logger.Warn("Announcement store unavailable", zap.String("action", action), zap.Error(err))
		http.Error(w, "Announcement store unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("Announcement request failed", zap.String("action", action), zap.Error(err))
		http.Error(w, "Failed to "+action+" announcement", http.StatusInternalServerError)
	}
}

// announcementID reads and checks the path id. It writes the error response
// and returns false when the id is not a UUID.
func announcementID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)["announcementID"])
	if err != nil {
		http.Error(w, "Invalid announcement ID", http.StatusBadRequest)
		return "", false
	}
	return id.String(), true
}

func (h *AnnouncementHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*announcementRequest, bool) {
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if fields := h.validator.Validate(&req); fields != nil {
		writeValidationErrors(w, fields)
		return nil, false
	}
	return &req, true
}

// GetAnnouncements handles GET /api/announcements
func (h *AnnouncementHandler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcementService.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "retrieve")
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

// GetAnnouncement handles GET /api/announcements/{announcementID}
func (h *AnnouncementHandler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := announcementID(w, r)
	if !ok {
		return
	}

	details, found, err := h.announcementService.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "retrieve")
		return
	}
	if !found {
		http.Error(w, "Announcement not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// CreateAnnouncement handles POST /api/announcements
func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	created, err := h.announcementService.Add(r.Context(), req.Title, req.Description)
	if err != nil {
		h.writeServiceError(w, err, "create")
		return
	}
	if h.metrics != nil {
		h.metrics.AnnouncementsCreated.Inc()
	}

	w.Header().Set("Location", "/api/announcements/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateAnnouncement handles PUT and PATCH /api/announcements/{announcementID}
func (h *AnnouncementHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := announcementID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.announcementService.Update(r.Context(), id, req.Title, req.Description)
	if err != nil {
		h.writeServiceError(w, err, "update")
		return
	}
	if !updated {
		http.Error(w, "Announcement not found", http.StatusNotFound)
		return
	}
	if h.metrics != nil {
		h.metrics.AnnouncementsUpdated.Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAnnouncement handles DELETE /api/announcements/{announcementID}
func (h *AnnouncementHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := announcementID(w, r)
	if !ok {
		return
	}

	deleted, err := h.announcementService.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "delete")
		return
	}
	if !deleted {
		http.Error(w, "Announcement not found", http.StatusNotFound)
		return
	}
	if h.metrics != nil {
		h.metrics.AnnouncementsDeleted.Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}
