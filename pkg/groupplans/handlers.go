package groupplans

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/studyhall/studyhall/pkg/httputil"
)

// maxImageUploadBytes bounds cover image uploads at 5 MiB
const maxImageUploadBytes = 5 << 20

// Handlers provides HTTP handlers for the group plan resource
type Handlers struct {
	service Service
	images  ImageStore
	logger  *logrus.Logger
}

// NewHandlers creates group plan handlers
func NewHandlers(service Service, images ImageStore, logger *logrus.Logger) *Handlers {
	return &Handlers{service: service, images: images, logger: logger}
}

// RegisterRoutes registers group plan routes on the router
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/group-plans", h.ListPlans).Methods("GET")
	r.HandleFunc("/api/group-plans", h.CreatePlan).Methods("POST")
	r.HandleFunc("/api/group-plans/active", h.ListActivePlans).Methods("GET")
	r.HandleFunc("/api/group-plans/upcoming", h.ListUpcomingPlans).Methods("GET")
	r.HandleFunc("/api/group-plans/location", h.ListPlansByLocation).Methods("GET")
	r.HandleFunc("/api/group-plans/available", h.ListAvailablePlans).Methods("GET")
	r.HandleFunc("/api/group-plans/creator/{creatorId}", h.ListPlansByCreator).Methods("GET")
	r.HandleFunc("/api/group-plans/participant/{participantId}", h.ListPlansByParticipant).Methods("GET")
	r.HandleFunc("/api/group-plans/upload-image", h.UploadImage).Methods("POST")
	r.HandleFunc("/api/group-plans/{id}", h.GetPlan).Methods("GET")
	r.HandleFunc("/api/group-plans/{id}", h.UpdatePlan).Methods("PUT")
	r.HandleFunc("/api/group-plans/{id}", h.DeletePlan).Methods("DELETE")
	r.HandleFunc("/api/group-plans/{id}/status", h.UpdatePlanStatus).Methods("PATCH")
	r.HandleFunc("/api/group-plans/{planId}/participants/{participantId}", h.AddParticipant).Methods("POST")
	r.HandleFunc("/api/group-plans/{planId}/participants/{participantId}", h.RemoveParticipant).Methods("DELETE")
}

// ListPlans returns all plans
func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list plans")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plans)
}

// GetPlan returns a single plan by ID
func (h *Handlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", id).Error("Failed to get plan")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plan)
}

// CreatePlan stores a new plan
func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var plan GroupPlan
	if !httputil.ParseJSONOrError(w, r, &plan) {
		return
	}
	if !httputil.RequireNonEmpty(w, plan.Name, "name") {
		return
	}

	created, err := h.service.Create(r.Context(), &plan)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create plan")
		httputil.WriteInternalError(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"plan_id":    created.ID,
		"creator_id": created.CreatorID,
	}).Info("Plan created")
	httputil.WriteCreated(w, created)
}

// UpdatePlan replaces a plan's editable fields
func (h *Handlers) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var plan GroupPlan
	if !httputil.ParseJSONOrError(w, r, &plan) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, &plan)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", id).Error("Failed to update plan")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// DeletePlan removes a plan
func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", id).Error("Failed to delete plan")
		httputil.WriteInternalError(w, err)
		return
	}

	h.logger.WithField("plan_id", id).Info("Plan deleted")
	httputil.WriteNoContent(w)
}

// ListPlansByCreator returns the plans created by the given user
func (h *Handlers) ListPlansByCreator(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := httputil.ParsePathInt64OrError(w, r, "creatorId")
	if !ok {
		return
	}
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListByCreator(r.Context(), creatorID)
	})
}

// ListActivePlans returns plans whose status is ACTIVE
func (h *Handlers) ListActivePlans(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListActive(r.Context())
	})
}

// ListUpcomingPlans returns active plans that have not started yet
func (h *Handlers) ListUpcomingPlans(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListUpcoming(r.Context())
	})
}

// ListPlansByLocation returns plans matching the location query parameter
func (h *Handlers) ListPlansByLocation(w http.ResponseWriter, r *http.Request) {
	location := httputil.ParseQueryString(r, "location", "")
	if !httputil.RequireNonEmpty(w, location, "location") {
		return
	}
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListByLocation(r.Context(), location)
	})
}

// ListAvailablePlans returns active plans with free roster capacity
func (h *Handlers) ListAvailablePlans(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListAvailable(r.Context())
	})
}

// ListPlansByParticipant returns the plans the given user has joined
func (h *Handlers) ListPlansByParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, ok := httputil.ParsePathInt64OrError(w, r, "participantId")
	if !ok {
		return
	}
	h.writeList(w, r, func() ([]GroupPlan, error) {
		return h.service.ListByParticipant(r.Context(), participantID)
	})
}

// AddParticipant adds a user to a plan's roster. A full roster or a repeat
// join responds with 400.
func (h *Handlers) AddParticipant(w http.ResponseWriter, r *http.Request) {
	planID, ok := httputil.ParsePathInt64OrError(w, r, "planId")
	if !ok {
		return
	}
	participantID, ok := httputil.ParsePathInt64OrError(w, r, "participantId")
	if !ok {
		return
	}

	added, err := h.service.AddParticipant(r.Context(), planID, participantID)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", planID).Error("Failed to add participant")
		httputil.WriteInternalError(w, err)
		return
	}
	if !added {
		httputil.WriteBadRequest(w, "Could not add participant to the plan")
		return
	}

	plan, err := h.service.Get(r.Context(), planID)
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", planID).Error("Failed to reload plan")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plan)
}

// RemoveParticipant removes a user from a plan's roster. Responds with 400
// when the user was not on it.
func (h *Handlers) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	planID, ok := httputil.ParsePathInt64OrError(w, r, "planId")
	if !ok {
		return
	}
	participantID, ok := httputil.ParsePathInt64OrError(w, r, "participantId")
	if !ok {
		return
	}

	removed, err := h.service.RemoveParticipant(r.Context(), planID, participantID)
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", planID).Error("Failed to remove participant")
		httputil.WriteInternalError(w, err)
		return
	}
	if !removed {
		httputil.WriteBadRequest(w, "Could not remove participant from the plan")
		return
	}

	plan, err := h.service.Get(r.Context(), planID)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", planID).Error("Failed to reload plan")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plan)
}

// UpdatePlanStatus sets a plan's lifecycle status from the status query
// parameter
func (h *Handlers) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	status := httputil.ParseQueryString(r, "status", "")
	if !httputil.RequireNonEmpty(w, status, "status") {
		return
	}

	plan, err := h.service.UpdateStatus(r.Context(), id, status)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Plan not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("plan_id", id).Error("Failed to update status")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plan)
}

// UploadImage stores a cover image from a multipart form and returns the URL
// it will be served under. When a planId query parameter is present the plan
// is pointed at the new image in the same request.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		httputil.WriteBadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	name, err := h.images.Save(header.Filename, file)
	if err != nil {
		h.logger.WithError(err).Error("Failed to store image")
		httputil.WriteInternalError(w, err)
		return
	}
	imageURL := "/uploads/" + name

	planID, err := httputil.ParseQueryInt64(r, "planId", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if planID != 0 {
		if _, err := h.service.SetImageURL(r.Context(), planID, imageURL); err != nil {
			if errors.Is(err, ErrNotFound) {
				httputil.WriteNotFoundError(w, "Plan not found")
				return
			}
			h.logger.WithError(err).WithField("plan_id", planID).Error("Failed to set image")
			httputil.WriteInternalError(w, err)
			return
		}
	}

	h.logger.WithField("image", name).Info("Image uploaded")
	httputil.WriteSuccess(w, map[string]string{"imageUrl": imageURL})
}

func (h *Handlers) writeList(w http.ResponseWriter, r *http.Request, list func() ([]GroupPlan, error)) {
	plans, err := list()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list plans")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, plans)
}
