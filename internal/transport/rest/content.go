package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/query"
	"github.com/tutorhive/tutorhive-backend/internal/service/content"
)

// contentService defines the minimal interface needed by ContentHandler.
type contentService interface {
	Create(ctx context.Context, input content.CreateInput) (*domain.ContentItem, error)
	Update(ctx context.Context, input content.UpdateInput) (*domain.ContentItem, error)
	Review(ctx context.Context, input content.ReviewInput) (*domain.ContentItem, error)
	Delete(ctx context.Context, input content.DeleteInput) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	GetActive(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (*domain.ContentItem, error)
	List(ctx context.Context, c query.Criteria) (*content.ListResult, error)
	Queue(ctx context.Context, contentType domain.ContentType, pageSize *int, pageNumber int) (*content.ListResult, error)
}

// ContentHandler serves the content workflow REST endpoints.
type ContentHandler struct {
	svc contentService
	log *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(svc contentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, log: logger.With("handler", "content")}
}

// pathTypes maps URL segments to content types.
var pathTypes = map[string]domain.ContentType{
	"curricula": domain.ContentTypeCurriculum,
	"syllabi":   domain.ContentTypeSyllabus,
	"exercises": domain.ContentTypeExercise,
	"questions": domain.ContentTypeQuestion,
}

func contentTypeFromPath(r *http.Request) (domain.ContentType, bool) {
	t, ok := pathTypes[r.PathValue("type")]
	return t, ok
}

type exerciseGroupRequest struct {
	ExerciseTypeID string   `json:"exerciseTypeId"`
	ExerciseIDs    []string `json:"exerciseIds"`
}

type payloadRequest struct {
	Title          string                 `json:"title"`
	Body           *string                `json:"body"`
	AgeMin         *int                   `json:"ageMin"`
	AgeMax         *int                   `json:"ageMax"`
	ExerciseTypeID *string                `json:"exerciseTypeId"`
	Exercises      []exerciseGroupRequest `json:"exercises"`
}

func (p payloadRequest) toInput() (content.Payload, error) {
	out := content.Payload{
		Title:  p.Title,
		Body:   p.Body,
		AgeMin: p.AgeMin,
		AgeMax: p.AgeMax,
	}

	if p.ExerciseTypeID != nil {
		id, err := uuid.Parse(*p.ExerciseTypeID)
		if err != nil {
			return content.Payload{}, domain.NewValidationError("exerciseTypeId", "must be a UUID")
		}
		out.ExerciseTypeID = &id
	}

	for _, g := range p.Exercises {
		typeID, err := uuid.Parse(g.ExerciseTypeID)
		if err != nil {
			return content.Payload{}, domain.NewValidationError("exercises", "exerciseTypeId must be a UUID")
		}
		group := content.ExerciseGroupInput{ExerciseTypeID: typeID}
		for _, raw := range g.ExerciseIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return content.Payload{}, domain.NewValidationError("exercises", "exerciseIds must be UUIDs")
			}
			group.ExerciseIDs = append(group.ExerciseIDs, id)
		}
		out.Exercises = append(out.Exercises, group)
	}

	return out, nil
}

type reviewRequest struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason"`
}

type exerciseGroupResponse struct {
	ExerciseTypeID string   `json:"exerciseTypeId"`
	ExerciseIDs    []string `json:"exerciseIds"`
}

type contentResponse struct {
	ID             string                  `json:"id"`
	Type           string                  `json:"type"`
	OwnerID        string                  `json:"ownerId"`
	FamilyID       string                  `json:"familyId"`
	Version        int                     `json:"version"`
	Status         string                  `json:"status"`
	RejectReason   *string                 `json:"rejectReason,omitempty"`
	IsActive       bool                    `json:"isActive"`
	Title          string                  `json:"title"`
	Body           *string                 `json:"body,omitempty"`
	AgeMin         *int                    `json:"ageMin,omitempty"`
	AgeMax         *int                    `json:"ageMax,omitempty"`
	ExerciseTypeID *string                 `json:"exerciseTypeId,omitempty"`
	Exercises      []exerciseGroupResponse `json:"exercises,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

type listResponse struct {
	Items      []contentResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
	PageSize   int               `json:"pageSize"`
	PageNumber int               `json:"pageNumber"`
}

func toContentResponse(item *domain.ContentItem) contentResponse {
	resp := contentResponse{
		ID:           item.ID.String(),
		Type:         item.Type.String(),
		OwnerID:      item.OwnerID.String(),
		FamilyID:     item.FamilyID.String(),
		Version:      item.Version,
		Status:       item.Status.String(),
		RejectReason: item.RejectReason,
		IsActive:     item.IsActive,
		Title:        item.Title,
		Body:         item.Body,
		AgeMin:       item.AgeMin,
		AgeMax:       item.AgeMax,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.ExerciseTypeID != nil {
		s := item.ExerciseTypeID.String()
		resp.ExerciseTypeID = &s
	}
	for _, g := range item.Exercises {
		group := exerciseGroupResponse{ExerciseTypeID: g.ExerciseTypeID.String()}
		for _, id := range g.ExerciseIDs {
			group.ExerciseIDs = append(group.ExerciseIDs, id.String())
		}
		resp.Exercises = append(resp.Exercises, group)
	}
	return resp
}

func toListResponse(result *content.ListResult) listResponse {
	items := make([]contentResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toContentResponse(&result.Items[i])
	}
	return listResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		PageSize:   result.PageSize,
		PageNumber: result.PageNumber,
	}
}

// Create handles POST /api/v1/content/{type}.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	contentType, ok := contentTypeFromPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "unknown content type")
		return
	}

	var req payloadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	payload, err := req.toInput()
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	item, err := h.svc.Create(r.Context(), content.CreateInput{Type: contentType, Payload: payload})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toContentResponse(item))
}

// Update handles PUT /api/v1/items/{id}.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "id must be a UUID")
		return
	}

	var req payloadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	payload, err := req.toInput()
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	item, err := h.svc.Update(r.Context(), content.UpdateInput{ID: id, Payload: payload})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toContentResponse(item))
}

// Review handles POST /api/v1/items/{id}/review.
func (h *ContentHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "id must be a UUID")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	item, err := h.svc.Review(r.Context(), content.ReviewInput{
		ID:       id,
		Decision: domain.ReviewDecision(req.Decision),
		Reason:   req.Reason,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toContentResponse(item))
}

// Delete handles DELETE /api/v1/items/{id}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "id must be a UUID")
		return
	}

	if err := h.svc.Delete(r.Context(), content.DeleteInput{ID: id}); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/v1/items/{id}.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "id must be a UUID")
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toContentResponse(item))
}

// GetActive handles GET /api/v1/content/{type}/families/{familyId}/active.
func (h *ContentHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	contentType, ok := contentTypeFromPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "unknown content type")
		return
	}
	familyID, err := uuid.Parse(r.PathValue("familyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "familyId must be a UUID")
		return
	}

	item, err := h.svc.GetActive(r.Context(), contentType, familyID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toContentResponse(item))
}

// List handles GET /api/v1/content/{type}.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	contentType, ok := contentTypeFromPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "unknown content type")
		return
	}

	criteria, err := criteriaFromQuery(r, contentType)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	result, err := h.svc.List(r.Context(), criteria)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(result))
}

// Queue handles GET /api/v1/content/{type}/queue.
func (h *ContentHandler) Queue(w http.ResponseWriter, r *http.Request) {
	contentType, ok := contentTypeFromPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, kindNotFound, "unknown content type")
		return
	}

	pageSize, err := intQueryParam(r, "pageSize")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	pageNumber := 0
	if n, err := intQueryParam(r, "pageNumber"); err != nil {
		respondError(w, r, h.log, err)
		return
	} else if n != nil {
		pageNumber = *n
	}

	result, err := h.svc.Queue(r.Context(), contentType, pageSize, pageNumber)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(result))
}

func criteriaFromQuery(r *http.Request, contentType domain.ContentType) (query.Criteria, error) {
	q := r.URL.Query()

	c := query.Criteria{
		Type:      contentType,
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	for _, s := range q["status"] {
		c.Statuses = append(c.Statuses, domain.RequestStatus(s))
	}

	if raw := q.Get("ownerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return query.Criteria{}, domain.NewValidationError("ownerId", "must be a UUID")
		}
		c.OwnerID = &id
	}

	pageSize, err := intQueryParam(r, "pageSize")
	if err != nil {
		return query.Criteria{}, err
	}
	c.PageSize = pageSize

	if n, err := intQueryParam(r, "pageNumber"); err != nil {
		return query.Criteria{}, err
	} else if n != nil {
		c.PageNumber = *n
	}

	return c, nil
}

func intQueryParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer")
	}
	return &n, nil
}
