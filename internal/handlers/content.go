package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/foliohq/folio-api/internal/models"
	pkghttp "github.com/foliohq/folio-api/pkg/http"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// ContentServiceInterface defines the interface for portfolio content logic
type ContentServiceInterface interface {
	ListProjects(ctx context.Context, featuredOnly bool) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, project *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListTechnologies(ctx context.Context) ([]*models.Technology, error)
	CreateTechnology(ctx context.Context, tech *models.Technology) (*models.Technology, error)
	UpdateTechnology(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error)
	DeleteTechnology(ctx context.Context, id string) error

	ListExperience(ctx context.Context) ([]*models.Experience, error)
	CreateExperience(ctx context.Context, entry *models.Experience) (*models.Experience, error)
	UpdateExperience(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error)
	DeleteExperience(ctx context.Context, id string) error

	ListEducation(ctx context.Context) ([]*models.Education, error)
	CreateEducation(ctx context.Context, entry *models.Education) (*models.Education, error)
	UpdateEducation(ctx context.Context, id string, entry *models.Education) (*models.Education, error)
	DeleteEducation(ctx context.Context, id string) error

	SubmitMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, limit, offset int) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
}

// ContentHandler handles portfolio content HTTP requests
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// Request/Response DTOs

type ProjectRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Slug         string   `json:"slug" validate:"omitempty,max=200"`
	Description  string   `json:"description" validate:"required"`
	Technologies []string `json:"technologies"`
	ImageURL     string   `json:"imageUrl" validate:"omitempty,url"`
	LiveURL      string   `json:"liveUrl" validate:"omitempty,url"`
	RepoURL      string   `json:"repoUrl" validate:"omitempty,url"`
	Featured     bool     `json:"featured"`
	DisplayOrder int      `json:"displayOrder"`
}

type ProjectResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	RepoURL      string    `json:"repoUrl,omitempty"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type TechnologyRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Category     string `json:"category" validate:"required,min=1,max=100"`
	IconURL      string `json:"iconUrl" validate:"omitempty,url"`
	Proficiency  int    `json:"proficiency" validate:"gte=0,lte=100"`
	DisplayOrder int    `json:"displayOrder"`
}

type TechnologyResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	IconURL      string `json:"iconUrl,omitempty"`
	Proficiency  int    `json:"proficiency"`
	DisplayOrder int    `json:"displayOrder"`
}

type ExperienceRequest struct {
	Company      string `json:"company" validate:"required,min=1,max=200"`
	Position     string `json:"position" validate:"required,min=1,max=200"`
	Summary      string `json:"summary"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate"`
	DisplayOrder int    `json:"displayOrder"`
}

type ExperienceResponse struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	Summary      string `json:"summary,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

type EducationRequest struct {
	Institution  string `json:"institution" validate:"required,min=1,max=200"`
	Degree       string `json:"degree" validate:"required,min=1,max=200"`
	Field        string `json:"field" validate:"omitempty,max=200"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate"`
	DisplayOrder int    `json:"displayOrder"`
}

type EducationResponse struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	Field        string `json:"field,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Body    string `json:"body" validate:"required,min=1,max=5000"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func projectToResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Technologies: p.Technologies,
		ImageURL:     p.ImageURL,
		LiveURL:      p.LiveURL,
		RepoURL:      p.RepoURL,
		Featured:     p.Featured,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func technologyToResponse(t *models.Technology) *TechnologyResponse {
	return &TechnologyResponse{
		ID:           t.ID,
		Name:         t.Name,
		Category:     t.Category,
		IconURL:      t.IconURL,
		Proficiency:  t.Proficiency,
		DisplayOrder: t.DisplayOrder,
	}
}

func experienceToResponse(e *models.Experience) *ExperienceResponse {
	resp := &ExperienceResponse{
		ID:           e.ID,
		Company:      e.Company,
		Position:     e.Position,
		Summary:      e.Summary,
		StartDate:    e.StartDate.Format(dateLayout),
		DisplayOrder: e.DisplayOrder,
	}
	if e.EndDate != nil {
		resp.EndDate = e.EndDate.Format(dateLayout)
	}
	return resp
}

func educationToResponse(e *models.Education) *EducationResponse {
	resp := &EducationResponse{
		ID:           e.ID,
		Institution:  e.Institution,
		Degree:       e.Degree,
		Field:        e.Field,
		StartDate:    e.StartDate.Format(dateLayout),
		DisplayOrder: e.DisplayOrder,
	}
	if e.EndDate != nil {
		resp.EndDate = e.EndDate.Format(dateLayout)
	}
	return resp
}

func messageToResponse(m *models.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// parseDateRange parses startDate and an optional endDate
func parseDateRange(start, end string) (time.Time, *time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, nil, errors.New("startDate must be formatted as YYYY-MM-DD")
	}

	if end == "" {
		return startDate, nil, nil
	}

	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, nil, errors.New("endDate must be formatted as YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return time.Time{}, nil, errors.New("endDate must not be before startDate")
	}
	return startDate, &endDate, nil
}

func writeContentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteBadRequest(w, "A resource with that slug already exists")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// Projects

func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	featuredOnly := r.URL.Query().Get("featured") == "true"

	projects, err := h.service.ListProjects(r.Context(), featuredOnly)
	if err != nil {
		writeContentError(w, err)
		return
	}

	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectToResponse(p))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"projects": out})
}

func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"project": projectToResponse(project)})
}

func (h *ContentHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	project, err := h.service.CreateProject(r.Context(), &models.Project{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Technologies: req.Technologies,
		ImageURL:     req.ImageURL,
		LiveURL:      req.LiveURL,
		RepoURL:      req.RepoURL,
		Featured:     req.Featured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Project created", map[string]interface{}{"project": projectToResponse(project)})
}

func (h *ContentHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	project, err := h.service.UpdateProject(r.Context(), chi.URLParam(r, "id"), &models.Project{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Technologies: req.Technologies,
		ImageURL:     req.ImageURL,
		LiveURL:      req.LiveURL,
		RepoURL:      req.RepoURL,
		Featured:     req.Featured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Project updated", map[string]interface{}{"project": projectToResponse(project)})
}

func (h *ContentHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Project deleted", nil)
}

// Technologies

func (h *ContentHandler) ListTechnologies(w http.ResponseWriter, r *http.Request) {
	techs, err := h.service.ListTechnologies(r.Context())
	if err != nil {
		writeContentError(w, err)
		return
	}

	out := make([]*TechnologyResponse, 0, len(techs))
	for _, t := range techs {
		out = append(out, technologyToResponse(t))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"technologies": out})
}

func (h *ContentHandler) CreateTechnology(w http.ResponseWriter, r *http.Request) {
	var req TechnologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	tech, err := h.service.CreateTechnology(r.Context(), &models.Technology{
		Name:         req.Name,
		Category:     req.Category,
		IconURL:      req.IconURL,
		Proficiency:  req.Proficiency,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Technology created", map[string]interface{}{"technology": technologyToResponse(tech)})
}

func (h *ContentHandler) UpdateTechnology(w http.ResponseWriter, r *http.Request) {
	var req TechnologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	tech, err := h.service.UpdateTechnology(r.Context(), chi.URLParam(r, "id"), &models.Technology{
		Name:         req.Name,
		Category:     req.Category,
		IconURL:      req.IconURL,
		Proficiency:  req.Proficiency,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Technology updated", map[string]interface{}{"technology": technologyToResponse(tech)})
}

func (h *ContentHandler) DeleteTechnology(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTechnology(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Technology deleted", nil)
}

// Experience

func (h *ContentHandler) ListExperience(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListExperience(r.Context())
	if err != nil {
		writeContentError(w, err)
		return
	}

	out := make([]*ExperienceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, experienceToResponse(e))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"experience": out})
}

func (h *ContentHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	entry, err := h.service.CreateExperience(r.Context(), &models.Experience{
		Company:      req.Company,
		Position:     req.Position,
		Summary:      req.Summary,
		StartDate:    startDate,
		EndDate:      endDate,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Experience created", map[string]interface{}{"experience": experienceToResponse(entry)})
}

func (h *ContentHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	entry, err := h.service.UpdateExperience(r.Context(), chi.URLParam(r, "id"), &models.Experience{
		Company:      req.Company,
		Position:     req.Position,
		Summary:      req.Summary,
		StartDate:    startDate,
		EndDate:      endDate,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Experience updated", map[string]interface{}{"experience": experienceToResponse(entry)})
}

func (h *ContentHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExperience(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Experience deleted", nil)
}

// Education

func (h *ContentHandler) ListEducation(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEducation(r.Context())
	if err != nil {
		writeContentError(w, err)
		return
	}

	out := make([]*EducationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, educationToResponse(e))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"education": out})
}

func (h *ContentHandler) CreateEducation(w http.ResponseWriter, r *http.Request) {
	var req EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	entry, err := h.service.CreateEducation(r.Context(), &models.Education{
		Institution:  req.Institution,
		Degree:       req.Degree,
		Field:        req.Field,
		StartDate:    startDate,
		EndDate:      endDate,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Education created", map[string]interface{}{"education": educationToResponse(entry)})
}

func (h *ContentHandler) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	var req EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	entry, err := h.service.UpdateEducation(r.Context(), chi.URLParam(r, "id"), &models.Education{
		Institution:  req.Institution,
		Degree:       req.Degree,
		Field:        req.Field,
		StartDate:    startDate,
		EndDate:      endDate,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Education updated", map[string]interface{}{"education": educationToResponse(entry)})
}

func (h *ContentHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEducation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Education deleted", nil)
}

// Messages

func (h *ContentHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	_, err := h.service.SubmitMessage(r.Context(), &models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Message received", nil)
}

func (h *ContentHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.service.ListMessages(r.Context(), limit, offset)
	if err != nil {
		writeContentError(w, err)
		return
	}

	out := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageToResponse(m))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"messages": out})
}

func (h *ContentHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkMessageRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Message marked as read", nil)
}

func (h *ContentHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMessage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Message deleted", nil)
}
