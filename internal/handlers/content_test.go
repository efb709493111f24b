package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliohq/folio-api/internal/handlers"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects_FeaturedFilter(t *testing.T) {
	var gotFeaturedOnly bool
	mockService := &handlers.MockContentService{
		ListProjectsFunc: func(ctx context.Context, featuredOnly bool) ([]*models.Project, error) {
			gotFeaturedOnly = featuredOnly
			return []*models.Project{{ID: "p1", Title: "Folio", Slug: "folio"}}, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/api/projects?featured=true", nil)

	w := httptest.NewRecorder()
	handler.ListProjects(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusOK)
	assert.True(t, envelope.Success)
	assert.True(t, gotFeaturedOnly)

	var data struct {
		Projects []handlers.ProjectResponse `json:"projects"`
	}
	handlers.EnvelopeData(t, envelope, &data)
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "folio", data.Projects[0].Slug)
}

func TestGetProject_NotFound(t *testing.T) {
	handler := handlers.NewContentHandler(&handlers.MockContentService{})
	req := handlers.WithChiID(handlers.NewTestRequest(t, "GET", "/api/projects/missing", nil), "missing")

	w := httptest.NewRecorder()
	handler.GetProject(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusNotFound)
	assert.False(t, envelope.Success)
}

func TestCreateProject_Success(t *testing.T) {
	mockService := &handlers.MockContentService{
		CreateProjectFunc: func(ctx context.Context, project *models.Project) (*models.Project, error) {
			project.ID = "p1"
			project.Slug = "my-project"
			return project, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/api/projects", handlers.ProjectRequest{
		Title:       "My Project",
		Description: "A thing I built",
		RepoURL:     "https://github.com/foliohq/folio-api",
	})

	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusCreated)
	assert.Equal(t, "Project created", envelope.Message)
}

func TestCreateProject_InvalidURL(t *testing.T) {
	handler := handlers.NewContentHandler(&handlers.MockContentService{})
	req := handlers.NewTestRequest(t, "POST", "/api/projects", handlers.ProjectRequest{
		Title:       "My Project",
		Description: "A thing I built",
		RepoURL:     "not a url",
	})

	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusBadRequest)
}

func TestCreateProject_SlugConflict(t *testing.T) {
	mockService := &handlers.MockContentService{
		CreateProjectFunc: func(ctx context.Context, project *models.Project) (*models.Project, error) {
			return nil, models.ErrConflict
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/api/projects", handlers.ProjectRequest{
		Title:       "My Project",
		Description: "A thing I built",
	})

	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusBadRequest)
	assert.Equal(t, "A resource with that slug already exists", envelope.Message)
}

func TestDeleteProject_Success(t *testing.T) {
	var gotID string
	mockService := &handlers.MockContentService{
		DeleteProjectFunc: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.WithChiID(handlers.NewTestRequest(t, "DELETE", "/api/projects/p1", nil), "p1")

	w := httptest.NewRecorder()
	handler.DeleteProject(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusOK)
	assert.Equal(t, "p1", gotID)
}

func TestCreateTechnology_ProficiencyBounds(t *testing.T) {
	handler := handlers.NewContentHandler(&handlers.MockContentService{})
	req := handlers.NewTestRequest(t, "POST", "/api/technologies", handlers.TechnologyRequest{
		Name:        "Go",
		Category:    "backend",
		Proficiency: 150,
	})

	w := httptest.NewRecorder()
	handler.CreateTechnology(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusBadRequest)
}

func TestCreateExperience_Success(t *testing.T) {
	var got *models.Experience
	mockService := &handlers.MockContentService{
		CreateExperienceFunc: func(ctx context.Context, entry *models.Experience) (*models.Experience, error) {
			entry.ID = "e1"
			got = entry
			return entry, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/api/experience", handlers.ExperienceRequest{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: "2022-03-01",
		EndDate:   "2024-06-30",
	})

	w := httptest.NewRecorder()
	handler.CreateExperience(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusCreated)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), got.StartDate)
	require.NotNil(t, got.EndDate)

	var data struct {
		Experience handlers.ExperienceResponse `json:"experience"`
	}
	handlers.EnvelopeData(t, envelope, &data)
	assert.Equal(t, "2022-03-01", data.Experience.StartDate)
	assert.Equal(t, "2024-06-30", data.Experience.EndDate)
}

func TestCreateExperience_BadDates(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"malformed start", "March 2022", ""},
		{"malformed end", "2022-03-01", "soon"},
		{"end before start", "2022-03-01", "2021-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewContentHandler(&handlers.MockContentService{})
			req := handlers.NewTestRequest(t, "POST", "/api/experience", handlers.ExperienceRequest{
				Company:   "Acme",
				Position:  "Engineer",
				StartDate: tt.start,
				EndDate:   tt.end,
			})

			w := httptest.NewRecorder()
			handler.CreateExperience(w, req)

			handlers.DecodeEnvelope(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreateEducation_OngoingHasNoEndDate(t *testing.T) {
	mockService := &handlers.MockContentService{
		CreateEducationFunc: func(ctx context.Context, entry *models.Education) (*models.Education, error) {
			entry.ID = "ed1"
			return entry, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/api/education", handlers.EducationRequest{
		Institution: "State University",
		Degree:      "BSc",
		Field:       "Computer Science",
		StartDate:   "2023-09-01",
	})

	w := httptest.NewRecorder()
	handler.CreateEducation(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusCreated)

	var data struct {
		Education handlers.EducationResponse `json:"education"`
	}
	handlers.EnvelopeData(t, envelope, &data)
	assert.Empty(t, data.Education.EndDate)
}

func TestSubmitContact_Success(t *testing.T) {
	var got *models.Message
	mockService := &handlers.MockContentService{
		SubmitMessageFunc: func(ctx context.Context, msg *models.Message) (*models.Message, error) {
			msg.ID = "m1"
			got = msg
			return msg, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/api/contact", handlers.ContactRequest{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Hello",
		Body:    "Nice portfolio",
	})

	w := httptest.NewRecorder()
	handler.SubmitContact(w, req)

	envelope := handlers.DecodeEnvelope(t, w, http.StatusCreated)
	assert.Equal(t, "Message received", envelope.Message)
	require.NotNil(t, got)
	assert.Equal(t, "visitor@example.com", got.Email)
	// The stored message is not echoed back to the visitor
	assert.Nil(t, envelope.Data)
}

func TestSubmitContact_InvalidEmail(t *testing.T) {
	handler := handlers.NewContentHandler(&handlers.MockContentService{})
	req := handlers.NewTestRequest(t, "POST", "/api/contact", handlers.ContactRequest{
		Name:    "Visitor",
		Email:   "not-an-email",
		Subject: "Hello",
		Body:    "Nice portfolio",
	})

	w := httptest.NewRecorder()
	handler.SubmitContact(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusBadRequest)
}

func TestListMessages_PassesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	mockService := &handlers.MockContentService{
		ListMessagesFunc: func(ctx context.Context, limit, offset int) ([]*models.Message, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.Message{}, nil
		},
	}

	handler := handlers.NewContentHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/api/messages?limit=10&offset=20", nil)

	w := httptest.NewRecorder()
	handler.ListMessages(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusOK)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestMarkMessageRead_NotFound(t *testing.T) {
	handler := handlers.NewContentHandler(&handlers.MockContentService{})
	req := handlers.WithChiID(handlers.NewTestRequest(t, "PUT", "/api/messages/m1/read", nil), "m1")

	w := httptest.NewRecorder()
	handler.MarkMessageRead(w, req)

	handlers.DecodeEnvelope(t, w, http.StatusNotFound)
}
