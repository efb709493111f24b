package handlers

import (
	"context"

	"github.com/foliohq/folio-api/internal/models"
)

// MockContentService implements ContentServiceInterface for testing. Only the
// funcs a test sets are exercised; the rest return zero values or ErrNotFound.
type MockContentService struct {
	ListProjectsFunc  func(ctx context.Context, featuredOnly bool) ([]*models.Project, error)
	GetProjectFunc    func(ctx context.Context, id string) (*models.Project, error)
	CreateProjectFunc func(ctx context.Context, project *models.Project) (*models.Project, error)
	UpdateProjectFunc func(ctx context.Context, id string, project *models.Project) (*models.Project, error)
	DeleteProjectFunc func(ctx context.Context, id string) error

	ListTechnologiesFunc func(ctx context.Context) ([]*models.Technology, error)
	CreateTechnologyFunc func(ctx context.Context, tech *models.Technology) (*models.Technology, error)
	UpdateTechnologyFunc func(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error)
	DeleteTechnologyFunc func(ctx context.Context, id string) error

	ListExperienceFunc   func(ctx context.Context) ([]*models.Experience, error)
	CreateExperienceFunc func(ctx context.Context, entry *models.Experience) (*models.Experience, error)
	UpdateExperienceFunc func(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error)
	DeleteExperienceFunc func(ctx context.Context, id string) error

	ListEducationFunc   func(ctx context.Context) ([]*models.Education, error)
	CreateEducationFunc func(ctx context.Context, entry *models.Education) (*models.Education, error)
	UpdateEducationFunc func(ctx context.Context, id string, entry *models.Education) (*models.Education, error)
	DeleteEducationFunc func(ctx context.Context, id string) error

	SubmitMessageFunc   func(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListMessagesFunc    func(ctx context.Context, limit, offset int) ([]*models.Message, error)
	MarkMessageReadFunc func(ctx context.Context, id string) error
	DeleteMessageFunc   func(ctx context.Context, id string) error
}

func (m *MockContentService) ListProjects(ctx context.Context, featuredOnly bool) ([]*models.Project, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, featuredOnly)
	}
	return []*models.Project{}, nil
}

func (m *MockContentService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, project)
	}
	return nil, models.ErrInternalServer
}

func (m *MockContentService) UpdateProject(ctx context.Context, id string, project *models.Project) (*models.Project, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, id, project)
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) DeleteProject(ctx context.Context, id string) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockContentService) ListTechnologies(ctx context.Context) ([]*models.Technology, error) {
	if m.ListTechnologiesFunc != nil {
		return m.ListTechnologiesFunc(ctx)
	}
	return []*models.Technology{}, nil
}

func (m *MockContentService) CreateTechnology(ctx context.Context, tech *models.Technology) (*models.Technology, error) {
	if m.CreateTechnologyFunc != nil {
		return m.CreateTechnologyFunc(ctx, tech)
	}
	return nil, models.ErrInternalServer
}

func (m *MockContentService) UpdateTechnology(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error) {
	if m.UpdateTechnologyFunc != nil {
		return m.UpdateTechnologyFunc(ctx, id, tech)
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) DeleteTechnology(ctx context.Context, id string) error {
	if m.DeleteTechnologyFunc != nil {
		return m.DeleteTechnologyFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockContentService) ListExperience(ctx context.Context) ([]*models.Experience, error) {
	if m.ListExperienceFunc != nil {
		return m.ListExperienceFunc(ctx)
	}
	return []*models.Experience{}, nil
}

func (m *MockContentService) CreateExperience(ctx context.Context, entry *models.Experience) (*models.Experience, error) {
	if m.CreateExperienceFunc != nil {
		return m.CreateExperienceFunc(ctx, entry)
	}
	return nil, models.ErrInternalServer
}

func (m *MockContentService) UpdateExperience(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error) {
	if m.UpdateExperienceFunc != nil {
		return m.UpdateExperienceFunc(ctx, id, entry)
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) DeleteExperience(ctx context.Context, id string) error {
	if m.DeleteExperienceFunc != nil {
		return m.DeleteExperienceFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockContentService) ListEducation(ctx context.Context) ([]*models.Education, error) {
	if m.ListEducationFunc != nil {
		return m.ListEducationFunc(ctx)
	}
	return []*models.Education{}, nil
}

func (m *MockContentService) CreateEducation(ctx context.Context, entry *models.Education) (*models.Education, error) {
	if m.CreateEducationFunc != nil {
		return m.CreateEducationFunc(ctx, entry)
	}
	return nil, models.ErrInternalServer
}

func (m *MockContentService) UpdateEducation(ctx context.Context, id string, entry *models.Education) (*models.Education, error) {
	if m.UpdateEducationFunc != nil {
		return m.UpdateEducationFunc(ctx, id, entry)
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) DeleteEducation(ctx context.Context, id string) error {
	if m.DeleteEducationFunc != nil {
		return m.DeleteEducationFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockContentService) SubmitMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if m.SubmitMessageFunc != nil {
		return m.SubmitMessageFunc(ctx, msg)
	}
	return nil, models.ErrInternalServer
}

func (m *MockContentService) ListMessages(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, limit, offset)
	}
	return []*models.Message{}, nil
}

func (m *MockContentService) MarkMessageRead(ctx context.Context, id string) error {
	if m.MarkMessageReadFunc != nil {
		return m.MarkMessageReadFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockContentService) DeleteMessage(ctx context.Context, id string) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, id)
	}
	return models.ErrNotFound
}
