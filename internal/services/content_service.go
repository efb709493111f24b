package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foliohq/folio-api/internal/models"
)

// ProjectRepository defines project data access
type ProjectRepository interface {
	List(ctx context.Context, featuredOnly bool) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Update(ctx context.Context, id string, project *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// TechnologyRepository defines technology data access
type TechnologyRepository interface {
	List(ctx context.Context) ([]*models.Technology, error)
	Create(ctx context.Context, tech *models.Technology) (*models.Technology, error)
	Update(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error)
	Delete(ctx context.Context, id string) error
}

// ExperienceRepository defines experience data access
type ExperienceRepository interface {
	List(ctx context.Context) ([]*models.Experience, error)
	Create(ctx context.Context, entry *models.Experience) (*models.Experience, error)
	Update(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error)
	Delete(ctx context.Context, id string) error
}

// EducationRepository defines education data access
type EducationRepository interface {
	List(ctx context.Context) ([]*models.Education, error)
	Create(ctx context.Context, entry *models.Education) (*models.Education, error)
	Update(ctx context.Context, id string, entry *models.Education) (*models.Education, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository defines contact-message data access
type MessageRepository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ContentService handles the portfolio content shown on the public site and
// managed from the admin dashboard.
type ContentService struct {
	projects   ProjectRepository
	techs      TechnologyRepository
	experience ExperienceRepository
	education  EducationRepository
	messages   MessageRepository
	logger     *slog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(
	projects ProjectRepository,
	techs TechnologyRepository,
	experience ExperienceRepository,
	education EducationRepository,
	messages MessageRepository,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		projects:   projects,
		techs:      techs,
		experience: experience,
		education:  education,
		messages:   messages,
		logger:     logger,
	}
}

func (s *ContentService) ListProjects(ctx context.Context, featuredOnly bool) ([]*models.Project, error) {
	projects, err := s.projects.List(ctx, featuredOnly)
	if err != nil {
		s.logger.Error("failed to list projects", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return projects, nil
}

func (s *ContentService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get project", slog.String("project_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return project, nil
}

func (s *ContentService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.Slug == "" {
		project.Slug = slugify(project.Title)
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create project", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("project created", slog.String("project_id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id string, project *models.Project) (*models.Project, error) {
	updated, err := s.projects.Update(ctx, id, project)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrConflict):
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update project", slog.String("project_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ContentService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete project", slog.String("project_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func (s *ContentService) ListTechnologies(ctx context.Context) ([]*models.Technology, error) {
	techs, err := s.techs.List(ctx)
	if err != nil {
		s.logger.Error("failed to list technologies", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return techs, nil
}

func (s *ContentService) CreateTechnology(ctx context.Context, tech *models.Technology) (*models.Technology, error) {
	created, err := s.techs.Create(ctx, tech)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create technology", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return created, nil
}

func (s *ContentService) UpdateTechnology(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error) {
	updated, err := s.techs.Update(ctx, id, tech)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update technology", slog.String("technology_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ContentService) DeleteTechnology(ctx context.Context, id string) error {
	if err := s.techs.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete technology", slog.String("technology_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func (s *ContentService) ListExperience(ctx context.Context) ([]*models.Experience, error) {
	entries, err := s.experience.List(ctx)
	if err != nil {
		s.logger.Error("failed to list experience", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return entries, nil
}

func (s *ContentService) CreateExperience(ctx context.Context, entry *models.Experience) (*models.Experience, error) {
	created, err := s.experience.Create(ctx, entry)
	if err != nil {
		s.logger.Error("failed to create experience", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return created, nil
}

func (s *ContentService) UpdateExperience(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error) {
	updated, err := s.experience.Update(ctx, id, entry)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update experience", slog.String("experience_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ContentService) DeleteExperience(ctx context.Context, id string) error {
	if err := s.experience.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete experience", slog.String("experience_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func (s *ContentService) ListEducation(ctx context.Context) ([]*models.Education, error) {
	entries, err := s.education.List(ctx)
	if err != nil {
		s.logger.Error("failed to list education", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return entries, nil
}

func (s *ContentService) CreateEducation(ctx context.Context, entry *models.Education) (*models.Education, error) {
	created, err := s.education.Create(ctx, entry)
	if err != nil {
		s.logger.Error("failed to create education", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return created, nil
}

func (s *ContentService) UpdateEducation(ctx context.Context, id string, entry *models.Education) (*models.Education, error) {
	updated, err := s.education.Update(ctx, id, entry)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update education", slog.String("education_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ContentService) DeleteEducation(ctx context.Context, id string) error {
	if err := s.education.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete education", slog.String("education_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func (s *ContentService) SubmitMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.Email = strings.ToLower(strings.TrimSpace(msg.Email))
	msg.Read = false

	created, err := s.messages.Create(ctx, msg)
	if err != nil {
		s.logger.Error("failed to store contact message", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("contact message received", slog.String("message_id", created.ID))
	return created, nil
}

func (s *ContentService) ListMessages(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messages.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list messages", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return messages, nil
}

func (s *ContentService) MarkMessageRead(ctx context.Context, id string) error {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to mark message read", slog.String("message_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func (s *ContentService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete message", slog.String("message_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// slugify lowercases the title and replaces runs of non-alphanumerics with
// single hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
