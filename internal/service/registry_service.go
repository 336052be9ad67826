package service

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/course-relay/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Usernames(ctx context.Context, ids []string) (map[string]string, error)
}

type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	List(ctx context.Context, limit int, cursor string) ([]domain.Course, string, error)
}

type RegistryService struct {
	userRepo   UserRepository
	courseRepo CourseRepository
}

func NewRegistryService(userRepo UserRepository, courseRepo CourseRepository) *RegistryService {
	return &RegistryService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
	}
}

// CreateUser registers a user. Fields are stored as given.
func (s *RegistryService) CreateUser(ctx context.Context, username, bio string, skills []string) (*domain.User, error) {
	if skills == nil {
		skills = []string{}
	}
	u := &domain.User{
		Username: username,
		Bio:      bio,
		Skills:   skills,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("userRepo.Create: %w", err)
	}
	return u, nil
}

func (s *RegistryService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.Get(ctx, id)
}

// CreateCourse fails with domain.ErrInvalidUser when userID is not registered.
func (s *RegistryService) CreateCourse(ctx context.Context, userID, title, desc, image string) (*domain.Course, error) {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("userRepo.Exists: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidUser
	}

	c := &domain.Course{
		UserID: userID,
		Title:  title,
		Desc:   desc,
		Image:  image,
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("courseRepo.Create: %w", err)
	}
	return c, nil
}

// ListCourses returns every course annotated with its creator's username.
func (s *RegistryService) ListCourses(ctx context.Context) ([]domain.CourseWithCreator, error) {
	out, _, err := s.ListCoursesPage(ctx, 0, "")
	return out, err
}

// ListCoursesPage is ListCourses with cursor pagination; limit <= 0 means no limit.
func (s *RegistryService) ListCoursesPage(ctx context.Context, limit int, cursor string) ([]domain.CourseWithCreator, string, error) {
	if limit > 100 {
		limit = 100
	}

	courses, next, err := s.courseRepo.List(ctx, limit, cursor)
	if err != nil {
		return nil, "", err
	}

	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.UserID)
	}
	names, err := s.userRepo.Usernames(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("userRepo.Usernames: %w", err)
	}

	out := make([]domain.CourseWithCreator, 0, len(courses))
	for _, c := range courses {
		creator, ok := names[c.UserID]
		if !ok || creator == "" {
			creator = domain.UnknownCreator
		}
		out = append(out, domain.CourseWithCreator{Course: c, Creator: creator})
	}
	return out, next, nil
}
