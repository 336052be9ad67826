package service

import (
	"context"
	"testing"

	"github.com/cwrk-planet/course-relay/internal/domain"
	"github.com/cwrk-planet/course-relay/internal/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*RegistryService, *memory.CourseRepository) {
	courses := memory.NewCourseRepository()
	return NewRegistryService(memory.NewUserRepository(), courses), courses
}

func TestCreateUserStoresFieldsAsGiven(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "alice", "teacher", []string{"go", "sql"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, []string{"go", "sql"}, u.Skills)

	empty, err := svc.CreateUser(ctx, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.Skills)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
}

func TestCreateCourseUnknownUser(t *testing.T) {
	svc, courses := newService()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, "ghost", "t", "d", "i")
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
	assert.Zero(t, courses.Count(ctx))

	list, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListCoursesAnnotatesCreator(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	alice, err := svc.CreateUser(ctx, "alice", "", nil)
	require.NoError(t, err)
	anon, err := svc.CreateUser(ctx, "", "", nil)
	require.NoError(t, err)

	c1, err := svc.CreateCourse(ctx, alice.ID, "Go", "basics", "go.png")
	require.NoError(t, err)
	c2, err := svc.CreateCourse(ctx, anon.ID, "SQL", "", "")
	require.NoError(t, err)

	list, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, c1.ID, list[0].ID)
	assert.Equal(t, "alice", list[0].Creator)
	assert.Equal(t, c2.ID, list[1].ID)
	assert.Equal(t, domain.UnknownCreator, list[1].Creator)
}

func TestListCoursesPage(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "bob", "", nil)
	require.NoError(t, err)
	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.CreateCourse(ctx, u.ID, title, "", "")
		require.NoError(t, err)
	}

	page, next, err := svc.ListCoursesPage(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotEmpty(t, next)

	rest, next, err := svc.ListCoursesPage(ctx, 2, next)
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Title)

	_, _, err = svc.ListCoursesPage(ctx, 2, "garbage!")
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
}
