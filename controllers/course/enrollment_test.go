package courseController_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"coursehub/models"
)

func seedCourse(t *testing.T, env *testEnv, name string, creatorID uint) *models.Course {
	t.Helper()
	course := &models.Course{
		Name: name, Description: "d", Price: 10, Level: models.LevelBeginner,
		Instructor: "Ann", CreatedByID: creatorID,
	}
	require.NoError(t, env.courses.Create(course))
	return course
}

func TestEnrollInCourse(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.newActor(t, "admin@x.com", models.RoleSuperAdmin)
	student, session := env.newActor(t, "student@x.com", models.RoleUser)
	course := seedCourse(t, env, "Go Basics", admin.ID)

	resp := env.request(t, "POST", fmt.Sprintf("/api/v1/enroll/%d", course.ID), nil, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Enrolled in course successfully", decodeBody(t, resp)["message"])

	profile, err := env.users.ProfileByUserID(student.ID)
	require.NoError(t, err)
	enrolled, err := env.enrollments.Exists(profile.ID, course.ID)
	require.NoError(t, err)
	require.True(t, enrolled)
}

func TestEnrollTwiceIsRejected(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.newActor(t, "admin@x.com", models.RoleSuperAdmin)
	_, session := env.newActor(t, "student@x.com", models.RoleUser)
	course := seedCourse(t, env, "Go Basics", admin.ID)

	resp := env.request(t, "POST", fmt.Sprintf("/api/v1/enroll/%d", course.ID), nil, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, "POST", fmt.Sprintf("/api/v1/enroll/%d", course.ID), nil, session)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "You are already enrolled in this course", decodeBody(t, resp)["errors"])
}

func TestSuperAdminCannotEnroll(t *testing.T) {
	env := newTestEnv(t)
	admin, session := env.newActor(t, "admin@x.com", models.RoleSuperAdmin)
	course := seedCourse(t, env, "Go Basics", admin.ID)

	resp := env.request(t, "POST", fmt.Sprintf("/api/v1/enroll/%d", course.ID), nil, session)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "You are not authorized to enroll in a course", decodeBody(t, resp)["errors"])
}

func TestEnrollInMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.newActor(t, "student@x.com", models.RoleUser)

	resp := env.request(t, "POST", "/api/v1/enroll/999", nil, session)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Course not found", decodeBody(t, resp)["errors"])
}

func TestEnrollRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/enroll/1", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetEnrolledCourses(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.newActor(t, "admin@x.com", models.RoleSuperAdmin)
	_, session := env.newActor(t, "student@x.com", models.RoleUser)

	first := seedCourse(t, env, "First", admin.ID)
	second := seedCourse(t, env, "Second", admin.ID)
	seedCourse(t, env, "Not enrolled", admin.ID)

	for _, course := range []*models.Course{first, second} {
		resp := env.request(t, "POST", fmt.Sprintf("/api/v1/enroll/%d", course.ID), nil, session)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.request(t, "GET", "/api/v1/enrolled-courses", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	courses := decodeCourses(t, resp)
	require.Len(t, courses, 2)
	names := []string{courses[0].Name, courses[1].Name}
	require.ElementsMatch(t, []string{"First", "Second"}, names)
}

func TestGetEnrolledCoursesEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.newActor(t, "student@x.com", models.RoleUser)

	resp := env.request(t, "GET", "/api/v1/enrolled-courses", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decodeCourses(t, resp))
}
