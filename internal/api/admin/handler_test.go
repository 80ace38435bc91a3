//nolint:noctx // Test file uses http.NewRequest for simplicity
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/service/backfill"
	"github.com/campushub/forum-api/pkg/logger"
)

// Mock Points Service
type mockPointsService struct {
	resets   []uint
	resetErr error
}

func (m *mockPointsService) Reset(ctx context.Context, userID uint) error {
	if m.resetErr != nil {
		return m.resetErr
	}
	m.resets = append(m.resets, userID)
	return nil
}

// Mock Backfill Service
type mockBackfillService struct {
	stats  *backfill.Stats
	runErr error
}

func (m *mockBackfillService) Run(ctx context.Context) (*backfill.Stats, error) {
	if m.runErr != nil {
		return nil, m.runErr
	}
	return m.stats, nil
}

// Mock User Repository
type mockUserRepo struct {
	users  map[uint]*models.User
	badges map[uint]string
	roles  map[uint]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[uint]*models.User),
		badges: make(map[uint]string),
		roles:  make(map[uint]string),
	}
}

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) SetBadge(userID uint, badge string) error {
	if _, exists := m.users[userID]; !exists {
		return repository.ErrUserNotFound
	}
	m.badges[userID] = badge
	return nil
}

func (m *mockUserRepo) SetRole(userID uint, role string) error {
	if _, exists := m.users[userID]; !exists {
		return repository.ErrUserNotFound
	}
	m.roles[userID] = role
	return nil
}

type testEnv struct {
	handler  *Handler
	points   *mockPointsService
	backfill *mockBackfillService
	users    *mockUserRepo
}

func setupHandler(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		points:   &mockPointsService{},
		backfill: &mockBackfillService{stats: &backfill.Stats{}},
		users:    newMockUserRepo(),
	}
	env.handler = NewHandlerWithInterfaces(
		env.points, env.backfill, env.users, badges.Default(), logger.Nop(),
	)
	return env
}

func TestResetPoints(t *testing.T) {
	env := setupHandler(t)

	router := gin.New()
	router.POST("/admin/users/:id/points/reset", env.handler.ResetPoints)

	req, _ := http.NewRequest("POST", "/admin/users/7/points/reset", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{7}, env.points.resets)
	assert.Contains(t, w.Body.String(), badges.Newbie)
}

func TestResetPoints_UserNotFound(t *testing.T) {
	env := setupHandler(t)
	env.points.resetErr = repository.ErrUserNotFound

	router := gin.New()
	router.POST("/admin/users/:id/points/reset", env.handler.ResetPoints)

	req, _ := http.NewRequest("POST", "/admin/users/99/points/reset", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetBadge(t *testing.T) {
	env := setupHandler(t)
	env.users.users[3] = &models.User{ID: 3, Badge: badges.Newbie}

	router := gin.New()
	router.PUT("/admin/users/:id/badge", env.handler.SetBadge)

	body, _ := json.Marshal(map[string]string{"badge": badges.Expert})
	req, _ := http.NewRequest("PUT", "/admin/users/3/badge", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, badges.Expert, env.users.badges[3])
}

func TestSetBadge_UnknownName(t *testing.T) {
	env := setupHandler(t)
	env.users.users[3] = &models.User{ID: 3}

	router := gin.New()
	router.PUT("/admin/users/:id/badge", env.handler.SetBadge)

	body, _ := json.Marshal(map[string]string{"badge": "Forum Legend"})
	req, _ := http.NewRequest("PUT", "/admin/users/3/badge", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid badge")
	assert.Empty(t, env.users.badges)
}

func TestSetRole(t *testing.T) {
	env := setupHandler(t)
	env.users.users[5] = &models.User{ID: 5, Role: models.RoleStudent}

	router := gin.New()
	router.PUT("/admin/users/:id/role", env.handler.SetRole)

	body, _ := json.Marshal(map[string]string{"role": models.RoleModerator})
	req, _ := http.NewRequest("PUT", "/admin/users/5/role", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleModerator, env.users.roles[5])
}

func TestSetRole_Invalid(t *testing.T) {
	env := setupHandler(t)
	env.users.users[5] = &models.User{ID: 5}

	router := gin.New()
	router.PUT("/admin/users/:id/role", env.handler.SetRole)

	body, _ := json.Marshal(map[string]string{"role": "superuser"})
	req, _ := http.NewRequest("PUT", "/admin/users/5/role", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.users.roles)
}

func TestRunBackfill(t *testing.T) {
	env := setupHandler(t)
	env.backfill.stats = &backfill.Stats{Users: 12, Awarded: 40, Skipped: 8}

	router := gin.New()
	router.POST("/admin/backfill", env.handler.RunBackfill)

	req, _ := http.NewRequest("POST", "/admin/backfill", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"awarded":40`)
	assert.Contains(t, w.Body.String(), `"skipped":8`)
}

func TestRunBackfill_Error(t *testing.T) {
	env := setupHandler(t)
	env.backfill.runErr = fmt.Errorf("database gone")

	router := gin.New()
	router.POST("/admin/backfill", env.handler.RunBackfill)

	req, _ := http.NewRequest("POST", "/admin/backfill", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetUser(t *testing.T) {
	env := setupHandler(t)
	env.users.users[2] = &models.User{ID: 2, Email: "ada@school.edu", Points: 130, Badge: badges.Expert}

	router := gin.New()
	router.GET("/admin/users/:id", env.handler.GetUser)

	req, _ := http.NewRequest("GET", "/admin/users/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@school.edu")
}
