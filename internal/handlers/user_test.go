package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/taskdesk/task-assignment-api/internal/models"
)

type UserHandlerTestSuite struct {
	suite.Suite
	env   *testEnv
	admin *models.User
	alice *models.User
}

func (s *UserHandlerTestSuite) SetupTest() {
	s.env = setupTestEnv(s.T())
	s.admin = s.env.createUser(s.T(), "Admin", "admin@example.com", models.RoleAdmin)
	s.alice = s.env.createUser(s.T(), "Alice", "alice@example.com", models.RoleUser)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

func (s *UserHandlerTestSuite) TestListUsers_NonAdminForbidden() {
	w := s.env.doJSON(s.T(), http.MethodGet, "/api/users", nil, s.env.tokenFor(s.T(), s.alice))

	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "Not authorized to manage users")
}

func (s *UserHandlerTestSuite) TestListUsers_AdminSeesAll() {
	w := s.env.doJSON(s.T(), http.MethodGet, "/api/users", nil, s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusOK, w.Code)
	data := dataOf(s.T(), w)
	s.Equal(float64(2), data["total"])
	s.Len(data["users"].([]interface{}), 2)
}

func (s *UserHandlerTestSuite) TestCreateUser_Success() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/users", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "supersecret",
	}, s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	data := dataOf(s.T(), w)
	s.Equal("bob@example.com", data["email"])
	s.Equal("user", data["role"])
	s.Equal(true, data["active"])
}

func (s *UserHandlerTestSuite) TestCreateUser_DuplicateEmail() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/users", map[string]string{
		"name":     "Alice Clone",
		"email":    "alice@example.com",
		"password": "supersecret",
	}, s.env.tokenFor(s.T(), s.admin))

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "user already exists")
}

func (s *UserHandlerTestSuite) TestCreateUser_InvalidRole() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/users", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "supersecret",
		"role":     "superuser",
	}, s.env.tokenFor(s.T(), s.admin))

	s.Equal(http.StatusBadRequest, w.Code)
	s.ElementsMatch([]string{"role"}, violationFields(s.T(), w))
}

func (s *UserHandlerTestSuite) TestGetUser_NotFound() {
	w := s.env.doJSON(s.T(), http.MethodGet, "/api/users/9999", nil, s.env.tokenFor(s.T(), s.admin))

	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), "user not found")
}

func (s *UserHandlerTestSuite) TestUpdateUser_PartialFields() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d", s.alice.ID),
		map[string]string{"name": "Alice Renamed"},
		s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	data := dataOf(s.T(), w)
	s.Equal("Alice Renamed", data["name"])
	s.Equal("alice@example.com", data["email"])
}

func (s *UserHandlerTestSuite) TestUpdateUser_EmptyPasswordUnchanged() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d", s.alice.ID),
		map[string]string{"name": "Alice Again"},
		s.env.tokenFor(s.T(), s.admin))
	s.Require().Equal(http.StatusOK, w.Code)

	// The old password still works.
	login := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	}, "")
	s.Equal(http.StatusOK, login.Code)
}

func (s *UserHandlerTestSuite) TestUpdateUser_EmailTakenByOther() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d", s.alice.ID),
		map[string]string{"email": "admin@example.com"},
		s.env.tokenFor(s.T(), s.admin))

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "user already exists")
}

func (s *UserHandlerTestSuite) TestDeleteUser_SoftDelete() {
	w := s.env.doJSON(s.T(), http.MethodDelete,
		fmt.Sprintf("/api/users/%d", s.alice.ID), nil, s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "User deleted successfully")

	w = s.env.doJSON(s.T(), http.MethodGet,
		fmt.Sprintf("/api/users/%d", s.alice.ID), nil, s.env.tokenFor(s.T(), s.admin))
	s.Equal(http.StatusNotFound, w.Code)

	// Soft delete: the row survives with deleted_at set.
	var count int64
	s.Require().NoError(s.env.db.Unscoped().Model(&models.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", s.alice.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *UserHandlerTestSuite) TestToggleUserStatus() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d/toggle-status", s.alice.ID), nil,
		s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(false, dataOf(s.T(), w)["active"])

	// Deactivated accounts cannot log in.
	login := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	}, "")
	s.Equal(http.StatusUnauthorized, login.Code)

	w = s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d/toggle-status", s.alice.ID), nil,
		s.env.tokenFor(s.T(), s.admin))
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, dataOf(s.T(), w)["active"])
}

func (s *UserHandlerTestSuite) TestUpdateUserRole() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d/role", s.alice.ID),
		map[string]string{"role": "admin"}, s.env.tokenFor(s.T(), s.admin))

	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("admin", dataOf(s.T(), w)["role"])

	// The promoted user may now reach the admin surface.
	list := s.env.doJSON(s.T(), http.MethodGet, "/api/users", nil, s.env.tokenFor(s.T(), s.alice))
	s.Equal(http.StatusOK, list.Code)
}

func (s *UserHandlerTestSuite) TestUpdateUserRole_Invalid() {
	w := s.env.doJSON(s.T(), http.MethodPut,
		fmt.Sprintf("/api/users/%d/role", s.alice.ID),
		map[string]string{"role": "overlord"}, s.env.tokenFor(s.T(), s.admin))

	s.Equal(http.StatusBadRequest, w.Code)
	s.ElementsMatch([]string{"role"}, violationFields(s.T(), w))
}
