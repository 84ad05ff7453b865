package handlers_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
)

func (s *APITestSuite) register(username string) dto.AuthResponse {
	w := s.do(http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "supersecret",
	}, 0)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	s.decode(w, &resp)
	return resp
}

func (s *APITestSuite) TestRegister() {
	resp := s.register("newuser")
	s.NotZero(resp.UserID)
	s.Equal("newuser", resp.Username)
	s.Equal("newuser@example.com", resp.Email)
	s.NotEmpty(resp.Token)
}

func (s *APITestSuite) TestRegister_Duplicate() {
	s.register("taken")

	w := s.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "supersecret",
	}, 0)
	s.requireError(w, http.StatusConflict, apierrors.ErrCodeAlreadyExists)
}

func (s *APITestSuite) TestRegister_ValidationDetails() {
	w := s.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "short",
	}, 0)
	body := s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	details, ok := body.Details.([]interface{})
	s.Require().True(ok, "details should be a list")
	fields := map[string]bool{}
	for _, d := range details {
		fields[d.(map[string]interface{})["field"].(string)] = true
	}
	s.True(fields["username"])
	s.True(fields["email"])
	s.True(fields["password"])
}

func (s *APITestSuite) TestLogin_SessionCookieAuthenticates() {
	s.register("cookieuser")

	w := s.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "cookieuser@example.com",
		"password": "supersecret",
	}, 0)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.NotEmpty(resp.Token)

	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)

	s.Require().Equal(http.StatusOK, me.Code, me.Body.String())
	var user dto.UserDTO
	s.decode(me, &user)
	s.Equal("cookieuser", user.Username)
}

func (s *APITestSuite) TestLogin_InvalidCredentials() {
	s.register("someone")

	for _, body := range []map[string]string{
		{"email": "someone@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "supersecret"},
	} {
		w := s.do(http.MethodPost, "/auth/login", body, 0)
		resp := s.requireError(w, http.StatusUnauthorized, "")
		s.Equal("Invalid credentials", resp.Message)
	}
}

func (s *APITestSuite) TestMe_RequiresAuthentication() {
	w := s.do(http.MethodGet, "/auth/me", nil, 0)
	resp := s.requireError(w, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized)
	s.Equal("Authentication required", resp.Message)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestUpdateProfileAndChangePassword() {
	user := s.register("profile")

	w := s.do(http.MethodPatch, "/auth/update-profile", map[string]string{"username": "renamed"}, user.UserID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.AuthResponse
	s.decode(w, &updated)
	s.Equal("renamed", updated.Username)
	s.NotEmpty(updated.Token)

	w = s.do(http.MethodPatch, "/auth/change-password", map[string]string{
		"currentPassword": "wrong-password",
		"newPassword":     "evenmoresecret",
	}, user.UserID)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/auth/change-password", map[string]string{
		"currentPassword": "supersecret",
		"newPassword":     "evenmoresecret",
	}, user.UserID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "profile@example.com",
		"password": "evenmoresecret",
	}, 0)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestLogout() {
	w := s.do(http.MethodPost, "/auth/logout", nil, 0)
	s.Equal(http.StatusOK, w.Code)
}
