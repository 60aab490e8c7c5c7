package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
)

type harness struct {
	t      *testing.T
	engine *gin.Engine
	users  *memUsers
	tours  *memTours
	mail   *captureSender
	photos *memPhotos
	auth   *application.AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		t:      t,
		users:  newMemUsers(),
		tours:  &memTours{},
		mail:   &captureSender{},
		photos: &memPhotos{objects: map[string]string{}},
	}
	logger := helpers.NewNopLogger()
	h.auth = application.NewAuthService(h.users, helpers.NewJWTManager("test-secret", time.Hour), h.mail, logger,
		"Natours <hello@natours.dev>", "Natours", 0, false)

	h.engine = NewEngine(&config.Config{Env: "production"}, logger)
	reg := NewRegistry(h.engine)
	Mount(reg, Deps{
		Auth:    h.auth,
		Tours:   application.NewTourService(h.tours, application.NewTourCache(8, time.Minute), nil, logger),
		Users:   application.NewUserService(h.users, h.photos, logger),
		Cookies: helpers.NewCookie("", false, time.Hour),
		Logger:  logger,
		Debug:   true,
	})
	reg.RegisterAll()
	return h
}

type result struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (r result) data(key string) map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	v, _ := d[key].(map[string]any)
	return v
}

func (h *harness) send(req *http.Request, token string) result {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	res := result{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &res.Body), w.Body.String())
	}
	return res
}

func (h *harness) call(method, path string, body any, token string) result {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

// userWithRole stores an active user and returns a token for it.
func (h *harness) userWithRole(email string, role entity.Role) (*entity.User, string) {
	h.t.Helper()
	u, err := entity.NewUser(entity.NewUserInput{
		Name: "Test " + string(role), Email: email, Role: role,
		Password: "pass1234", PasswordConfirm: "pass1234",
	})
	require.NoError(h.t, err)
	require.NoError(h.t, h.users.Create(h.t.Context(), u))
	cred, err := h.auth.Issue(u.ID)
	require.NoError(h.t, err)
	return u, cred.Token
}

func TestSignupLoginAndMe(t *testing.T) {
	h := newHarness(t)

	res := h.call(http.MethodPost, "/api/v1/users/signup", map[string]any{
		"name": "Jonas Schmedtmann", "email": "Jonas@Example.com", "role": "admin",
		"password": "pass1234", "passwordConfirm": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	assert.Equal(t, "success", res.Body["status"])
	assert.NotEmpty(t, res.Body["token"])
	assert.Contains(t, res.Header.Get("Set-Cookie"), "jwt=")
	user := res.data("user")
	assert.Equal(t, "jonas@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")
	assert.Equal(t, "Welcome to the Natours Family!", h.mail.last().Subject)

	res = h.call(http.MethodPost, "/api/v1/users/signup", map[string]any{
		"name": "Other", "email": "other@example.com", "password": "pass1234", "passwordConfirm": "nope1234",
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "fail", res.Body["status"])

	res = h.call(http.MethodPost, "/api/v1/users/login", map[string]any{"email": "jonas@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Incorrect email or password", res.Body["message"])

	res = h.call(http.MethodPost, "/api/v1/users/login", map[string]any{"email": "jonas@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = h.call(http.MethodPost, "/api/v1/users/login", map[string]any{"email": "jonas@example.com", "password": "pass1234"}, "")
	require.Equal(t, http.StatusOK, res.Code)
	token, _ := res.Body["token"].(string)

	res = h.call(http.MethodGet, "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "jonas@example.com", res.data("user")["email"])

	res = h.call(http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "You are not logged in! Please log in to get access.", res.Body["message"])

	res = h.call(http.MethodGet, "/api/v1/users/logout", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header.Get("Set-Cookie"), "Max-Age=0")
}

var resetLink = regexp.MustCompile(`http://example\.com/api/v1/users/resetPassword/([0-9a-f]{64})`)

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	h.userWithRole("reset@example.com", entity.RoleUser)

	res := h.call(http.MethodPost, "/api/v1/users/forgotPassword", map[string]any{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "There is no user with that email address.", res.Body["message"])

	res = h.call(http.MethodPost, "/api/v1/users/forgotPassword", map[string]any{"email": "reset@example.com"}, "")
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Token sent to email!", res.Body["message"])

	msg := h.mail.last()
	assert.Equal(t, "reset@example.com", msg.To)
	m := resetLink.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, msg.Text)
	raw := m[1]

	body := map[string]any{"password": "newpass123", "passwordConfirm": "newpass123"}
	res = h.call(http.MethodPatch, "/api/v1/users/resetPassword/"+strings.Repeat("0", 64), body, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Token is invalid or has expired", res.Body["message"])

	res = h.call(http.MethodPatch, "/api/v1/users/resetPassword/"+raw, body, "")
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.NotEmpty(t, res.Body["token"])

	res = h.call(http.MethodPatch, "/api/v1/users/resetPassword/"+raw, body, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = h.call(http.MethodPost, "/api/v1/users/login", map[string]any{"email": "reset@example.com", "password": "newpass123"}, "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestUpdateMyPassword(t *testing.T) {
	h := newHarness(t)
	_, token := h.userWithRole("pw@example.com", entity.RoleUser)

	res := h.call(http.MethodPatch, "/api/v1/users/updateMyPassword", map[string]any{
		"passwordCurrent": "wrong", "password": "brandnew1", "passwordConfirm": "brandnew1",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Your current password is wrong.", res.Body["message"])

	res = h.call(http.MethodPatch, "/api/v1/users/updateMyPassword", map[string]any{
		"passwordCurrent": "pass1234", "password": "brandnew1", "passwordConfirm": "brandnew1",
	}, token)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.NotEmpty(t, res.Body["token"])
}

func TestTourRoutes(t *testing.T) {
	h := newHarness(t)
	_, admin := h.userWithRole("admin@example.com", entity.RoleAdmin)
	_, guide := h.userWithRole("guide@example.com", entity.RoleGuide)
	_, user := h.userWithRole("user@example.com", entity.RoleUser)

	tour := map[string]any{
		"name": "The Forest Hiker", "duration": 5, "maxGroupSize": 25, "difficulty": "easy",
		"price": 397, "summary": "Breathtaking hike through the Canadian Banff National Park",
	}

	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodPost, "/api/v1/tours", tour, "").Code)
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodPost, "/api/v1/tours", tour, user).Code)

	res := h.call(http.MethodPost, "/api/v1/tours", map[string]any{"name": "No Price Tour"}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Missing name or price", res.Body["message"])

	res = h.call(http.MethodPost, "/api/v1/tours", tour, admin)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	created := res.data("tour")
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.InDelta(t, 5.0/7, created["durationWeeks"], 1e-9)

	res = h.call(http.MethodGet, "/api/v1/tours/"+id, nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "The Forest Hiker", res.data("tour")["name"])

	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/api/v1/tours", nil, "").Code)

	res = h.call(http.MethodGet, "/api/v1/tours", nil, user)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["results"])
	assert.NotEmpty(t, res.Body["requestedAt"])

	res = h.call(http.MethodGet, "/api/v1/tours?page=5&limit=10", nil, user)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "This page does not exist", res.Body["message"])

	res = h.call(http.MethodGet, "/api/v1/tours?price[regex]=1", nil, user)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = h.call(http.MethodPatch, "/api/v1/tours/"+id, map[string]any{"price": 999}, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.EqualValues(t, 999, res.data("tour")["price"])

	assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/v1/tours/top-5-cheap", nil, "").Code)
	assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/v1/tours/tour-stats", nil, "").Code)

	assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, "/api/v1/tours/monthly-plan/2021", nil, user).Code)
	assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/v1/tours/monthly-plan/2021", nil, guide).Code)
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodGet, "/api/v1/tours/monthly-plan/next", nil, admin).Code)

	res = h.call(http.MethodGet, "/api/v1/tours/search?q=forest", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.Body["results"])

	assert.Equal(t, http.StatusForbidden, h.call(http.MethodDelete, "/api/v1/tours/"+id, nil, guide).Code)
	res = h.call(http.MethodDelete, "/api/v1/tours/"+id, nil, admin)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = h.call(http.MethodGet, "/api/v1/tours/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "No tour found with that ID", res.Body["message"])
}

func photoRequest(t *testing.T, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/updateMyPhoto", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUserSelfService(t *testing.T) {
	h := newHarness(t)
	me, token := h.userWithRole("me@example.com", entity.RoleUser)

	res := h.call(http.MethodPatch, "/api/v1/users/updateMe", map[string]any{"password": "x"}, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = h.call(http.MethodPatch, "/api/v1/users/updateMe", map[string]any{"name": "Renamed User"}, token)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Renamed User", res.data("user")["name"])

	res = h.send(photoRequest(t, "text/plain"), token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = h.send(photoRequest(t, "image/png"), token)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	photo, _ := res.data("user")["photo"].(string)
	assert.True(t, strings.HasPrefix(photo, "https://cdn.example.test/users/"+me.ID+"/"))
	assert.Len(t, h.photos.objects, 1)

	res = h.call(http.MethodDelete, "/api/v1/users/deleteMe", nil, token)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = h.call(http.MethodGet, "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "The user belonging to this token no longer exists.", res.Body["message"])
}

func TestAdminUserManagement(t *testing.T) {
	h := newHarness(t)
	_, admin := h.userWithRole("root@example.com", entity.RoleAdmin)
	target, user := h.userWithRole("target@example.com", entity.RoleUser)

	assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, "/api/v1/users", nil, user).Code)

	res := h.call(http.MethodGet, "/api/v1/users", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.Body["results"])

	res = h.call(http.MethodPatch, "/api/v1/users/"+target.ID, map[string]any{"role": "guide"}, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "guide", res.data("user")["role"])

	assert.Equal(t, http.StatusNoContent, h.call(http.MethodDelete, "/api/v1/users/"+target.ID, nil, admin).Code)
	res = h.call(http.MethodGet, "/api/v1/users/"+target.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestNoRouteAndMetrics(t *testing.T) {
	h := newHarness(t)

	res := h.call(http.MethodGet, "/api/v1/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Can't find /api/v1/nowhere on this server!", res.Body["message"])
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "natours_http_requests_total")
}
