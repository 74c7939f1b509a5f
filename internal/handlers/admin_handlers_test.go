package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ekaraca/campuslink/internal/admintoken"
	"github.com/ekaraca/campuslink/internal/hash"
	"github.com/ekaraca/campuslink/internal/middleware/adminauth"
	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/mykafka"
)

func newAdminHandler(t *testing.T) *AdminHandler {
	t.Helper()
	pwHash, err := hash.HashPassword("admin_password")
	require.NoError(t, err)

	return &AdminHandler{
		DB:           InitTestDB(t),
		Tokens:       admintoken.NewService([]byte("admin_secret")),
		Username:     "root",
		PasswordHash: pwHash,
		Producer:     &mykafka.Producer{},
	}
}

func TestAdminLogin(t *testing.T) {
	h := newAdminHandler(t)

	rec, c := newContext(t, http.MethodPost, "/admin/login", map[string]string{
		"username": "root",
		"password": "admin_password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == adminauth.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "expected admin cookie")
	require.True(t, cookie.HttpOnly)

	username, err := h.Tokens.Verify(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "root", username)
}

func TestAdminLoginBadCredentials(t *testing.T) {
	h := newAdminHandler(t)

	for _, payload := range []map[string]string{
		{"username": "root", "password": "wrong"},
		{"username": "other", "password": "admin_password"},
	} {
		_, c := newContext(t, http.MethodPost, "/admin/login", payload)
		err := h.Login(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError")
		require.Equal(t, http.StatusUnauthorized, he.Code)
	}
}

func TestDashboardRedirectsWithoutprincipal(t *testing.T) {
	h := newAdminHandler(t)

	rec, c := newContext(t, http.MethodGet, "/admin/dashboard", nil)
	require.NoError(t, h.Dashboard(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get(echo.HeaderLocation))
}

func TestDashboard(t *testing.T) {
	h := newAdminHandler(t)
	createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)

	rec, c := newContext(t, http.MethodGet, "/admin/dashboard", nil)
	asAdmin(c)
	require.NoError(t, h.Dashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "root", resp["admin"])
	require.EqualValues(t, 1, resp["users"])
}

func TestBanUnbanUser(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)

	exp := time.Now().Add(48 * time.Hour).UTC()
	rec, c := newContext(t, http.MethodPost, "/admin/users/1/ban", map[string]interface{}{
		"expires_at": exp,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.BanUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var banned models.User
	require.NoError(t, h.DB.First(&banned, user.ID).Error)
	require.True(t, banned.IsBanned)
	require.NotNil(t, banned.BanExpiresAt)

	rec, c = newContext(t, http.MethodPost, "/admin/users/1/unban", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.UnbanUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, h.DB.First(&banned, user.ID).Error)
	require.False(t, banned.IsBanned)
	require.Nil(t, banned.BanExpiresAt)
}

func TestBanRequiresAdmin(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)

	_, c := newContext(t, http.MethodPost, "/admin/users/1/ban", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, &user)

	err := h.BanUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)

	var unchanged models.User
	require.NoError(t, h.DB.First(&unchanged, user.ID).Error)
	require.False(t, unchanged.IsBanned)
}

func TestSetRole(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)

	rec, c := newContext(t, http.MethodPatch, "/admin/users/1/role", map[string]string{
		"role": models.RoleClub,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.SetRole(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, h.DB.First(&updated, user.ID).Error)
	require.Equal(t, models.RoleClub, updated.Role)

	_, c = newContext(t, http.MethodPatch, "/admin/users/1/role", map[string]string{
		"role": "superuser",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	err := h.SetRole(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestResolveReport(t *testing.T) {
	h := newAdminHandler(t)
	reporter := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)
	target := createUser(t, h.DB, "b@campus.edu.tr", models.RoleStudent)
	report := models.Report{ReporterID: reporter.ID, TargetUserID: target.ID, Reason: "spam"}
	require.NoError(t, h.DB.Create(&report).Error)

	rec, c := newContext(t, http.MethodPost, "/admin/reports/1/resolve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.ResolveReport(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// resolving twice is a contradiction, not a no-op
	_, c = newContext(t, http.MethodPost, "/admin/reports/1/resolve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	err := h.ResolveReport(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestApproveRoleRequest(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)
	request := models.RoleRequest{UserID: user.ID, Message: "chess club", Status: models.RequestPending}
	require.NoError(t, h.DB.Create(&request).Error)

	rec, c := newContext(t, http.MethodPost, "/admin/role-requests/1/approve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.ApproveRoleRequest(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, h.DB.First(&updated, user.ID).Error)
	require.Equal(t, models.RoleClub, updated.Role)

	var resolved models.RoleRequest
	require.NoError(t, h.DB.First(&resolved, request.ID).Error)
	require.Equal(t, models.RequestApproved, resolved.Status)

	// already resolved
	_, c = newContext(t, http.MethodPost, "/admin/role-requests/1/approve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	err := h.ApproveRoleRequest(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestRejectRoleRequest(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)
	request := models.RoleRequest{UserID: user.ID, Status: models.RequestPending}
	require.NoError(t, h.DB.Create(&request).Error)

	rec, c := newContext(t, http.MethodPost, "/admin/role-requests/1/reject", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.RejectRoleRequest(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var unchanged models.User
	require.NoError(t, h.DB.First(&unchanged, user.ID).Error)
	require.Equal(t, models.RoleStudent, unchanged.Role)
}

func TestResolveTicket(t *testing.T) {
	h := newAdminHandler(t)
	user := createUser(t, h.DB, "a@campus.edu.tr", models.RoleStudent)
	ticket := models.SupportTicket{UserID: user.ID, Subject: "help", Status: "open"}
	require.NoError(t, h.DB.Create(&ticket).Error)

	rec, c := newContext(t, http.MethodPost, "/admin/tickets/1/resolve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.ResolveTicket(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resolved models.SupportTicket
	require.NoError(t, h.DB.First(&resolved, ticket.ID).Error)
	require.Equal(t, "resolved", resolved.Status)
}
