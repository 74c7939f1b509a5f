package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/mykafka"
)

func newEventHandler(t *testing.T) *EventHandler {
	t.Helper()
	return &EventHandler{DB: InitTestDB(t), Producer: &mykafka.Producer{}}
}

func TestCreateEventRequiresClubRole(t *testing.T) {
	h := newEventHandler(t)
	student := createUser(t, h.DB, "student@campus.edu.tr", models.RoleStudent)

	_, c := newContext(t, http.MethodPost, "/events", map[string]interface{}{
		"title": "party",
	})
	asUser(c, &student)

	err := h.CreateEvent(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)

	var count int64
	h.DB.Model(&models.Event{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestCreateEvent(t *testing.T) {
	h := newEventHandler(t)
	club := createUser(t, h.DB, "chess@campus.edu.tr", models.RoleClub)

	rec, c := newContext(t, http.MethodPost, "/events", map[string]interface{}{
		"title":       "tournament",
		"description": "open to all",
		"starts_at":   time.Now().Add(72 * time.Hour).UTC(),
	})
	asUser(c, &club)
	require.NoError(t, h.CreateEvent(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var event models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	require.Equal(t, "tournament", event.Title)
	require.Equal(t, club.ID, event.UserID)
}

func TestUpdateEventForeignOwner(t *testing.T) {
	h := newEventHandler(t)
	owner := createUser(t, h.DB, "chess@campus.edu.tr", models.RoleClub)
	other := createUser(t, h.DB, "debate@campus.edu.tr", models.RoleClub)

	event := models.Event{UserID: owner.ID, Title: "tournament"}
	require.NoError(t, h.DB.Create(&event).Error)

	_, c := newContext(t, http.MethodPatch, "/events/1", map[string]string{
		"title": "hijacked",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, &other)

	err := h.UpdateEvent(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)

	var unchanged models.Event
	require.NoError(t, h.DB.First(&unchanged, event.ID).Error)
	require.Equal(t, "tournament", unchanged.Title)
}

func TestDeleteEventAdminOverride(t *testing.T) {
	h := newEventHandler(t)
	owner := createUser(t, h.DB, "chess@campus.edu.tr", models.RoleClub)
	event := models.Event{UserID: owner.ID, Title: "tournament"}
	require.NoError(t, h.DB.Create(&event).Error)

	rec, c := newContext(t, http.MethodDelete, "/events/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asAdmin(c)
	require.NoError(t, h.DeleteEvent(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	h.DB.Model(&models.Event{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestListEvents(t *testing.T) {
	h := newEventHandler(t)
	owner := createUser(t, h.DB, "chess@campus.edu.tr", models.RoleClub)
	require.NoError(t, h.DB.Create(&models.Event{UserID: owner.ID, Title: "a"}).Error)
	require.NoError(t, h.DB.Create(&models.Event{UserID: owner.ID, Title: "b"}).Error)

	rec, c := newContext(t, http.MethodGet, "/events", nil)
	require.NoError(t, h.ListEvents(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
}
