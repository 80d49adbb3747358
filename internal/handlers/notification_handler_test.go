package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotifications_SenderEnrichment(t *testing.T) {
	app := newTestApp(t)
	anna, annaToken := app.signupUser(t, "Anna", "anna@example.com")
	_, bobToken := app.signupUser(t, "Bob", "bob@example.com")
	_, caraToken := app.signupUser(t, "Cara", "cara@example.com")

	rec := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", anna.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", anna.ID), caraToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, "/api/v1/notifications", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var notifications []struct {
		Message    string `json:"message"`
		SenderName string `json:"sender_name"`
		IsRead     bool   `json:"is_read"`
	}
	decodeJSON(t, rec, &notifications)
	require.Len(t, notifications, 2)
	assert.Equal(t, "Cara", notifications[0].SenderName, "newest first")
	assert.Equal(t, "Bob", notifications[1].SenderName)
	assert.False(t, notifications[0].IsRead)
}

func TestGetNotifications_DeletedSenderFallback(t *testing.T) {
	app := newTestApp(t)
	anna, annaToken := app.signupUser(t, "Anna", "anna@example.com")
	_, bobToken := app.signupUser(t, "Bob", "bob@example.com")

	rec := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", anna.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Bob deletes their account; the notification survives them.
	rec = app.request(t, http.MethodDelete, "/api/v1/auth/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, "/api/v1/notifications", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notifications []struct {
		SenderName string `json:"sender_name"`
	}
	decodeJSON(t, rec, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Unknown User", notifications[0].SenderName)
}

func TestMarkAsRead(t *testing.T) {
	app := newTestApp(t)
	anna, annaToken := app.signupUser(t, "Anna", "anna@example.com")
	_, bobToken := app.signupUser(t, "Bob", "bob@example.com")

	rec := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", anna.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, app.notifRepo.created, 1)
	notifID := app.notifRepo.created[0].ID.Hex()

	rec = app.request(t, http.MethodGet, "/api/v1/notifications/unread-count", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	decodeJSON(t, rec, &count)
	assert.EqualValues(t, 1, count.Count)

	// Only the recipient may mark it.
	rec = app.request(t, http.MethodPut, "/api/v1/notifications/"+notifID+"/read", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPut, "/api/v1/notifications/"+notifID+"/read", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Marking again is stable.
	rec = app.request(t, http.MethodPut, "/api/v1/notifications/"+notifID+"/read", annaToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, "/api/v1/notifications/unread-count", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &count)
	assert.Zero(t, count.Count)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	app := newTestApp(t)
	_, annaToken := app.signupUser(t, "Anna", "anna@example.com")

	rec := app.request(t, http.MethodPut, "/api/v1/notifications/64f000000000000000000000/read", annaToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkAllAsRead(t *testing.T) {
	app := newTestApp(t)
	anna, annaToken := app.signupUser(t, "Anna", "anna@example.com")
	_, bobToken := app.signupUser(t, "Bob", "bob@example.com")
	_, caraToken := app.signupUser(t, "Cara", "cara@example.com")

	for _, token := range []string{bobToken, caraToken} {
		rec := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", anna.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := app.request(t, http.MethodPut, "/api/v1/notifications/read-all", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success      bool  `json:"success"`
		UpdatedCount int64 `json:"updated_count"`
	}
	decodeJSON(t, rec, &body)
	assert.True(t, body.Success)
	assert.EqualValues(t, 2, body.UpdatedCount)

	// A second sweep has nothing left to update.
	rec = app.request(t, http.MethodPut, "/api/v1/notifications/read-all", annaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &body)
	assert.Zero(t, body.UpdatedCount)
}
