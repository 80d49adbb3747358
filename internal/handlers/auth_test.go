package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"name":     "Anna",
		"email":    "anna@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Anna", user["name"])
	assert.Equal(t, "anna@example.com", user["email"])
	// The password hash never leaves the server.
	_, leaked := user["password"]
	assert.False(t, leaked)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.signupUser(t, "Anna", "anna@example.com")

	rec := app.request(t, http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"name":     "Other Anna",
		"email":    "anna@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		payload echo.Map
	}{
		{"missing email", echo.Map{"name": "Anna", "password": "password123"}},
		{"bad email", echo.Map{"name": "Anna", "email": "not-an-email", "password": "password123"}},
		{"short password", echo.Map{"name": "Anna", "email": "anna@example.com", "password": "short"}},
		{"short name", echo.Map{"name": "A", "email": "anna@example.com", "password": "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(t, http.MethodPost, "/api/v1/auth/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.signupUser(t, "Anna", "anna@example.com")

	rec := app.request(t, http.MethodPost, "/api/v1/auth/login", "", echo.Map{
		"email":    "anna@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signupUser(t, "Anna", "anna@example.com")

	rec := app.request(t, http.MethodPost, "/api/v1/auth/login", "", echo.Map{
		"email":    "anna@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/v1/auth/login", "", echo.Map{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
