package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/pkg/firebase"
)

// UploadHandler handles image uploads to Cloud Storage
type UploadHandler struct {
	storage *firebase.Storage
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(storage *firebase.Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload/image", h.UploadImage)
}

// UploadImage accepts a multipart image and a type (profile or post),
// streams it to the storage bucket and returns the object URL together with
// the storage ID callers pass back when creating posts or updating avatars.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	if h.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage not configured")
	}

	uploadType := c.FormValue("type")
	if uploadType != "profile" && uploadType != "post" {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be 'profile' or 'post'")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	objectName := uploadType + "s/" + uuid.NewString() + filepath.Ext(fileHeader.Filename)

	url, err := h.storage.Upload(c.Request().Context(), objectName, contentType, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url, "storageId": objectName})
}
