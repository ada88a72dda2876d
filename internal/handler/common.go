// Package handler contains the HTTP handlers for the train station
// API.  Handlers bind and validate request bodies, delegate to the
// repository and booking layers, and translate domain errors into
// HTTP status codes.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/storage"
)

// getUserID extracts the authenticated user's ID stored in the
// context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		if v > 0 {
			return v, nil
		}
	case float64:
		if v > 0 {
			return uint64(v), nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, errors.New("no user id in context")
}

// parseIDParam parses the :id path parameter as a positive integer.
func parseIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// uploadImage reads the multipart "image" file from the request,
// rejects non-image content and stores the blob under folder/name.
// It returns the public URL of the stored image.  A nil uploader
// means the blob store is not configured; the caller gets a 503.
func uploadImage(c echo.Context, up storage.Uploader, folder, name string) (string, error) {
	if up == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "image storage is not configured")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "cannot read image file")
	}
	defer f.Close()

	// Sniff the first bytes rather than trusting the client header.
	head := make([]byte, 512)
	n, _ := f.Read(head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "uploaded file is not an image")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "cannot rewind image file")
	}

	url, err := up.UploadImage(c.Request().Context(), folder, name, f)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadGateway, "image upload failed")
	}
	return url, nil
}
