package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/config"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// MediaHandler stores venue photos on local disk and records their
// public URL on the venue row.  Files land in Cfg.MediaDir and are
// served back under the /media/ static route.
type MediaHandler struct {
	Cfg    config.Config
	Venues *repository.VenueRepo
}

func NewMediaHandler(cfg config.Config, venues *repository.VenueRepo) *MediaHandler {
	return &MediaHandler{Cfg: cfg, Venues: venues}
}

// allowed image extensions; anything else is rejected up front
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadVenueImage accepts a multipart "image" file for a venue the
// authenticated owner controls.  The stored filename is random so
// uploads never collide or overwrite each other.
func (h *MediaHandler) UploadVenueImage(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.MediaDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.Cfg.MediaDir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	url := "/media/" + name

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.SetImageURL(ctx, id, email, url); err != nil {
		// the file stays on disk but is unreferenced; acceptable cost
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"image_url": url})
}
