package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/storage"
)

// maxUploadBytes caps label images at 5 MiB.
const maxUploadBytes = 5 << 20

// allowedImageTypes is the MIME allow-list for label images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// UploadHandler stores label images in the object store and returns their
// public URL, which clients then save on the product's imageUrl field.
type UploadHandler struct {
	Store *storage.ImageStore
}

// NewUploadHandler constructs an UploadHandler and panics on a nil store.
func NewUploadHandler(store *storage.ImageStore) *UploadHandler {
	if store == nil {
		panic("nil store passed to NewUploadHandler")
	}
	return &UploadHandler{Store: store}
}

// Upload handles POST /api/products/upload with a multipart "file" part.
// Type and size are checked before anything touches the object store.
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := principalID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file provided"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file size exceeds 5MB limit"})
	}
	contentType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if !allowedImageTypes[contentType] {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid file type, only JPEG, PNG and WebP images are allowed",
		})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer src.Close()

	key := storage.NewImageKey(filepath.Ext(fh.Filename))
	if err := h.Store.Put(c.Request().Context(), key, contentType, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": h.Store.PublicURL(key)})
}
