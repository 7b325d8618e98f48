package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// MediaHandler issues presigned URLs for request images. Clients upload blobs
// directly to object storage; the API only ever handles opaque keys.
type MediaHandler struct {
	media ports.MediaService
}

func NewMediaHandler(media ports.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

type uploadURLRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
}

type uploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type downloadURLResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
}

// CreateUploadURL handles POST /v1/media/upload-url.
//
// @Summary      Mint a presigned upload URL for an image
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadURLRequest  true  "Original file name"
// @Success      201   {object}  uploadURLResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/media/upload-url [post]
func (h *MediaHandler) CreateUploadURL(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req uploadURLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slot, err := h.media.CreateUploadSlot(c.Request().Context(), req.FileName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, uploadURLResponse{Key: slot.Key, UploadURL: slot.URL})
}

// GetDownloadURL handles GET /v1/media/:key.
//
// @Summary      Resolve a media key to a presigned download URL
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Media key"
// @Success      200  {object}  downloadURLResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/media/{key} [get]
func (h *MediaHandler) GetDownloadURL(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	key := c.Param("key")
	url, err := h.media.ResolveURL(c.Request().Context(), key)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, downloadURLResponse{Key: key, DownloadURL: url})
}
