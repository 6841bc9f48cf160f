package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/upload"
)

// UploadHandler recibe archivos multipart (campo image o file).
type UploadHandler struct {
	uc       *upload.UploadUseCase
	maxBytes int64
}

func NewUploadHandler(uc *upload.UploadUseCase, maxBytes int64) *UploadHandler {
	return &UploadHandler{uc: uc, maxBytes: maxBytes}
}

// Upload godoc
// @Summary      Subir archivo (imagen o PDF)
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  false  "Imagen"
// @Param        file   formData  file  false  "Archivo"
// @Success      201    {object}  dto.UploadResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo image o file requerido"})
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.uc.Upload(c.Context(), fh.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
