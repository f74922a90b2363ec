package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-prep/internal/application/report"
)

// PDFHandler sirve el BMM impreso.
type PDFHandler struct {
	uc *report.PDFUseCase
}

// NewPDFHandler construye el handler.
func NewPDFHandler(uc *report.PDFUseCase) *PDFHandler {
	return &PDFHandler{uc: uc}
}

// Download godoc
// @Summary      Descargar BMM en PDF
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del BMM"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/pdf [get]
func (h *PDFHandler) Download(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DownloadMovementPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
