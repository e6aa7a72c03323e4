package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ReportHandler reportes descargables (protegido).
type ReportHandler struct {
	uc *usecase.ProductUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ProductUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockReport godoc
// @Summary      Reporte de existencias en PDF
// @Description  Productos con cantidad y valor, más subtotales por almacén y total general.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockReport(c *fiber.Ctx) error {
	pdf, err := h.uc.StockReport(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("existencias-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(pdf)
}
