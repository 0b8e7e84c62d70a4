package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
)

// ReportHandler proyecciones de solo lectura.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) query(c *fiber.Ctx) (dto.ReportRequest, error) {
	var req dto.ReportRequest
	if err := c.QueryParser(&req); err != nil {
		return req, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	return req, nil
}

// Stock godoc
// @Summary      Reporte de stock
// @Description  Posiciones por bucket, costo promedio y valor del stock bueno.
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        holderId   query  string  false  "Holder"
// @Param        skuCodeId  query  string  false  "SKU"
// @Success      200        {object}  dto.StockReportResponse
// @Router       /api/stock/report [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	req, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.StockReport(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfers godoc
// @Summary      Reporte de traslados
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        fromDate  query  string  false  "YYYY-MM-DD"
// @Param        toDate    query  string  false  "YYYY-MM-DD inclusive"
// @Param        holderId  query  string  false  "Holder"
// @Param        status    query  string  false  "Estado"
// @Success      200       {object}  dto.TransferReportResponse
// @Router       /api/transfer/report [get]
func (h *ReportHandler) Transfers(c *fiber.Ctx) error {
	req, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.TransferReport(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Jobs godoc
// @Summary      Reporte de trabajos
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        fromDate  query  string  false  "YYYY-MM-DD"
// @Param        toDate    query  string  false  "YYYY-MM-DD inclusive"
// @Param        holderId  query  string  false  "Holder"
// @Success      200       {object}  dto.JobReportResponse
// @Router       /api/job/report [get]
func (h *ReportHandler) Jobs(c *fiber.Ctx) error {
	req, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.JobReport(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Reporte del ledger
// @Description  Eventos del ledger y delta neto por bucket.
// @Tags         report
// @Security     Bearer
// @Produce      json
// @Param        fromDate   query  string  false  "YYYY-MM-DD"
// @Param        toDate     query  string  false  "YYYY-MM-DD inclusive"
// @Param        holderId   query  string  false  "Holder"
// @Param        skuCodeId  query  string  false  "SKU"
// @Success      200        {object}  dto.LedgerReportResponse
// @Router       /api/ledger/report [get]
func (h *ReportHandler) Ledger(c *fiber.Ctx) error {
	req, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.LedgerReport(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
