package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// JobHandler órdenes de servicio que consumen repuestos.
type JobHandler struct {
	uc *ledger.JobUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(uc *ledger.JobUseCase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Submit godoc
// @Summary      Registrar trabajo
// @Description  Valida todas las líneas contra el stock bueno del holder antes de descontar; todo o nada.
// @Tags         job
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitJobRequest  true  "Trabajo y repuestos"
// @Success      201   {object}  dto.JobResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/job [post]
func (h *JobHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitJobRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	batch, err := stockBatch(in.Items)
	if err != nil {
		return respondError(c, err)
	}
	job, err := h.uc.Submit(c.UserContext(), actorFrom(c), ledger.SubmitJobInput{
		JobNo:       in.JobNo,
		AssetsNo:    in.AssetsNo,
		ServiceType: in.ServiceType,
		SellFrom:    entity.SellFrom(in.SellFrom),
		BranchID:    in.BranchID,
		EngineerID:  in.EngineerID,
		Batch:       batch,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewJobResponse(job))
}

// GetByID godoc
// @Summary      Obtener trabajo
// @Tags         job
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/job/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.uc.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewJobResponse(job))
}

// List godoc
// @Summary      Listar trabajos
// @Tags         job
// @Security     Bearer
// @Produce      json
// @Param        holderId  query  string  false  "Holder que consumió"
// @Param        fromDate  query  string  false  "YYYY-MM-DD"
// @Param        toDate    query  string  false  "YYYY-MM-DD inclusive"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.JobListResponse
// @Router       /api/job [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	p := page(c)
	f := repository.JobFilter{HolderID: c.Query("holderId"), Limit: p.Limit, Offset: p.Offset}
	if s := c.Query("fromDate"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fromDate debe ser YYYY-MM-DD"})
		}
		f.From = &t
	}
	if s := c.Query("toDate"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "toDate debe ser YYYY-MM-DD"})
		}
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}
	list, err := h.uc.List(c.UserContext(), actorFrom(c), f)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, dto.NewJobResponse(j))
	}
	return c.JSON(dto.JobListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}
