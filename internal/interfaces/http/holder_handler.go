package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
)

// HolderHandler casa matriz, sucursales e ingenieros.
type HolderHandler struct {
	uc *usecase.HolderUseCase
}

// NewHolderHandler construye el handler.
func NewHolderHandler(uc *usecase.HolderUseCase) *HolderHandler {
	return &HolderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear holder
// @Tags         holders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateHolderRequest  true  "Tipo, nombre y sucursal (ingenieros)"
// @Success      201   {object}  dto.HolderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/holders [post]
func (h *HolderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateHolderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener holder por ID
// @Tags         holders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del holder"
// @Success      200  {object}  dto.HolderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/holders/{id} [get]
func (h *HolderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "holder no encontrado")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar holder
// @Tags         holders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del holder"
// @Param        body  body  dto.UpdateHolderRequest  true  "Nombre"
// @Success      200   {object}  dto.HolderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/holders/{id} [put]
func (h *HolderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateHolderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "holder no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar holders
// @Tags         holders
// @Security     Bearer
// @Produce      json
// @Param        type      query  string  false  "head_office | branch | engineer"
// @Param        parentId  query  string  false  "Sucursal (ingenieros)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.HolderListResponse
// @Router       /api/holders [get]
func (h *HolderHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), c.Query("type"), c.Query("parentId"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
