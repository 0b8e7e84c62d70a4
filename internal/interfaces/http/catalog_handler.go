package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
)

// CatalogHandler categorías, modelos, items y códigos SKU.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

type (
	nodeWriter  func(ctx context.Context, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error)
	nodeUpdater func(ctx context.Context, id string, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error)
	nodeDeleter func(ctx context.Context, id string) error
)

func createNode(c *fiber.Ctx, fn nodeWriter) error {
	var in dto.CatalogNameRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := fn(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func updateNode(c *fiber.Ctx, fn nodeUpdater) error {
	var in dto.CatalogNameRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := fn(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func deleteNode(c *fiber.Ctx, fn nodeDeleter) error {
	if err := fn(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ─── Categories ───────────────────────────────────────────────────────────────

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogNameRequest  true  "Nombre"
// @Success      201   {object}  dto.CatalogNodeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	return createNode(c, h.uc.CreateCategory)
}

// UpdateCategory godoc
// @Summary      Renombrar categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.CatalogNameRequest  true  "Nombre"
// @Success      200   {object}  dto.CatalogNodeResponse
// @Router       /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	return updateNode(c, h.uc.UpdateCategory)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría sin modelos
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	return deleteNode(c, h.uc.DeleteCategory)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CatalogListResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.ListCategories(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ─── Models ───────────────────────────────────────────────────────────────────

// CreateModel godoc
// @Summary      Crear modelo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogNameRequest  true  "parentId = categoría"
// @Success      201   {object}  dto.CatalogNodeResponse
// @Router       /api/models [post]
func (h *CatalogHandler) CreateModel(c *fiber.Ctx) error {
	return createNode(c, h.uc.CreateModel)
}

// UpdateModel godoc
// @Summary      Renombrar modelo
// @Tags         catalog
// @Security     Bearer
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.CatalogNameRequest  true  "Nombre"
// @Success      200   {object}  dto.CatalogNodeResponse
// @Router       /api/models/{id} [put]
func (h *CatalogHandler) UpdateModel(c *fiber.Ctx) error {
	return updateNode(c, h.uc.UpdateModel)
}

// DeleteModel godoc
// @Summary      Eliminar modelo sin items
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/models/{id} [delete]
func (h *CatalogHandler) DeleteModel(c *fiber.Ctx) error {
	return deleteNode(c, h.uc.DeleteModel)
}

// ListModels godoc
// @Summary      Listar modelos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        categoryId  query  string  false  "Categoría"
// @Success      200         {object}  dto.CatalogListResponse
// @Router       /api/models [get]
func (h *CatalogHandler) ListModels(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.ListModels(c.UserContext(), c.Query("categoryId"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ─── Items ────────────────────────────────────────────────────────────────────

// CreateItem godoc
// @Summary      Crear item
// @Tags         catalog
// @Security     Bearer
// @Param        body  body  dto.CatalogNameRequest  true  "parentId = modelo"
// @Success      201   {object}  dto.CatalogNodeResponse
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	return createNode(c, h.uc.CreateItem)
}

// UpdateItem godoc
// @Summary      Renombrar item
// @Tags         catalog
// @Security     Bearer
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.CatalogNameRequest  true  "Nombre"
// @Success      200   {object}  dto.CatalogNodeResponse
// @Router       /api/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	return updateNode(c, h.uc.UpdateItem)
}

// DeleteItem godoc
// @Summary      Eliminar item sin códigos SKU
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	return deleteNode(c, h.uc.DeleteItem)
}

// ListItems godoc
// @Summary      Listar items
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        modelId  query  string  false  "Modelo"
// @Success      200      {object}  dto.CatalogListResponse
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.ListItems(c.UserContext(), c.Query("modelId"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ─── SKU codes ────────────────────────────────────────────────────────────────

// CreateSKUCode godoc
// @Summary      Crear código SKU
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSKUCodeRequest  true  "Item, código y marca de defectuoso"
// @Success      201   {object}  dto.SKUCodeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sku-codes [post]
func (h *CatalogHandler) CreateSKUCode(c *fiber.Ctx) error {
	var in dto.CreateSKUCodeRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSKUCode(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSKUCode godoc
// @Summary      Obtener código SKU
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SKUCodeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sku-codes/{id} [get]
func (h *CatalogHandler) GetSKUCode(c *fiber.Ctx) error {
	out, err := h.uc.GetSKUCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "código SKU no encontrado")
	}
	return c.JSON(out)
}

// UpdateSKUCode godoc
// @Summary      Actualizar código SKU
// @Description  isDefective solo cambia mientras el SKU no tenga movimientos.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateSKUCodeRequest  true  "Código y/o marca"
// @Success      200   {object}  dto.SKUCodeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sku-codes/{id} [put]
func (h *CatalogHandler) UpdateSKUCode(c *fiber.Ctx) error {
	var in dto.UpdateSKUCodeRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSKUCode(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSKUCode godoc
// @Summary      Eliminar código SKU sin movimientos
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sku-codes/{id} [delete]
func (h *CatalogHandler) DeleteSKUCode(c *fiber.Ctx) error {
	return deleteNode(c, h.uc.DeleteSKUCode)
}

// ListSKUCodes godoc
// @Summary      Listar códigos SKU
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        itemId  query  string  false  "Item"
// @Success      200     {object}  dto.SKUCodeListResponse
// @Router       /api/sku-codes [get]
func (h *CatalogHandler) ListSKUCodes(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.ListSKUCodes(c.UserContext(), c.Query("itemId"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
