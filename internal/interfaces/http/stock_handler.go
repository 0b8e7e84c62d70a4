package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/excel"
)

// StockHandler entradas, movimientos entre buckets y traslados.
type StockHandler struct {
	ledger    *ledger.LedgerUseCase
	transfers *ledger.TransferUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(l *ledger.LedgerUseCase, t *ledger.TransferUseCase) *StockHandler {
	return &StockHandler{ledger: l, transfers: t}
}

func positionsResponse(list []*entity.StockPosition) dto.StockPositionListResponse {
	items := make([]dto.StockPositionResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewStockPositionResponse(p))
	}
	return dto.StockPositionListResponse{Items: items}
}

func stockBatch(lines []dto.StockLineRequest) (ledger.PendingBatch, error) {
	out := make([]ledger.BatchLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, ledger.BatchLine{SKUCodeID: l.SKUCodeID, Quantity: l.Quantity, Price: l.Price})
	}
	return ledger.NewPendingBatch(out...)
}

func transferBatch(lines []dto.TransferLineRequest) (ledger.PendingBatch, error) {
	out := make([]ledger.BatchLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, ledger.BatchLine{SKUCodeID: l.SKUCodeID, Quantity: l.Quantity})
	}
	return ledger.NewPendingBatch(out...)
}

// holderOr devuelve id o, si está vacío, el holder del usuario.
func holderOr(c *fiber.Ctx, id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return GetHolderID(c)
}

// Positions godoc
// @Summary      Posiciones de stock de un holder
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        holderId  query  string  false  "Holder (por defecto el propio)"
// @Success      200       {object}  dto.StockPositionListResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Positions(c *fiber.Ctx) error {
	list, err := h.ledger.Positions(c.UserContext(), actorFrom(c), holderOr(c, c.Query("holderId")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(positionsResponse(list))
}

// Entry godoc
// @Summary      Entrada de compra
// @Description  Acredita good por línea y recalcula el costo promedio; todo o nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockEntryRequest  true  "Holder y líneas"
// @Success      201   {object}  dto.StockPositionListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/entry [post]
func (h *StockHandler) Entry(c *fiber.Ctx) error {
	var in dto.StockEntryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	batch, err := stockBatch(in.List)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.ledger.RegisterEntry(c.UserContext(), actorFrom(c), holderOr(c, in.HolderID), batch)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(positionsResponse(list))
}

// ImportEntry godoc
// @Summary      Entrada de compra desde planilla
// @Description  Primera hoja con columnas sku_code_id, quantity, price.
// @Tags         stock
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Planilla .xlsx"
// @Param        holderId  formData  string  false  "Holder (por defecto el propio)"
// @Success      201       {object}  dto.StockPositionListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/stock/entry/import [post]
func (h *StockHandler) ImportEntry(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "solo se aceptan archivos .xlsx"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	batch, err := excel.ReadStockEntry(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.ledger.RegisterEntry(c.UserContext(), actorFrom(c), holderOr(c, c.FormValue("holderId")), batch)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(positionsResponse(list))
}

// Adjust godoc
// @Summary      Ajuste administrativo
// @Description  Acredita o debita un bucket de cualquier holder. Un débito sin saldo responde 409.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustRequest  true  "Holder, SKU, bucket y dirección"
// @Success      200   {object}  dto.StockPositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	adj := ledger.AdjustInput{
		HolderID:  in.HolderID,
		SKUCodeID: in.SKUCodeID,
		Bucket:    entity.Bucket(in.Bucket),
		Quantity:  in.Quantity,
		Price:     in.Price,
	}
	var (
		pos *entity.StockPosition
		err error
	)
	if in.Direction == "debit" {
		pos, err = h.ledger.Debit(c.UserContext(), actorFrom(c), adj)
	} else {
		pos, err = h.ledger.Credit(c.UserContext(), actorFrom(c), adj)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockPositionResponse(pos))
}

// Move godoc
// @Summary      Mover entre buckets
// @Description  faulty→good, faulty→scrap, defective→scrap, good→faulty, ... en una transacción.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMoveRequest  true  "Holder y líneas"
// @Success      200   {object}  dto.StockPositionListResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/move [post]
func (h *StockHandler) Move(c *fiber.Ctx) error {
	var in dto.StockMoveRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	lines := make([]ledger.MoveLine, 0, len(in.List))
	for _, l := range in.List {
		lines = append(lines, ledger.MoveLine{
			SKUCodeID: l.SKUCodeID,
			Quantity:  l.Quantity,
			From:      entity.Bucket(l.FromBucket),
			To:        entity.Bucket(l.ToBucket),
		})
	}
	list, err := h.ledger.MoveBatch(c.UserContext(), actorFrom(c), holderOr(c, in.HolderID), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(positionsResponse(list))
}

// CreateTransfer devuelve el handler de creación para un tipo de traslado.
// @Summary      Crear traslado
// @Description  Reserva en el emisor al crear; un registro por línea con el mismo batchId.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Receptor, nota y líneas"
// @Success      201   {array}   dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
// @Router       /api/stock/return [post]
// @Router       /api/stock/faulty [post]
// @Router       /api/stock/defective [post]
// @Router       /api/engineer-stock/transfer [post]
// @Router       /api/engineer-stock/return [post]
// @Router       /api/engineer-stock/faulty [post]
func (h *StockHandler) CreateTransfer(kind entity.TransferKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CreateTransferRequest
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
		if kind == entity.KindEngineerIssue && in.ReceiverID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "receiverId es requerido"})
		}
		batch, err := transferBatch(in.List)
		if err != nil {
			return respondError(c, err)
		}
		list, err := h.transfers.Create(c.UserContext(), actorFrom(c), ledger.CreateTransferInput{
			Kind:       kind,
			SenderID:   in.SenderID,
			ReceiverID: in.ReceiverID,
			Note:       in.Note,
			Batch:      batch,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponses(list))
	}
}

// ListTransfers godoc
// @Summary      Listar traslados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "open,approved,received,rejected (separados por coma)"
// @Param        kind      query  string  false  "Tipos separados por coma"
// @Param        holderId  query  string  false  "Emisor o receptor (solo admin)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.TransferListResponse
// @Router       /api/stock/transfers [get]
func (h *StockHandler) ListTransfers(c *fiber.Ctx) error {
	p := page(c)
	f := repository.TransferFilter{HolderID: c.Query("holderId"), Limit: p.Limit, Offset: p.Offset}
	for _, s := range splitCSV(c.Query("status")) {
		st := entity.TransferStatus(s)
		if !st.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido: " + s})
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, k := range splitCSV(c.Query("kind")) {
		f.Kinds = append(f.Kinds, entity.TransferKind(k))
	}
	return h.listTransfers(c, f, p)
}

// EngineerTransfers traslados desde o hacia ingenieros.
func (h *StockHandler) EngineerTransfers(c *fiber.Ctx) error {
	p := page(c)
	f := repository.TransferFilter{
		HolderID: c.Query("engineerId"),
		Kinds:    []entity.TransferKind{entity.KindEngineerIssue, entity.KindEngineerReturn, entity.KindEngineerFaulty},
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	return h.listTransfers(c, f, p)
}

func (h *StockHandler) listTransfers(c *fiber.Ctx, f repository.TransferFilter, p dto.PageRequest) error {
	list, err := h.transfers.List(c.UserContext(), actorFrom(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TransferListResponse{
		Items: dto.NewTransferResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset},
	})
}

// GetTransfer godoc
// @Summary      Obtener traslado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetTransfer(c *fiber.Ctx) error {
	t, err := h.transfers.GetByID(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// ResolveTransfer godoc
// @Summary      Aprobar, recibir o rechazar un traslado
// @Description  approved (admin), received o rejected (receptor o admin; rejected exige nota).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del registro"
// @Param        body  body  dto.ResolveTransferRequest  true  "Estado destino y nota"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
// @Router       /api/engineer-stock/{id} [put]
func (h *StockHandler) ResolveTransfer(c *fiber.Ctx) error {
	var in dto.ResolveTransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	t, err := h.transfers.Resolve(c.UserContext(), actorFrom(c), c.Params("id"), entity.TransferStatus(in.Status), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// EngineerPositions godoc
// @Summary      Stock de un ingeniero
// @Tags         engineer-stock
// @Security     Bearer
// @Produce      json
// @Param        engineerId  query  string  false  "Ingeniero (por defecto el propio)"
// @Success      200         {object}  dto.StockPositionListResponse
// @Router       /api/engineer-stock [get]
func (h *StockHandler) EngineerPositions(c *fiber.Ctx) error {
	list, err := h.ledger.Positions(c.UserContext(), actorFrom(c), holderOr(c, c.Query("engineerId")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(positionsResponse(list))
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
