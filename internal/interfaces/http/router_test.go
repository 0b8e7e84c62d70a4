package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/service-stock-api/internal/application/auth"
	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/service-stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/service-stock-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: router completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "service-stock-test"
	testExpMin    = 60
)

type apiEnv struct {
	app   *fiber.App
	store *memory.Store

	admin, cscA, cscB, engX string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	holders := []*entity.Holder{
		{ID: "head", Type: entity.HolderHeadOffice, Name: "Casa Matriz"},
		{ID: "branch-a", Type: entity.HolderBranch, Name: "BranchA"},
		{ID: "branch-b", Type: entity.HolderBranch, Name: "BranchB"},
		{ID: "eng-x", Type: entity.HolderEngineer, Name: "EngineerX", ParentID: "branch-a"},
	}
	for _, h := range holders {
		require.NoError(t, s.Holders().Create(ctx, h))
	}
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "cat", Name: "Smartphones", NameKey: "smartphones"}))
	require.NoError(t, s.Models().Create(ctx, &entity.Model{ID: "model", CategoryID: "cat", Name: "X1", NameKey: "x1"}))
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "item", ModelID: "model", Name: "Pantalla", NameKey: "pantalla"}))
	require.NoError(t, s.SKUCodes().Create(ctx, &entity.SKUCode{ID: "SKU-1", ItemID: "item", Code: "SKU-1", CodeKey: "sku-1"}))

	deps := ledger.Deps{
		Tx:        s,
		SKUs:      s.SKUCodes(),
		Holders:   s.Holders(),
		Stock:     s.Stock(),
		Transfers: s.Transfers(),
		Jobs:      s.Jobs(),
		Locker:    memory.NewKeyLocker(),
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(s.Users(), s.Holders(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, RefreshExpMinutes: 120, Issuer: testIssuer,
		}),
		HolderUC: usecase.NewHolderUseCase(s.Holders()),
		UserUC:   usecase.NewUserUseCase(s.Users()),
		CatalogUC: usecase.NewCatalogUseCase(usecase.CatalogRepos{
			Categories: s.Categories(), Models: s.Models(), Items: s.Items(), SKUCodes: s.SKUCodes(),
			Stock: s.Stock(), Transfers: s.Transfers(), Jobs: s.Jobs(),
			Holders: s.Holders(), Locker: deps.Locker,
		}),
		ReportUC:   usecase.NewReportUseCase(s.Stock(), s.Transfers(), s.Jobs(), s.LedgerEvents()),
		LedgerUC:   ledger.NewLedgerUseCase(deps),
		TransferUC: ledger.NewTransferUseCase(deps),
		JobUC:      ledger.NewJobUseCase(deps),
		JWTSecret:  testJWTSecret,
		RefreshTTL: 2 * time.Hour,
	})

	return &apiEnv{
		app:   app,
		store: s,
		admin: bearer(t, "u-admin", "head", entity.RoleAdmin),
		cscA:  bearer(t, "u-csc-a", "branch-a", entity.RoleCSC),
		cscB:  bearer(t, "u-csc-b", "branch-b", entity.RoleCSC),
		engX:  bearer(t, "u-eng-x", "eng-x", entity.RoleEngineer),
	}
}

func bearer(t *testing.T, userID, holderID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, holderID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call envía un JSON y devuelve status y cuerpo.
func (e *apiEnv) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (e *apiEnv) entry(t *testing.T, token, holderID string, qty int64, price string) {
	t.Helper()
	status, body := e.call(t, http.MethodPost, "/api/stock/entry", token, fiber.Map{
		"holderId": holderID,
		"list":     []fiber.Map{{"skuCodeId": "SKU-1", "quantity": qty, "price": price}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
}

func (e *apiEnv) position(t *testing.T, holderID string) *entity.StockPosition {
	t.Helper()
	pos, err := e.store.Stock().Get(context.Background(), entity.HolderRef{ID: holderID}, "SKU-1")
	require.NoError(t, err)
	return pos
}

func decodeError(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_EntradaRecalculaPromedio(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 10, "10")
	e.entry(t, e.cscA, "branch-a", 10, "20")

	status, body := e.call(t, http.MethodGet, "/api/stock", e.cscA, nil)
	require.Equal(t, http.StatusOK, status)
	var out dto.StockPositionListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(20), out.Items[0].Good)
	assert.True(t, decimal.NewFromInt(15).Equal(out.Items[0].AvgPrice), "promedio ponderado (10*10+10*20)/20")
}

func TestAPI_EntradaSinLineas_Retorna400(t *testing.T) {
	e := newAPIEnv(t)
	status, body := e.call(t, http.MethodPost, "/api/stock/entry", e.cscA, fiber.Map{"list": []fiber.Map{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeError(t, body)["code"])
}

func TestAPI_EntradaLineaDuplicada_Retorna400(t *testing.T) {
	e := newAPIEnv(t)
	status, _ := e.call(t, http.MethodPost, "/api/stock/entry", e.cscA, fiber.Map{
		"list": []fiber.Map{
			{"skuCodeId": "SKU-1", "quantity": 1, "price": "1"},
			{"skuCodeId": "SKU-1", "quantity": 2, "price": "1"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Nil(t, e.position(t, "branch-a"), "el ledger no debe cambiar")
}

func TestAPI_EntradaIngeniero_Retorna403(t *testing.T) {
	e := newAPIEnv(t)
	status, _ := e.call(t, http.MethodPost, "/api/stock/entry", e.engX, fiber.Map{
		"list": []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 1, "price": "1"}},
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_EntradaDesdePlanilla(t *testing.T) {
	e := newAPIEnv(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"sku_code_id", "quantity", "price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"SKU-1", 4, "12,50"}))
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "entrada.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/stock/entry/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", e.cscA)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	pos := e.position(t, "branch-a")
	require.NotNil(t, pos)
	assert.Equal(t, int64(4), pos.Good)
	assert.True(t, decimal.RequireFromString("12.5").Equal(pos.AvgPrice))
}

func TestAPI_MoverBuckets_StockInsuficiente(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 3, "10")

	status, body := e.call(t, http.MethodPost, "/api/stock/move", e.cscA, fiber.Map{
		"list": []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 2, "fromBucket": "good", "toBucket": "faulty"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	pos := e.position(t, "branch-a")
	assert.Equal(t, int64(1), pos.Good)
	assert.Equal(t, int64(2), pos.Faulty)

	status, body = e.call(t, http.MethodPost, "/api/stock/move", e.cscA, fiber.Map{
		"list": []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 5, "fromBucket": "faulty", "toBucket": "scrap"}},
	})
	assert.Equal(t, http.StatusConflict, status)
	out := decodeError(t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])
	details, ok := out["details"].(map[string]any)
	require.True(t, ok, "debe incluir el detalle del faltante")
	assert.Equal(t, "SKU-1", details["skuCodeId"])
	assert.EqualValues(t, 2, details["available"])
	assert.EqualValues(t, 5, details["requested"])
}

func TestAPI_AjusteAdministrativo(t *testing.T) {
	e := newAPIEnv(t)

	status, body := e.call(t, http.MethodPost, "/api/stock/adjust", e.admin, fiber.Map{
		"holderId": "branch-a", "skuCodeId": "SKU-1", "bucket": "good", "direction": "credit", "quantity": 4, "price": "25",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var pos dto.StockPositionResponse
	require.NoError(t, json.Unmarshal(body, &pos))
	assert.Equal(t, int64(4), pos.Good)
	assert.True(t, decimal.NewFromInt(25).Equal(pos.AvgPrice))

	status, body = e.call(t, http.MethodPost, "/api/stock/adjust", e.admin, fiber.Map{
		"holderId": "branch-a", "skuCodeId": "SKU-1", "bucket": "good", "direction": "debit", "quantity": 5,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, body)["code"])
	assert.Equal(t, int64(4), e.position(t, "branch-a").Good, "un débito fallido no cambia el saldo")

	status, _ = e.call(t, http.MethodPost, "/api/stock/adjust", e.cscA, fiber.Map{
		"holderId": "branch-a", "skuCodeId": "SKU-1", "bucket": "scrap", "direction": "credit", "quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, status, "solo admin ajusta")

	status, body = e.call(t, http.MethodPost, "/api/stock/adjust", e.admin, fiber.Map{
		"holderId": "branch-a", "skuCodeId": "SKU-1", "bucket": "good", "direction": "sideways", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeError(t, body)["code"])
}

func TestAPI_EntradaQueDesborda_Retorna400(t *testing.T) {
	e := newAPIEnv(t)
	require.NoError(t, e.store.Stock().Upsert(context.Background(), &entity.StockPosition{
		Holder: entity.HolderRef{Type: entity.HolderBranch, ID: "branch-a"}, SKUCodeID: "SKU-1", Good: math.MaxInt64,
	}))

	status, body := e.call(t, http.MethodPost, "/api/stock/entry", e.cscA, fiber.Map{
		"list": []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 1, "price": "10"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUANTITY", decodeError(t, body)["code"])
	assert.Equal(t, int64(math.MaxInt64), e.position(t, "branch-a").Good)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_TrasladoReservaYRecepcion(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 5, "10")

	status, body := e.call(t, http.MethodPost, "/api/stock/transfer", e.cscA, fiber.Map{
		"receiverId": "branch-b",
		"list":       []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created []dto.TransferResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.Len(t, created, 1)
	assert.Equal(t, "open", created[0].Status)
	assert.Equal(t, int64(2), e.position(t, "branch-a").Good, "la cantidad se reserva al crear")

	status, body = e.call(t, http.MethodGet, "/api/stock/transfers?status=open&holderId=branch-b", e.cscB, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var list dto.TransferListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)

	path := "/api/stock/" + created[0].ID
	status, body = e.call(t, http.MethodPut, path, e.cscB, fiber.Map{"status": "received"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, int64(3), e.position(t, "branch-b").Good)

	status, body = e.call(t, http.MethodPut, path, e.cscB, fiber.Map{"status": "rejected", "note": "tarde"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE_TRANSITION", decodeError(t, body)["code"])
}

func TestAPI_TrasladoSinStock_NoCreaNada(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 1, "10")

	status, _ := e.call(t, http.MethodPost, "/api/stock/transfer", e.cscA, fiber.Map{
		"receiverId": "branch-b",
		"list":       []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 2}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, int64(1), e.position(t, "branch-a").Good)
}

func TestAPI_EntregaAIngenieroRequiereReceptor(t *testing.T) {
	e := newAPIEnv(t)
	status, body := e.call(t, http.MethodPost, "/api/engineer-stock/transfer", e.cscA, fiber.Map{
		"list": []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeError(t, body)["code"])
}

func TestAPI_IngenieroVeSuStock(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 4, "10")
	status, body := e.call(t, http.MethodPost, "/api/engineer-stock/transfer", e.cscA, fiber.Map{
		"receiverId": "eng-x",
		"list":       []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created []dto.TransferResponse
	require.NoError(t, json.Unmarshal(body, &created))

	status, body = e.call(t, http.MethodPut, "/api/engineer-stock/"+created[0].ID, e.engX, fiber.Map{"status": "received"})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = e.call(t, http.MethodGet, "/api/engineer-stock", e.engX, nil)
	require.Equal(t, http.StatusOK, status)
	var out dto.StockPositionListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Good)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trabajos, catálogo y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_TrabajoTodoONada(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 2, "10")

	status, body := e.call(t, http.MethodPost, "/api/job", e.cscA, fiber.Map{
		"jobNo":    "J-1",
		"sellFrom": "branch",
		"items":    []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 3, "price": "25"}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, body)["code"])
	assert.Equal(t, int64(2), e.position(t, "branch-a").Good)

	status, body = e.call(t, http.MethodPost, "/api/job", e.cscA, fiber.Map{
		"jobNo":    "J-1",
		"sellFrom": "branch",
		"items":    []fiber.Map{{"skuCodeId": "SKU-1", "quantity": 2, "price": "25"}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var job dto.JobResponse
	require.NoError(t, json.Unmarshal(body, &job))
	assert.True(t, decimal.NewFromInt(50).Equal(job.Total))
	assert.Equal(t, int64(0), e.position(t, "branch-a").Good)

	status, _ = e.call(t, http.MethodGet, "/api/job/"+job.ID, e.cscA, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_CatalogoSoloAdminEscribe(t *testing.T) {
	e := newAPIEnv(t)
	status, _ := e.call(t, http.MethodPost, "/api/categories", e.cscA, fiber.Map{"name": "Tablets"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := e.call(t, http.MethodPost, "/api/categories", e.admin, fiber.Map{"name": "Tablets"})
	assert.Equal(t, http.StatusCreated, status, string(body))

	status, body = e.call(t, http.MethodPost, "/api/categories", e.admin, fiber.Map{"name": "  TABLETS "})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decodeError(t, body)["code"])

	status, body = e.call(t, http.MethodDelete, "/api/categories/cat", e.admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "HAS_DEPENDENTS", decodeError(t, body)["code"])
}

func TestAPI_ReporteStock(t *testing.T) {
	e := newAPIEnv(t)
	e.entry(t, e.cscA, "", 4, "10")

	status, body := e.call(t, http.MethodGet, "/api/stock/report?holderId=branch-a", e.cscA, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.StockReportResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(4), out.TotalGood)
	assert.True(t, decimal.NewFromInt(40).Equal(out.TotalValue))
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	e := newAPIEnv(t)
	status, _ := e.call(t, http.MethodGet, "/api/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_LoginConAdminInicial(t *testing.T) {
	e := newAPIEnv(t)
	uc := auth.NewAuthUseCase(e.store.Users(), e.store.Holders(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	created, err := uc.EnsureAdmin(context.Background(), "admin@service.test", "secreto-123")
	require.NoError(t, err)
	require.True(t, created)

	status, body := e.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ADMIN@service.test", "password": "secreto-123"})
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "head", out.User.HolderID, "usa la casa matriz existente")

	status, _ = e.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@service.test", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
}
