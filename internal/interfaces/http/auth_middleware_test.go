package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	apphttp "github.com/jhoicas/service-stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/service-stock-api/pkg/jwt"
)

const (
	mwSecret   = "secreto-de-pruebas"
	mwUserID   = "00000000-0000-0000-0000-0000000000a1"
	mwHolderID = "00000000-0000-0000-0000-0000000000b1"
)

// gatedApp expone GET /gated detrás de AuthMiddleware y RequireRole(roles...).
func gatedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/gated", apphttp.AuthMiddleware(mwSecret), apphttp.RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user":   apphttp.GetUserID(c),
			"holder": apphttp.GetHolderID(c),
			"role":   apphttp.GetRole(c),
		})
	})
	return app
}

func mwBearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwHolderID, role, "service-stock-test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func hitGated(t *testing.T, app *fiber.App, header string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	if resp.StatusCode != http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

// ─── RequireRole ─────────────────────────────────────────────────────────────

func TestRequireRole_Matriz(t *testing.T) {
	admin := []string{entity.RoleAdmin}
	office := []string{entity.RoleAdmin, entity.RoleCSC}

	cases := []struct {
		name   string
		gate   []string
		role   string
		status int
		code   string
	}{
		{"admin en ruta admin", admin, entity.RoleAdmin, http.StatusOK, ""},
		{"csc en ruta admin", admin, entity.RoleCSC, http.StatusForbidden, "FORBIDDEN"},
		{"csc en ruta de oficina", office, entity.RoleCSC, http.StatusOK, ""},
		{"ingeniero en ruta de oficina", office, entity.RoleEngineer, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", admin, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := hitGated(t, gatedApp(tc.gate...), mwBearer(t, tc.role))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

// ─── AuthMiddleware ──────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaCabeceras(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token basura", "Bearer no.es.jwt", "INVALID_TOKEN"},
	}
	app := gatedApp(entity.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := hitGated(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuthMiddleware_FirmaAjena(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", mwUserID, mwHolderID, entity.RoleAdmin, "x", 5)
	require.NoError(t, err)
	status, body := hitGated(t, gatedApp(entity.RoleAdmin), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_CargaClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", mwBearer(t, entity.RoleEngineer))
	resp, err := gatedApp(entity.RoleEngineer).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mwUserID, body["user"])
	assert.Equal(t, mwHolderID, body["holder"])
	assert.Equal(t, entity.RoleEngineer, body["role"])
}
