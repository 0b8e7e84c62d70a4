package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/auth"
	"github.com/jhoicas/service-stock-api/internal/application/dto"
)

const refreshCookie = "refresh_token"

// AuthHandler maneja registro, login y refresh.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	refreshTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler construye el handler de auth. secureCookie marca la cookie de refresh como Secure.
func NewAuthHandler(uc *auth.AuthUseCase, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, holderId, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el access token y deja el refresh token en la cookie refresh_token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	h.setRefreshCookie(c, out.RefreshToken)
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Description  Toma el refresh token de la cookie refresh_token o del body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  false  "refreshToken"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		var in dto.RefreshRequest
		_ = c.BodyParser(&in)
		token = in.RefreshToken
	}
	out, err := h.uc.Refresh(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}
	h.setRefreshCookie(c, out.RefreshToken)
	return c.JSON(out)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
