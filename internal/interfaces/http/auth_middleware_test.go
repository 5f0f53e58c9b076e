package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/identity"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/rochas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/rochas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "rochas-test"
	testExpMin    = 60
)

// stubResolver devuelve siempre el mismo estado.
type stubResolver struct {
	state identity.ProfileState
}

func (s stubResolver) Resolve(context.Context, string) identity.ProfileState { return s.state }

func present(role, companyID string) stubResolver {
	p := &entity.UserProfile{UserID: testUserID, Role: role, CompanyID: companyID}
	capability, _ := access.FromProfile(p)
	return stubResolver{state: identity.ProfileState{Status: identity.StatusPresent, Profile: p, Capability: capability}}
}

// buildTestApp: AuthMiddleware + RequireAdmin opcional + handler dummy que devuelve 200.
func buildTestApp(resolver apphttp.ProfileResolver, adminOnly bool) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret, resolver)}
	if adminOnly {
		handlers = append(handlers, apphttp.RequireAdmin())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		sess := apphttp.GetSession(c)
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"admin":      sess.Capability.IsAdmin(),
			"company_id": sess.Capability.CompanyID(),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "dono@alfa.com", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SesionEmpresa(t *testing.T) {
	app := buildTestApp(present(entity.RoleEmpresa, testCompanyID), false)
	resp := doRequest(t, app, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, false, body["admin"])
	assert.Equal(t, testCompanyID, body["company_id"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(present(entity.RoleAdmin, ""), false)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(present(entity.RoleAdmin, ""), false)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	app := buildTestApp(present(entity.RoleAdmin, ""), false)
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Autenticado sin perfil: 403 NOT_PROVISIONED, nunca una sesión vacía.
func TestAuthMiddleware_SinPerfil_Retorna403(t *testing.T) {
	app := buildTestApp(stubResolver{state: identity.ProfileState{Status: identity.StatusAbsent}}, false)
	resp := doRequest(t, app, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "NOT_PROVISIONED")
}

// Fallo al leer el perfil: 503 reintentable, distinto de "sin perfil".
func TestAuthMiddleware_PerfilNoDisponible_Retorna503(t *testing.T) {
	app := buildTestApp(stubResolver{state: identity.ProfileState{Status: identity.StatusUnknown, Err: errors.New("timeout")}}, false)
	resp := doRequest(t, app, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "PROFILE_UNAVAILABLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin_AdminAccede(t *testing.T) {
	app := buildTestApp(present(entity.RoleAdmin, ""), true)
	resp := doRequest(t, app, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a ruta restringida a admin")
}

func TestRequireAdmin_EmpresaBloqueada(t *testing.T) {
	app := buildTestApp(present(entity.RoleEmpresa, testCompanyID), true)
	resp := doRequest(t, app, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN")
}

func TestRequireAdmin_SinSesion_Retorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// JWT
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "x@y.com", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "x@y.com", testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
