package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rochas-api/internal/application/auth"
	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/identity"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/application/usecase"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/rochas-api/internal/interfaces/http"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: testCompanyID, Name: "Marmoraria Alfa", CreatedAt: time.Now()}))
	require.NoError(t, st.Run(ctx, func(tx repository.Registry) error {
		if _, _, err := auth.CreateAccount(ctx, tx, dto.ProvisionUserRequest{Email: "admin@rochas.com", Password: "secreta", Role: entity.RoleAdmin}); err != nil {
			return err
		}
		_, _, err := auth.CreateAccount(ctx, tx, dto.ProvisionUserRequest{
			Email: "dono@alfa.com", Password: "secreta", Role: entity.RoleEmpresa, CompanyID: testCompanyID,
		})
		return err
	}))

	resolver := identity.NewResolver(st.Profiles(), nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(st, st, resolver, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, nil),
		CompanyUC:  usecase.NewCompanyUseCase(st, st, nil),
		VacancyUC:  usecase.NewVacancyUseCase(st, nil),
		RockUC:     inventory.NewRockUseCase(st, st, nil, nil, time.Second),
		MovementUC: inventory.NewMovementUseCase(st, st, nil, time.Second),
		StockUC:    inventory.NewStockQueryUseCase(st, nil),
		Reconciler: inventory.NewReconciler(st, st, nil),
		Resolver:   resolver,
		JWTSecret:  testJWTSecret,
	})
	return &testServer{app: app, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secreta"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

func TestFlujoEntradaSalida(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	resp := s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{
		"name": "Branco Itaúnas", "type": "Granito", "finish": "Polido", "initial_quantity": 12.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg dto.RegisterRockResponse
	decode(t, resp, &reg)
	assert.True(t, reg.Created)
	assert.Equal(t, testCompanyID, reg.Rock.CompanyID)
	assert.Equal(t, "branco itaúnas", reg.Rock.Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(reg.Balance))
	rockPath := "/api/rocks/" + reg.Rock.ID + "/movements"

	resp = s.do(t, http.MethodPost, rockPath, token, map[string]interface{}{"kind": "saida", "quantity": "20"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_BALANCE", errorCode(t, resp))

	resp = s.do(t, http.MethodPost, rockPath, token, map[string]interface{}{"kind": "saida", "quantity": "12.5"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov dto.RecordMovementResponse
	decode(t, resp, &mov)
	assert.True(t, mov.Balance.IsZero())

	resp = s.do(t, http.MethodGet, rockPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []dto.MovementResponse
	decode(t, resp, &history)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementSaida, history[0].Kind)

	resp = s.do(t, http.MethodGet, "/api/stock", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.StockItemResponse
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Marmoraria Alfa", items[0].CompanyName)
}

func TestCantidadNoNumerica_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	resp := s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{"name": "Preto São Gabriel"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg dto.RegisterRockResponse
	decode(t, resp, &reg)

	resp = s.do(t, http.MethodPost, "/api/rocks/"+reg.Rock.ID+"/movements", token, map[string]interface{}{"kind": "entrada", "quantity": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, resp))
}

func TestDuplicadoYReutilizacion(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	resp := s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{"name": "Verde Ubatuba", "initial_quantity": "3"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first dto.RegisterRockResponse
	decode(t, resp, &first)

	resp = s.do(t, http.MethodGet, "/api/rocks/duplicates?name=%20VERDE%20ubatuba%20", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dup dto.DuplicateCheckResponse
	decode(t, resp, &dup)
	assert.True(t, dup.Exists)
	require.Len(t, dup.Matches, 1)

	resp = s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{"name": "verde ubatuba", "initial_quantity": "2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_ITEM", errorCode(t, resp))

	resp = s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{
		"name": "verde ubatuba", "initial_quantity": "2", "use_existing_id": first.Rock.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again dto.RegisterRockResponse
	decode(t, resp, &again)
	assert.False(t, again.Created)
	assert.True(t, decimal.NewFromInt(5).Equal(again.Balance))
}

func TestRegistroMultipart(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Travertino"))
	require.NoError(t, w.WriteField("initial_quantity", "1,5"))
	fw, err := w.CreateFormFile("photo", "travertino.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/rocks", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reg dto.RegisterRockResponse
	decode(t, resp, &reg)
	assert.True(t, decimal.RequireFromString("1.5").Equal(reg.Balance))
	assert.Empty(t, reg.Rock.PhotoURL)
	assert.NotEmpty(t, reg.Warnings, "sin almacenamiento de fotos el alta sigue pero avisa")
}

func TestPerfilNoDisponible_Retorna503(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	s.store.InjectFault(memory.FaultProfileGet, errors.New("conexión perdida"))
	resp := s.do(t, http.MethodGet, "/api/stock", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "PROFILE_UNAVAILABLE", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/api/stock", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el siguiente intento resuelve el perfil")
	resp.Body.Close()
}

func TestUsuarioSinPerfil_LoginRetorna403(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.store.Users().Create(context.Background(), &entity.User{
		ID: "sem-perfil", Email: "solto@alfa.com", PasswordHash: string(hash), Status: "active", CreatedAt: time.Now(),
	}))

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "solto@alfa.com", Password: "secreta"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_PROVISIONED", errorCode(t, resp))
}

func TestRutasAdmin(t *testing.T) {
	s := newTestServer(t)
	empresa := s.login(t, "dono@alfa.com")
	admin := s.login(t, "admin@rochas.com")

	resp := s.do(t, http.MethodPost, "/api/companies", empresa, dto.CreateCompanyRequest{Name: "Pedras Beta"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/companies", admin, dto.CreateCompanyRequest{
		Name: "Pedras Beta", OwnerEmail: "dono@beta.com", OwnerPassword: "secreta",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var company dto.CompanyResponse
	decode(t, resp, &company)
	require.NotNil(t, company.Owner)

	beta := s.login(t, "dono@beta.com")
	resp = s.do(t, http.MethodGet, "/api/companies/"+testCompanyID, beta, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/admin/reconcile?repair=true", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec dto.ReconcileResponse
	decode(t, resp, &rec)
	assert.Empty(t, rec.Drifts)
}

func TestRutasPublicas(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dono@alfa.com")

	resp := s.do(t, http.MethodPost, "/api/vacancies", token, dto.CreateVacancyRequest{
		Title: "Polidor", Description: "Experiência com granito", ContactEmail: "rh@alfa.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/rocks", token, map[string]interface{}{"name": "Marrom Imperial", "type": "granito"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/vacancies", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vacancies []dto.VacancyResponse
	decode(t, resp, &vacancies)
	require.Len(t, vacancies, 1)
	assert.Equal(t, "Marmoraria Alfa", vacancies[0].CompanyName)

	resp = s.do(t, http.MethodGet, "/api/catalog?q=imperial", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalog []dto.CatalogItemResponse
	decode(t, resp, &catalog)
	assert.Len(t, catalog, 1)

	resp = s.do(t, http.MethodGet, "/api/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
