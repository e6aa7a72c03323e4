package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/sqlite/sqlitetest"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre SQLite temporal
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@lomasanta.com"
	adminPassword = "123456"
	masterCode    = "LOMA2024"
)

type server struct {
	app   *fiber.App
	users *usecase.UserUseCase
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := sqlitetest.OpenStore(t)
	read := store.ReadRepos()
	reg := prometheus.NewRegistry()
	m := metrics.NewInventory(reg)

	authUC := auth.NewAuthUseCase(store, read, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil, m)
	userUC := usecase.NewUserUseCase(store, read, masterCode, nil)
	_, err := userUC.EnsurePrimaryAdmin(context.Background(), usecase.PrimaryAdmin{Name: "Administrador", Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		LedgerUC:    inventory.NewLedgerUseCase(store, read, nil, m),
		ProductUC:   usecase.NewProductUseCase(store, read, pdf.NewStockReportGenerator(""), nil, m),
		UserUC:      userUC,
		WarehouseUC: usecase.NewWarehouseUseCase(read.Warehouses),
		JWTSecret:   testJWTSecret,
		Metrics:     reg,
	})
	return &server{app: app, users: userUC}
}

// call envía body como JSON (si no es nil) y devuelve status y cuerpo.
func (s *server) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *server) login(t *testing.T, email, password string) dto.LoginResponse {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func (s *server) createProduct(t *testing.T, token, code string) string {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/products", token, map[string]any{
		"code": code, "name": "Silla " + code, "warehouse_id": 2, "unit_value": "1500.50",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var out dto.CreatedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.ID
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginYRutaProtegida(t *testing.T) {
	s := newServer(t)
	res := s.login(t, adminEmail, adminPassword)
	assert.Equal(t, "Admin", res.User.Role)
	assert.True(t, res.User.IsPrimary)

	status, body := s.call(t, http.MethodGet, "/api/warehouses", res.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var out dto.DataResponse[dto.WarehouseResponse]
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out.Data, 4)
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	s := newServer(t)
	status, body := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: adminEmail, Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, body))

	// email mal formado o campos vacíos fallan igual que una contraseña errada
	for _, in := range []map[string]string{
		{"email": "no-es-email", "password": adminPassword},
		{"email": "no-es-email"},
		{},
	} {
		status, body = s.call(t, http.MethodPost, "/api/auth/login", "", in)
		assert.Equal(t, http.StatusUnauthorized, status, in)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, body))
	}
}

// callRaw envía el cuerpo tal cual, sin serializar.
func (s *server) callRaw(t *testing.T, method, path, contentType, raw string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(raw))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestRouter_VerifySessionCuerpoIlegibleEsInvalida(t *testing.T) {
	s := newServer(t)
	res := s.login(t, adminEmail, adminPassword)

	cases := []struct {
		name, contentType, body string
	}{
		{"id numérico", fiber.MIMEApplicationJSON, `{"user_id":1,"session_token":"` + res.SessionToken + `"}`},
		{"json roto", fiber.MIMEApplicationJSON, `not json`},
		{"cuerpo vacío", fiber.MIMEApplicationJSON, ``},
		{"sin content-type", "", ``},
		{"objeto vacío", fiber.MIMEApplicationJSON, `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.callRaw(t, http.MethodPost, "/api/auth/verify-session", tc.contentType, tc.body)
			require.Equal(t, http.StatusOK, status, string(body))
			var v dto.VerifySessionResponse
			require.NoError(t, json.Unmarshal(body, &v))
			assert.False(t, v.Valid)
		})
	}
}

func TestRouter_NuevoLoginRevocaSesionAnterior(t *testing.T) {
	s := newServer(t)
	first := s.login(t, adminEmail, adminPassword)
	second := s.login(t, adminEmail, adminPassword)

	status, body := s.call(t, http.MethodGet, "/api/products", first.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "SESSION_REVOKED", errorCode(t, body))

	status, _ = s.call(t, http.MethodGet, "/api/products", second.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	var v dto.VerifySessionResponse
	_, body = s.call(t, http.MethodPost, "/api/auth/verify-session", "", dto.VerifySessionRequest{UserID: first.User.ID, SessionToken: first.SessionToken})
	require.NoError(t, json.Unmarshal(body, &v))
	assert.False(t, v.Valid)

	_, body = s.call(t, http.MethodPost, "/api/auth/verify-session", "", dto.VerifySessionRequest{UserID: second.User.ID, SessionToken: second.SessionToken})
	require.NoError(t, json.Unmarshal(body, &v))
	assert.True(t, v.Valid)
}

func TestRouter_Logout(t *testing.T) {
	s := newServer(t)
	res := s.login(t, adminEmail, adminPassword)

	status, _ := s.call(t, http.MethodPost, "/api/auth/logout", res.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := s.call(t, http.MethodGet, "/api/warehouses", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "SESSION_REVOKED", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_MovimientosYStockInsuficiente(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token
	id := s.createProduct(t, tok, "S-1")

	status, body := s.call(t, http.MethodPost, "/api/movements", tok, map[string]any{"product_id": id, "kind": "IN", "amount": 10})
	require.Equal(t, http.StatusCreated, status, string(body))
	var mov dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mov))
	assert.Equal(t, int64(10), mov.BalanceAfter)

	status, body = s.call(t, http.MethodPost, "/api/movements", tok, map[string]any{"product_id": id, "kind": "out", "amount": 15})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	status, body = s.call(t, http.MethodPost, "/api/movements", tok, map[string]any{"product_id": id, "kind": "OUT", "amount": 2.5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_AMOUNT", errorCode(t, body))

	status, body = s.call(t, http.MethodPost, "/api/movements", tok, map[string]any{"product_id": "no-existe", "kind": "IN", "amount": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(t, body))

	status, body = s.call(t, http.MethodGet, "/api/movements", tok, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.DataResponse[dto.MovementResponse]
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "S-1", list.Data[0].ProductCode)

	status, body = s.call(t, http.MethodGet, "/api/products/"+id, tok, nil)
	require.Equal(t, http.StatusOK, status)
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, int64(10), p.Quantity)
	assert.Equal(t, "Marketing", p.WarehouseName)
}

func TestRouter_ProductoDuplicadoYBorrado(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token
	id := s.createProduct(t, tok, "D-1")

	status, body := s.call(t, http.MethodPost, "/api/products", tok, map[string]any{"code": "D-1", "name": "Otra", "warehouse_id": 2})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_PRODUCT", errorCode(t, body))
	assert.Contains(t, string(body), "D-1")

	status, _ = s.call(t, http.MethodPost, "/api/products", tok, map[string]any{"name": "Sin código", "warehouse_id": 2})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.call(t, http.MethodDelete, "/api/products/"+id, tok, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = s.call(t, http.MethodGet, "/api/products/"+id+"/movements", tok, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(t, body))
}

func TestRouter_CargaMasiva(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token

	rows := []map[string]any{
		{"codigo": "B-1", "nombre": "Mesa", "almacen": "Bodega de Eventos", "cantidad": 3},
		{"codigo": "B-1", "nombre": "Mesa", "almacen": "eventos"},
		{"codigo": "B-2", "nombre": "Casco", "almacen": "SEGURIDAD", "valor": "12000"},
	}
	status, body := s.call(t, http.MethodPost, "/api/products/bulk", tok, rows)
	require.Equal(t, http.StatusOK, status, string(body))
	var sum dto.ImportSummary
	require.NoError(t, json.Unmarshal(body, &sum))
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 1, sum.Skipped)
	assert.Contains(t, sum.Message, "3 registros")

	status, _ = s.call(t, http.MethodPost, "/api/products/bulk", tok, []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_ImportarCSV(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "inventario.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Código;Nombre;Almacén;Stock\nC-1;Linterna;Seguridad;4\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum dto.ImportSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	assert.Equal(t, 1, sum.Inserted)

	status, body := s.call(t, http.MethodPost, "/api/products/import-csv", tok, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FILE", errorCode(t, body))
}

func TestRouter_ReporteExistenciasPDF(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token
	s.createProduct(t, tok, "R-1")

	req := httptest.NewRequest(http.MethodGet, "/api/reports/stock", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración de usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_UsuariosSoloAdmin(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, adminEmail, adminPassword).Token

	status, body := s.call(t, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Name: "Marta", Email: "marta@loma.com", Password: "secreta", Role: "Marketing",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.call(t, http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Name: "Otra", Email: "otra@loma.com", Password: "secreta", Role: "Marketing",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ROLE_TAKEN", errorCode(t, body))

	marta := s.login(t, "marta@loma.com", "secreta").Token
	status, body = s.call(t, http.MethodGet, "/api/users", marta, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, _ = s.call(t, http.MethodGet, "/api/access-log", marta, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// El encargado sí opera el inventario.
	status, _ = s.call(t, http.MethodGet, "/api/products", marta, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.call(t, http.MethodGet, "/api/access-log", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var log dto.DataResponse[dto.AccessLogResponse]
	require.NoError(t, json.Unmarshal(body, &log))
	require.Len(t, log.Data, 2)
	assert.Equal(t, "Marta", log.Data[0].UserName)
}

func TestRouter_BorrarUsuario(t *testing.T) {
	s := newServer(t)
	res := s.login(t, adminEmail, adminPassword)

	id, err := s.users.Create(context.Background(), dto.CreateUserRequest{Name: "Luis", Email: "luis@loma.com", Password: "secreta", Role: "Manager"})
	require.NoError(t, err)

	status, body := s.call(t, http.MethodDelete, "/api/users/"+id, res.Token, dto.DeleteUserRequest{AdminCode: "mala"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "WRONG_MASTER_CODE", errorCode(t, body))

	status, body = s.call(t, http.MethodDelete, "/api/users/"+res.User.ID, res.Token, dto.DeleteUserRequest{AdminCode: masterCode})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PRIMARY_ADMIN", errorCode(t, body))

	status, _ = s.call(t, http.MethodDelete, "/api/users/"+id, res.Token, dto.DeleteUserRequest{AdminCode: masterCode})
	require.Equal(t, http.StatusOK, status)

	status, body = s.call(t, http.MethodDelete, "/api/users/"+id, res.Token, dto.DeleteUserRequest{AdminCode: masterCode})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Metricas(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, adminEmail, adminPassword).Token
	id := s.createProduct(t, tok, "M-1")
	status, _ := s.call(t, http.MethodPost, "/api/movements", tok, map[string]any{"product_id": id, "kind": "IN", "amount": 7})
	require.Equal(t, http.StatusCreated, status)

	status, body := s.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	text := string(body)
	assert.True(t, strings.Contains(text, `inventory_movements_total{kind="IN",result="ok"} 1`), text)
	assert.Contains(t, text, "auth_logins_total")
}
