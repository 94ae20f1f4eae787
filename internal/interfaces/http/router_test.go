package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mayoreo-api/internal/application/auth"
	"github.com/jhoicas/mayoreo-api/internal/application/cart"
	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/application/order"
	"github.com/jhoicas/mayoreo-api/internal/application/permission"
	"github.com/jhoicas/mayoreo-api/internal/application/report"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	apphttp "github.com/jhoicas/mayoreo-api/internal/interfaces/http"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre memdb
// ──────────────────────────────────────────────────────────────────────────────

type stubTickets struct{}

func (stubTickets) RenderOrderTicket(o *entity.Order, b *entity.Branch) ([]byte, error) {
	return []byte("%PDF-1.4 " + strconv.FormatInt(o.InvoiceNo, 10)), nil
}

type stubReports struct{}

func (stubReports) CashRegisters(ctx context.Context) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	return []entity.CashRegisterSummary{{BranchID: 1, RegisterNo: 1, Total: decimal.NewFromInt(100)}},
		entity.CashTotals{Total: decimal.NewFromInt(100)}, nil
}

func (stubReports) SalesHistory(ctx context.Context, f repository.SalesFilter) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	return nil, entity.CashTotals{}, nil
}

func (stubReports) Withdrawals(ctx context.Context, branchID, registerNo int, from, to time.Time) ([]entity.Withdrawal, error) {
	return []entity.Withdrawal{}, nil
}

type testEnv struct {
	app            *fiber.App
	store          *memdb.Store
	cuaderno       int64
	admin, vendor  int64
	adminPassword  string
	vendorPassword string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memdb.New(2)
	store.AddBranch(entity.Branch{ID: 1, Name: "Centro", WhatsApp: "5215550001", AppVisible: true})
	store.AddBranch(entity.Branch{ID: 2, Name: "Norte"})
	cuaderno := store.AddProduct(entity.Product{
		Code: "100", Description: "CUADERNO", Status: true, Active: true,
		Prices: [3]decimal.Decimal{decimal.NewFromInt(20)},
	})
	store.SetStock(1, "100", 5)
	store.SetStock(2, "100", 0)

	super := store.AddRole(entity.RoleSuperuser)
	vendorRole := store.AddRole("Vendedor")
	for _, slug := range []string{
		apphttp.PermInventoryView, apphttp.PermProductCreate, apphttp.PermProductEdit,
		apphttp.PermReportsView, apphttp.PermOrdersView, apphttp.PermUsersAdmin,
	} {
		store.GrantRole(super, store.AddPermission(slug, true))
	}
	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}
	admin := store.AddUser("admin", hash("admin123"), super)
	vendor := store.AddUser("pedro", hash("pedro123"), vendorRole)

	log := zerolog.Nop()
	perms := permission.NewUseCase(store, store.Users(), store.Permissions(), log)
	inv := inventory.NewUseCase(store, store.Stock(), store.Products(), store)
	deps := apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), store.Customers(), perms, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, log),
		CatalogUC:    catalog.NewUseCase(store, store.Products(), store.Types(), store.Settings(), store.Branches(), store, inv, log),
		CartUC:       cart.NewUseCase(store, store.Cart(), store.Branches(), store),
		OrderUC:      order.NewUseCase(store, store.Cart(), store.Orders(), store.Branches(), store, nil, stubTickets{}, log, order.Options{}),
		PermissionUC: perms,
		ReportUC:     report.NewUseCase(stubReports{}, store),
		JWTSecret:    testJWTSecret,
		ServiceName:  "mayoreo-api-test",
		Logger:       log,
	}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)
	return &testEnv{
		app: app, store: store, cuaderno: cuaderno,
		admin: admin, vendor: vendor,
		adminPassword: "admin123", vendorPassword: "pedro123",
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (e *testEnv) login(t *testing.T, user, password string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/login", fiber.Map{"username": user, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return "Bearer " + body["token"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RutaInexistenteRetorna404JSON(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/api/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["kind"])
}

func TestRouter_CarritoYPedido(t *testing.T) {
	e := newTestEnv(t)
	add := fiber.Map{"ip_add": "10.0.0.9", "p_id": e.cuaderno, "num_suc": 1, "qty": 3, "is_increment": true}

	resp, body := e.do(t, http.MethodPost, "/api/agregar_carrito", add, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.EqualValues(t, 3, body["qty"])

	// 3 + 3 > 5: conflicto de stock con el máximo vendible.
	resp, body = e.do(t, http.MethodPost, "/api/agregar_carrito", add, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "STOCK", body["kind"])
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 5, details["disponible"])

	resp, body = e.do(t, http.MethodGet, "/api/carrito/contar?ip_add=10.0.0.9", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["total"])

	resp, body = e.do(t, http.MethodGet, "/api/carrito?ip_add=10.0.0.9", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	resp, body = e.do(t, http.MethodPost, "/api/finalizar_pedido", fiber.Map{"ip_add": "10.0.0.9", "customer_id": 1, "num_suc": 1}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "5215550001", body["whatsapp_phone"])
	assert.NotZero(t, body["invoice_no"])

	resp, body = e.do(t, http.MethodGet, "/api/carrito/contar?ip_add=10.0.0.9", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"], "el carrito se vacía al cerrar el pedido")
}

func TestRouter_PedidoConCarritoVacio(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodPost, "/api/finalizar_pedido", fiber.Map{"ip_add": "vacio", "customer_id": 1, "num_suc": 1}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["kind"])
	assert.Equal(t, "EMPTY_CART", body["code"])
}

func TestRouter_CarritoSinIPAddUsaIPDeLaPeticion(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.do(t, http.MethodPost, "/api/agregar_carrito", fiber.Map{"p_id": e.cuaderno, "num_suc": 1, "qty": 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.do(t, http.MethodGet, "/api/carrito/contar", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])

	resp, _ = e.do(t, http.MethodPost, "/api/carrito/vaciar", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = e.do(t, http.MethodGet, "/api/carrito/contar", nil, "")
	assert.EqualValues(t, 0, body["total"])
}

func TestRouter_ProductoInexistente(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/api/producto/999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRouter_InventarioDeTienda(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/api/inventario?num_suc=1&q=cuad", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	resp, body = e.do(t, http.MethodGet, "/api/inventario?num_suc=9", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_BRANCH", body["code"])
}

func TestRouter_ExistenciaPorSucursal(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/api/producto/100/existencia?num_suc=1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "100", body["clave"])
	assert.Equal(t, "5", body["disponible"])

	resp, body = e.do(t, http.MethodGet, "/api/producto/100/existencia?num_suc=9", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_BRANCH", body["code"])

	resp, _ = e.do(t, http.MethodGet, "/api/producto/999/existencia?num_suc=1", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas protegidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginInvalidoRetorna401(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodPost, "/api/login", fiber.Map{"username": "admin", "password": "mala"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH", body["kind"])
}

func TestRouter_PermisosPorRuta(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, http.MethodGet, "/api/admin/inventario", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	vendor := e.login(t, "pedro", e.vendorPassword)
	resp, _ = e.do(t, http.MethodGet, "/api/admin/inventario", nil, vendor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := e.login(t, "admin", e.adminPassword)
	resp, body := e.do(t, http.MethodGet, "/api/admin/inventario", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, catalog.AdminPageSize, body["page_size"])

	// Una excepción de usuario aplica en la siguiente petición sin reemitir el token.
	resp, _ = e.do(t, http.MethodPut, "/api/usuarios/"+strconv.FormatInt(e.vendor, 10)+"/permisos",
		fiber.Map{"slug": apphttp.PermInventoryView, "valor": 1}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/api/admin/inventario", nil, vendor)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_UltimoSuperusuarioProtegido(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", e.adminPassword)

	resp, body := e.do(t, http.MethodDelete, "/api/usuarios/"+strconv.FormatInt(e.admin, 10), nil, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LAST_SUPERUSER_PROTECTED", body["code"])
}

func TestRouter_AltaDeProductoYTicket(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", e.adminPassword)

	resp, body := e.do(t, http.MethodPost, "/api/abmc/producto/nuevo", fiber.Map{
		"clave": "200", "descripcion": "lápiz", "precios": []string{"5", "0", "0"}, "status": true,
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "LÁPIZ", body["descripcion"])
	for _, branch := range []int{1, 2} {
		_, ok := e.store.StockOf(branch, "200")
		assert.True(t, ok, "producto registrado en sucursal %d", branch)
	}

	resp, body = e.do(t, http.MethodPost, "/api/abmc/producto/nuevo", fiber.Map{"clave": "200", "descripcion": "otro"}, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_CODE", body["code"])

	_, _ = e.do(t, http.MethodPost, "/api/agregar_carrito", fiber.Map{"ip_add": "t", "p_id": e.cuaderno, "num_suc": 1, "qty": 1}, "")
	_, placed := e.do(t, http.MethodPost, "/api/finalizar_pedido", fiber.Map{"ip_add": "t", "customer_id": 1, "num_suc": 1}, "")
	folio := strconv.FormatInt(int64(placed["invoice_no"].(float64)), 10)

	resp, body = e.do(t, http.MethodGet, "/api/pedidos/"+folio, nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["lines"], 1)

	req := httptest.NewRequest(http.MethodGet, "/api/pedidos/"+folio+"/pdf", nil)
	req.Header.Set("Authorization", admin)
	pdfResp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(pdfResp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRouter_Reportes(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "admin", e.adminPassword)

	resp, body := e.do(t, http.MethodGet, "/api/reportes/cajas", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["detalles"], 1)

	resp, body = e.do(t, http.MethodGet, "/api/reportes/historico?rango=dia&fecha=2026-13-40", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["kind"])
}
