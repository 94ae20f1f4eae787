// Package memdb es un almacén en memoria con transacciones (snapshot + commit/rollback)
// que implementa los puertos de repository y los TxRunner de la capa de aplicación.
// Las transacciones se serializan con un mutex global, lo que equivale a bloquear
// todas las filas que tocan.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type cartKey struct {
	client  string
	product int64
}

type state struct {
	products      map[int64]entity.Product
	nextProductID int64
	types         map[string]entity.ProductType
	barcode       int64

	branches map[int]entity.Branch
	stock    map[int]map[string]entity.BranchStock

	cart   map[cartKey]entity.CartLine
	orders map[int64]entity.Order

	roles     map[int64]entity.Role
	perms     map[int64]entity.Permission
	rolePerms map[int64]map[int64]bool
	users     map[int64]entity.User
	overrides map[int64]map[int64]int
	customers map[int64]entity.Customer
	nextID    int64

	writes int
}

func newState() *state {
	return &state{
		products:  map[int64]entity.Product{},
		types:     map[string]entity.ProductType{},
		branches:  map[int]entity.Branch{},
		stock:     map[int]map[string]entity.BranchStock{},
		cart:      map[cartKey]entity.CartLine{},
		orders:    map[int64]entity.Order{},
		roles:     map[int64]entity.Role{},
		perms:     map[int64]entity.Permission{},
		rolePerms: map[int64]map[int64]bool{},
		users:     map[int64]entity.User{},
		overrides: map[int64]map[int64]int{},
		customers: map[int64]entity.Customer{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.products = cloneMap(s.products)
	c.types = cloneMap(s.types)
	c.branches = cloneMap(s.branches)
	c.stock = make(map[int]map[string]entity.BranchStock, len(s.stock))
	for k, v := range s.stock {
		c.stock[k] = cloneMap(v)
	}
	c.cart = cloneMap(s.cart)
	c.orders = make(map[int64]entity.Order, len(s.orders))
	for k, o := range s.orders {
		o.Lines = append([]entity.OrderLine(nil), o.Lines...)
		c.orders[k] = o
	}
	c.roles = cloneMap(s.roles)
	c.perms = cloneMap(s.perms)
	c.rolePerms = make(map[int64]map[int64]bool, len(s.rolePerms))
	for k, v := range s.rolePerms {
		c.rolePerms[k] = cloneMap(v)
	}
	c.users = cloneMap(s.users)
	c.overrides = make(map[int64]map[int64]int, len(s.overrides))
	for k, v := range s.overrides {
		c.overrides[k] = cloneMap(v)
	}
	c.customers = cloneMap(s.customers)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store almacén en memoria.
type Store struct {
	mu       sync.Mutex
	data     *state
	branches []int
	failures map[string]error
	txCount  int
}

var _ repository.BranchDirectory = (*Store)(nil)

// New crea un almacén con las sucursales 1..branchCount (particiones vacías).
func New(branchCount int) *Store {
	s := &Store{data: newState(), failures: map[string]error{}}
	for id := 1; id <= branchCount; id++ {
		s.branches = append(s.branches, id)
		s.data.stock[id] = map[string]entity.BranchStock{}
	}
	return s
}

// Contains implementa repository.BranchDirectory.
func (s *Store) Contains(branchID int) bool {
	for _, id := range s.branches {
		if id == branchID {
			return true
		}
	}
	return false
}

// IDs implementa repository.BranchDirectory.
func (s *Store) IDs() []int {
	return append([]int(nil), s.branches...)
}

// FailOn hace que la próxima llamada a op (ej. "order.CreateLine") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// conn ata un repositorio al estado confirmado (tx == nil) o a una transacción abierta.
type conn struct {
	db *Store
	tx *state
}

func (c conn) read(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return fn(c.db.data)
}

func (c conn) write(op string, fn func(st *state) error) error {
	return c.read(func(st *state) error {
		if err, ok := c.db.failures[op]; ok {
			delete(c.db.failures, op)
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		st.writes++
		return nil
	})
}

// run abre una transacción: el callback trabaja sobre una copia que solo se publica si no hay error.
func (s *Store) run(fn func(c conn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++
	tx := s.data.clone()
	if err := fn(conn{db: s, tx: tx}); err != nil {
		return err
	}
	s.data = tx
	return nil
}

func (s *Store) pool() conn { return conn{db: s} }

func errUnknownPartition(id int) error {
	return fmt.Errorf("partición de sucursal no configurada: %d", id)
}

// ─── TxRunners ─────────────────────────────────────────────────────────────

// RunStock implementa inventory.TxRunner.
func (s *Store) RunStock(ctx context.Context, fn func(repository.BranchStockRepository) error) error {
	return s.run(func(c conn) error { return fn(StockRepo{c}) })
}

// RunCart implementa cart.TxRunner.
func (s *Store) RunCart(ctx context.Context, fn func(repository.CartRepository, repository.BranchStockRepository, repository.ProductRepository) error) error {
	return s.run(func(c conn) error { return fn(CartRepo{c}, StockRepo{c}, ProductRepo{c}) })
}

// RunCheckout implementa order.TxRunner.
func (s *Store) RunCheckout(ctx context.Context, fn func(repository.CartRepository, repository.BranchStockRepository, repository.OrderRepository) error) error {
	return s.run(func(c conn) error { return fn(CartRepo{c}, StockRepo{c}, OrderRepo{c}) })
}

// RunCatalog implementa catalog.TxRunner.
func (s *Store) RunCatalog(ctx context.Context, fn func(repository.ProductRepository, repository.BranchStockRepository, repository.ProductTypeRepository, repository.SettingsRepository) error) error {
	return s.run(func(c conn) error { return fn(ProductRepo{c}, StockRepo{c}, TypeRepo{c}, SettingsRepo{c}) })
}

// RunUsers implementa permission.TxRunner.
func (s *Store) RunUsers(ctx context.Context, fn func(repository.UserRepository, repository.PermissionRepository) error) error {
	return s.run(func(c conn) error { return fn(UserRepo{c}, PermissionRepo{c}) })
}

// ─── Repositorios fuera de transacción ──────────────────────────────────────

func (s *Store) Products() ProductRepo       { return ProductRepo{s.pool()} }
func (s *Store) Stock() StockRepo            { return StockRepo{s.pool()} }
func (s *Store) Branches() BranchRepo        { return BranchRepo{s.pool()} }
func (s *Store) Cart() CartRepo              { return CartRepo{s.pool()} }
func (s *Store) Orders() OrderRepo           { return OrderRepo{s.pool()} }
func (s *Store) Users() UserRepo             { return UserRepo{s.pool()} }
func (s *Store) Permissions() PermissionRepo { return PermissionRepo{s.pool()} }
func (s *Store) Customers() CustomerRepo     { return CustomerRepo{s.pool()} }
func (s *Store) Types() TypeRepo             { return TypeRepo{s.pool()} }
func (s *Store) Settings() SettingsRepo      { return SettingsRepo{s.pool()} }

// ─── Semillas e inspección para tests ───────────────────────────────────────

// AddBranch registra una sucursal (empresa).
func (s *Store) AddBranch(b entity.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.branches[b.ID] = b
}

// AddProduct inserta un producto sin provisionar existencias y devuelve su ID.
func (s *Store) AddProduct(p entity.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextProductID++
	p.ID = s.data.nextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.data.products[p.ID] = p
	return p.ID
}

// SetStock fija la existencia de piso de venta (y activa la fila).
func (s *Store) SetStock(branchID int, code string, sellable int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.data.stock[branchID][code]
	row.BranchID, row.Code, row.Active = branchID, code, true
	row.Sellable = decimal.NewFromInt(sellable)
	if row.Cases.IsZero() {
		row.Cases = decimal.Zero
	}
	s.data.stock[branchID][code] = row
}

// StockOf devuelve la fila de existencias y si existe.
func (s *Store) StockOf(branchID int, code string) (entity.BranchStock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.stock[branchID][code]
	return row, ok
}

// AddProductType registra un tipo de producto.
func (s *Store) AddProductType(t entity.ProductType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.types[t.Description] = t
}

// ProductType devuelve un tipo por descripción.
func (s *Store) ProductType(description string) entity.ProductType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.types[description]
}

// SetBarcodeCounter fija el contador de códigos de barras.
func (s *Store) SetBarcodeCounter(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.barcode = n
}

// BarcodeCounter devuelve el contador de códigos de barras.
func (s *Store) BarcodeCounter() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.barcode
}

// CartLines devuelve las líneas confirmadas del carrito ordenadas por producto.
func (s *Store) CartLines(clientID string) []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.cartLines(clientID)
}

// AllOrders devuelve los pedidos confirmados ordenados por folio.
func (s *Store) AllOrders() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, 0, len(s.data.orders))
	for _, o := range s.data.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNo < out[j].InvoiceNo })
	return out
}

// Writes cuenta las escrituras confirmadas.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.writes
}

// TxCount cuenta las transacciones iniciadas (confirmadas o no).
func (s *Store) TxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

// AddRole registra un rol y devuelve su ID.
func (s *Store) AddRole(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	s.data.roles[s.data.nextID] = entity.Role{ID: s.data.nextID, Name: name}
	return s.data.nextID
}

// AddPermission registra un permiso y devuelve su ID.
func (s *Store) AddPermission(slug string, active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	s.data.perms[s.data.nextID] = entity.Permission{ID: s.data.nextID, Slug: slug, Description: slug, Active: active}
	return s.data.nextID
}

// GrantRole otorga un permiso a un rol.
func (s *Store) GrantRole(roleID, permissionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.rolePerms[roleID] == nil {
		s.data.rolePerms[roleID] = map[int64]bool{}
	}
	s.data.rolePerms[roleID][permissionID] = true
}

// AddUser registra un usuario activo y devuelve su ID.
func (s *Store) AddUser(name, passwordHash string, roleID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	s.data.users[s.data.nextID] = entity.User{
		ID: s.data.nextID, Name: name, PasswordHash: passwordHash, RoleID: roleID, Active: true, CreatedAt: time.Now(),
	}
	return s.data.nextID
}

// SetUserActive activa o desactiva un usuario.
func (s *Store) SetUserActive(userID int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.data.users[userID]
	u.Active = active
	s.data.users[userID] = u
}

// UserIDs devuelve los IDs de usuarios confirmados en orden.
func (s *Store) UserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id := range s.data.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// User devuelve un usuario confirmado.
func (s *Store) User(id int64) (entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	return u, ok
}
