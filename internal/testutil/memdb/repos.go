package memdb

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository     = ProductRepo{}
	_ repository.ProductTypeRepository = TypeRepo{}
	_ repository.SettingsRepository    = SettingsRepo{}
	_ repository.BranchRepository      = BranchRepo{}
	_ repository.BranchStockRepository = StockRepo{}
	_ repository.CartRepository        = CartRepo{}
	_ repository.OrderRepository       = OrderRepo{}
	_ repository.UserRepository        = UserRepo{}
	_ repository.PermissionRepository  = PermissionRepo{}
	_ repository.CustomerRepository    = CustomerRepo{}
)

func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ─── Productos ──────────────────────────────────────────────────────────────

type ProductRepo struct{ conn }

func (r ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.write("product.Create", func(st *state) error {
		for _, existing := range st.products {
			if existing.Code == p.Code {
				return domain.ErrDuplicateCode
			}
		}
		st.nextProductID++
		p.ID = st.nextProductID
		p.CreatedAt = time.Now()
		st.products[p.ID] = *p
		return nil
	})
}

func (r ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.read(func(st *state) error {
		out = st.productByCode(strings.TrimSpace(code))
		return nil
	})
	return out, err
}

func (st *state) productByCode(code string) *entity.Product {
	for _, p := range st.products {
		if p.Code == code {
			return &p
		}
	}
	return nil
}

func (r ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.write("product.Update", func(st *state) error {
		cur := st.productByCode(p.Code)
		if cur == nil {
			return domain.ErrProductNotFound
		}
		upd := *p
		upd.ID, upd.CreatedAt = cur.ID, cur.CreatedAt
		st.products[cur.ID] = upd
		return nil
	})
}

func (r ProductRepo) NextCode(ctx context.Context) (int64, error) {
	var highest int64
	err := r.read(func(st *state) error {
		for _, p := range st.products {
			if n, err := strconv.ParseInt(p.Code, 10, 64); err == nil && n > highest {
				highest = n
			}
		}
		return nil
	})
	return highest + 1, err
}

func (r ProductRepo) SearchStore(ctx context.Context, branchID int, q string, limit, offset int) ([]repository.StoreInventoryItem, error) {
	var out []repository.StoreInventoryItem
	err := r.read(func(st *state) error {
		rows, ok := st.stock[branchID]
		if !ok {
			return errUnknownPartition(branchID)
		}
		for _, p := range st.products {
			s := rows[p.Code]
			if !p.Status || !s.Sellable.IsPositive() || !matches(q, p.Code, p.Description, p.Type) {
				continue
			}
			out = append(out, repository.StoreInventoryItem{Product: p, Available: s.Sellable.Floor().IntPart()})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product.Description != out[j].Product.Description {
			return out[i].Product.Description < out[j].Product.Description
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	return page(out, limit, offset), err
}

func (r ProductRepo) SearchAdmin(ctx context.Context, q string, limit, offset int) ([]repository.AdminInventoryItem, error) {
	var out []repository.AdminInventoryItem
	err := r.read(func(st *state) error {
		for _, p := range st.products {
			if !matches(q, p.Code, p.Description, p.Barcode, p.SupplierKey) {
				continue
			}
			item := repository.AdminInventoryItem{Product: p, Totals: map[int]int64{}}
			for _, id := range r.db.branches {
				item.Totals[id] = st.stock[id][p.Code].Total(p.PiecesPerBox).Floor().IntPart()
			}
			out = append(out, item)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID > out[j].Product.ID })
	return page(out, limit, offset), err
}

// ─── Tipos y contadores ─────────────────────────────────────────────────────

type TypeRepo struct{ conn }

func (r TypeRepo) List(ctx context.Context) ([]entity.ProductType, error) {
	var out []entity.ProductType
	err := r.read(func(st *state) error {
		for _, t := range st.types {
			out = append(out, t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, err
}

func (r TypeRepo) IncrementConsecutive(ctx context.Context, description string) error {
	return r.write("type.IncrementConsecutive", func(st *state) error {
		if t, ok := st.types[description]; ok {
			t.Consecutive++
			st.types[description] = t
		}
		return nil
	})
}

type SettingsRepo struct{ conn }

func (r SettingsRepo) NextBarcode(ctx context.Context) (string, error) {
	var out string
	err := r.read(func(st *state) error {
		if st.barcode > 0 {
			out = strconv.FormatInt(st.barcode, 10)
		}
		return nil
	})
	return out, err
}

func (r SettingsRepo) IncrementBarcode(ctx context.Context, expected string) error {
	return r.write("settings.IncrementBarcode", func(st *state) error {
		if st.barcode > 0 && strconv.FormatInt(st.barcode, 10) == expected {
			st.barcode++
		}
		return nil
	})
}

// ─── Sucursales y existencias ───────────────────────────────────────────────

type BranchRepo struct{ conn }

func (r BranchRepo) List(ctx context.Context, appOnly bool) ([]entity.Branch, error) {
	var out []entity.Branch
	err := r.read(func(st *state) error {
		for _, b := range st.branches {
			if !appOnly || b.AppVisible {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r BranchRepo) GetByID(ctx context.Context, id int) (*entity.Branch, error) {
	var out *entity.Branch
	err := r.read(func(st *state) error {
		if b, ok := st.branches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

type StockRepo struct{ conn }

func (r StockRepo) Get(ctx context.Context, branchID int, code string) (*entity.BranchStock, error) {
	var out *entity.BranchStock
	err := r.read(func(st *state) error {
		rows, ok := st.stock[branchID]
		if !ok {
			return errUnknownPartition(branchID)
		}
		s, ok := rows[code]
		if !ok {
			s = entity.BranchStock{BranchID: branchID, Code: code, Sellable: decimal.Zero, Cases: decimal.Zero}
		}
		out = &s
		return nil
	})
	return out, err
}

func (r StockRepo) GetForUpdate(ctx context.Context, branchID int, code string) (*entity.BranchStock, error) {
	return r.Get(ctx, branchID, code)
}

func (r StockRepo) SetSellable(ctx context.Context, branchID int, code string, qty decimal.Decimal) error {
	return r.write("stock.SetSellable", func(st *state) error {
		rows, ok := st.stock[branchID]
		if !ok {
			return errUnknownPartition(branchID)
		}
		if s, ok := rows[code]; ok {
			s.Sellable = qty
			rows[code] = s
		}
		return nil
	})
}

func (r StockRepo) Update(ctx context.Context, s *entity.BranchStock) error {
	return r.write("stock.Update", func(st *state) error {
		rows, ok := st.stock[s.BranchID]
		if !ok {
			return errUnknownPartition(s.BranchID)
		}
		rows[s.Code] = *s
		return nil
	})
}

func (r StockRepo) Provision(ctx context.Context, branchID int, code string) error {
	return r.write("stock.Provision", func(st *state) error {
		rows, ok := st.stock[branchID]
		if !ok {
			return errUnknownPartition(branchID)
		}
		if _, exists := rows[code]; !exists {
			rows[code] = entity.BranchStock{BranchID: branchID, Code: code, Sellable: decimal.Zero, Cases: decimal.Zero}
		}
		return nil
	})
}

// ─── Carrito ────────────────────────────────────────────────────────────────

type CartRepo struct{ conn }

// Lock no hace nada: las transacciones de memdb ya están serializadas.
func (r CartRepo) Lock(ctx context.Context, clientID string) error { return nil }

func (st *state) cartLines(clientID string) []entity.CartLine {
	var out []entity.CartLine
	for k, l := range st.cart {
		if k.client == clientID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (r CartRepo) Lines(ctx context.Context, clientID string) ([]entity.CartLine, error) {
	var out []entity.CartLine
	err := r.read(func(st *state) error {
		out = st.cartLines(clientID)
		return nil
	})
	return out, err
}

func (r CartRepo) Items(ctx context.Context, clientID string) ([]entity.CartItemView, error) {
	var out []entity.CartItemView
	err := r.read(func(st *state) error {
		lines := st.cartLines(clientID)
		if len(lines) == 0 {
			return nil
		}
		rows, ok := st.stock[lines[0].BranchID]
		if !ok {
			return errUnknownPartition(lines[0].BranchID)
		}
		for _, l := range lines {
			p, ok := st.products[l.ProductID]
			if !ok {
				continue
			}
			out = append(out, entity.CartItemView{
				CartLine:    l,
				Code:        p.Code,
				Description: p.Description,
				Photo:       p.Photo,
				Prices:      p.Prices,
				Minimums:    p.Minimums,
				Available:   rows[p.Code].Sellable,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r CartRepo) Upsert(ctx context.Context, l *entity.CartLine) error {
	return r.write("cart.Upsert", func(st *state) error {
		st.cart[cartKey{l.ClientID, l.ProductID}] = *l
		return nil
	})
}

func (r CartRepo) Remove(ctx context.Context, clientID string, productID int64) error {
	return r.write("cart.Remove", func(st *state) error {
		delete(st.cart, cartKey{clientID, productID})
		return nil
	})
}

func (r CartRepo) Clear(ctx context.Context, clientID string) error {
	return r.write("cart.Clear", func(st *state) error {
		for k := range st.cart {
			if k.client == clientID {
				delete(st.cart, k)
			}
		}
		return nil
	})
}

func (r CartRepo) Count(ctx context.Context, clientID string) (int64, error) {
	var total int64
	err := r.read(func(st *state) error {
		for _, l := range st.cartLines(clientID) {
			total += l.Quantity
		}
		return nil
	})
	return total, err
}

// ─── Pedidos ────────────────────────────────────────────────────────────────

type OrderRepo struct{ conn }

func (r OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.write("order.Create", func(st *state) error {
		if _, dup := st.orders[o.InvoiceNo]; dup {
			return domain.ErrConflict.WithMessage("folio de pedido repetido, intente de nuevo")
		}
		h := *o
		h.Lines = nil
		st.orders[o.InvoiceNo] = h
		return nil
	})
}

func (r OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	return r.write("order.CreateLine", func(st *state) error {
		o, ok := st.orders[l.InvoiceNo]
		if !ok {
			return domain.ErrOrderNotFound
		}
		line := *l
		if p, ok := st.products[l.ProductID]; ok {
			line.Code, line.Description = p.Code, p.Description
		}
		o.Lines = append(o.Lines, line)
		st.orders[l.InvoiceNo] = o
		return nil
	})
}

func (r OrderRepo) GetByInvoice(ctx context.Context, invoiceNo int64) (*entity.Order, error) {
	var out *entity.Order
	err := r.read(func(st *state) error {
		if o, ok := st.orders[invoiceNo]; ok {
			o.Lines = append([]entity.OrderLine(nil), o.Lines...)
			sort.Slice(o.Lines, func(i, j int) bool { return o.Lines[i].Code < o.Lines[j].Code })
			out = &o
		}
		return nil
	})
	return out, err
}

// ─── Usuarios y permisos ────────────────────────────────────────────────────

type UserRepo struct{ conn }

func (st *state) withRole(u entity.User) *entity.User {
	u.RoleName = st.roles[u.RoleID].Name
	return &u
}

func (r UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.write("user.Create", func(st *state) error {
		for _, existing := range st.users {
			if existing.Name == u.Name {
				return domain.ErrUsernameAlreadyExists
			}
		}
		st.nextID++
		u.ID = st.nextID
		u.CreatedAt = time.Now()
		st.users[u.ID] = *u
		return nil
	})
}

func (r UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = st.withRole(u)
		}
		return nil
	})
	return out, err
}

func (r UserRepo) GetByName(ctx context.Context, name string) (*entity.User, error) {
	var out *entity.User
	err := r.read(func(st *state) error {
		for _, u := range st.users {
			if strings.TrimSpace(u.Name) == strings.TrimSpace(name) {
				out = st.withRole(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r UserRepo) List(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	err := r.read(func(st *state) error {
		for _, u := range st.users {
			out = append(out, *st.withRole(u))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r UserRepo) UpdateRole(ctx context.Context, userID, roleID int64) error {
	return r.write("user.UpdateRole", func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.RoleID = roleID
		st.users[userID] = u
		return nil
	})
}

func (r UserRepo) Delete(ctx context.Context, id int64) error {
	return r.write("user.Delete", func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		delete(st.overrides, id)
		return nil
	})
}

func (r UserRepo) LockByRole(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.read(func(st *state) error {
		for id, u := range st.users {
			if u.RoleID == roleID {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

type PermissionRepo struct{ conn }

func (r PermissionRepo) GetRole(ctx context.Context, id int64) (*entity.Role, error) {
	var out *entity.Role
	err := r.read(func(st *state) error {
		if role, ok := st.roles[id]; ok {
			out = &role
		}
		return nil
	})
	return out, err
}

func (r PermissionRepo) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	var out *entity.Role
	err := r.read(func(st *state) error {
		for _, role := range st.roles {
			if role.Name == name {
				out = &role
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r PermissionRepo) ListRoles(ctx context.Context) ([]entity.Role, error) {
	var out []entity.Role
	err := r.read(func(st *state) error {
		for _, role := range st.roles {
			out = append(out, role)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r PermissionRepo) GetPermission(ctx context.Context, slug string) (*entity.Permission, error) {
	var out *entity.Permission
	err := r.read(func(st *state) error {
		for _, p := range st.perms {
			if p.Slug == slug {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r PermissionRepo) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	var out []entity.Permission
	err := r.read(func(st *state) error {
		for _, p := range st.perms {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, err
}

func (r PermissionRepo) RoleGrants(ctx context.Context, roleID int64) ([]string, error) {
	var out []string
	err := r.read(func(st *state) error {
		for permID := range st.rolePerms[roleID] {
			if p, ok := st.perms[permID]; ok && p.Active {
				out = append(out, p.Slug)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r PermissionRepo) GrantRole(ctx context.Context, roleID, permissionID int64) error {
	return r.write("permission.GrantRole", func(st *state) error {
		if st.rolePerms[roleID] == nil {
			st.rolePerms[roleID] = map[int64]bool{}
		}
		st.rolePerms[roleID][permissionID] = true
		return nil
	})
}

func (r PermissionRepo) RevokeRole(ctx context.Context, roleID, permissionID int64) error {
	return r.write("permission.RevokeRole", func(st *state) error {
		delete(st.rolePerms[roleID], permissionID)
		return nil
	})
}

func (r PermissionRepo) UserOverrides(ctx context.Context, userID int64) ([]entity.PermissionOverride, error) {
	var out []entity.PermissionOverride
	err := r.read(func(st *state) error {
		for permID, v := range st.overrides[userID] {
			if p, ok := st.perms[permID]; ok && p.Active {
				out = append(out, entity.PermissionOverride{UserID: userID, Slug: p.Slug, Value: v})
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, err
}

func (r PermissionRepo) SetOverride(ctx context.Context, userID, permissionID int64, value int) error {
	return r.write("permission.SetOverride", func(st *state) error {
		if st.overrides[userID] == nil {
			st.overrides[userID] = map[int64]int{}
		}
		st.overrides[userID][permissionID] = value
		return nil
	})
}

func (r PermissionRepo) ClearOverride(ctx context.Context, userID, permissionID int64) error {
	return r.write("permission.ClearOverride", func(st *state) error {
		delete(st.overrides[userID], permissionID)
		return nil
	})
}

// ─── Clientes ───────────────────────────────────────────────────────────────

type CustomerRepo struct{ conn }

func (r CustomerRepo) Create(ctx context.Context, c *entity.Customer) (int64, error) {
	err := r.write("customer.Create", func(st *state) error {
		for _, existing := range st.customers {
			if existing.Phone == c.Phone {
				return domain.ErrPhoneAlreadyExists
			}
		}
		st.nextID++
		c.ID = st.nextID
		st.customers[c.ID] = *c
		return nil
	})
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.read(func(st *state) error {
		for _, c := range st.customers {
			if c.Phone == phone {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}
