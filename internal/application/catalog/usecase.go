package catalog

import (
	"context"
	"strings"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	StorePageSize = 10
	AdminPageSize = 15
)

// UseCase fachada de catálogo (consultas) y administración de productos.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	typeRepo     repository.ProductTypeRepository
	settingsRepo repository.SettingsRepository
	branchRepo   repository.BranchRepository
	branches     repository.BranchDirectory
	stock        *inventory.UseCase
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	typeRepo repository.ProductTypeRepository,
	settingsRepo repository.SettingsRepository,
	branchRepo repository.BranchRepository,
	branches repository.BranchDirectory,
	stock *inventory.UseCase,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		typeRepo:     typeRepo,
		settingsRepo: settingsRepo,
		branchRepo:   branchRepo,
		branches:     branches,
		stock:        stock,
		log:          log,
	}
}

// GetProductByCode devuelve el producto con sus existencias en cada sucursal.
func (uc *UseCase) GetProductByCode(ctx context.Context, code string) (*dto.ProductDetailDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	levels, err := uc.stock.Levels(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailDTO{ProductDTO: toProductDTO(p), Stock: levels}, nil
}

// Availability devuelve cuántas piezas del producto se pueden apartar en la sucursal.
func (uc *UseCase) Availability(ctx context.Context, code string, branchID int) (*dto.AvailabilityDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	available, err := uc.stock.GetAvailable(ctx, branchID, p.Code)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityDTO{Code: p.Code, BranchID: branchID, Available: available}, nil
}

// GetBranchContact devuelve el WhatsApp de la sucursal.
func (uc *UseCase) GetBranchContact(ctx context.Context, branchID int) (*dto.BranchContactDTO, error) {
	if !uc.branches.Contains(branchID) {
		return nil, domain.ErrUnknownBranch
	}
	b, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound.WithMessage("sucursal no encontrada")
	}
	return &dto.BranchContactDTO{BranchID: b.ID, Name: b.Name, WhatsApp: b.WhatsApp}, nil
}

// ListBranches lista sucursales; appOnly filtra las visibles en la app.
func (uc *UseCase) ListBranches(ctx context.Context, appOnly bool) ([]dto.BranchDTO, error) {
	list, err := uc.branchRepo.List(ctx, appOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchDTO, 0, len(list))
	for _, b := range list {
		out = append(out, toBranchDTO(b))
	}
	return out, nil
}

func (uc *UseCase) ListProductTypes(ctx context.Context) ([]dto.ProductTypeDTO, error) {
	types, err := uc.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductTypeDTO, 0, len(types))
	for _, t := range types {
		out = append(out, dto.ProductTypeDTO{Description: t.Description, Letter: t.Letter, Consecutive: t.Consecutive})
	}
	return out, nil
}

// NextCode sugiere la siguiente Clave numérica.
func (uc *UseCase) NextCode(ctx context.Context) (*dto.NextCodeResponse, error) {
	n, err := uc.productRepo.NextCode(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NextCodeResponse{Next: n}, nil
}

// NextBarcode sugiere el siguiente código de barras del contador global.
func (uc *UseCase) NextBarcode(ctx context.Context) (*dto.NextBarcodeResponse, error) {
	cb, err := uc.settingsRepo.NextBarcode(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NextBarcodeResponse{Barcode: cb}, nil
}

// StoreInventory página de productos visibles con existencia en la sucursal.
func (uc *UseCase) StoreInventory(ctx context.Context, query string, page dto.PageRequest, branchID int) (*dto.StoreInventoryResponse, error) {
	if !uc.branches.Contains(branchID) {
		return nil, domain.ErrUnknownBranch
	}
	if page.Page < 0 {
		return nil, domain.ErrInvalidInput.WithMessage("página inválida")
	}
	items, err := uc.productRepo.SearchStore(ctx, branchID, strings.TrimSpace(query), StorePageSize, page.Offset(StorePageSize))
	if err != nil {
		return nil, err
	}
	out := &dto.StoreInventoryResponse{
		PageResponse: dto.PageResponse{Page: page.Page, PageSize: StorePageSize},
		BranchID:     branchID,
		Items:        make([]dto.StoreInventoryItemDTO, 0, len(items)),
	}
	for i := range items {
		out.Items = append(out.Items, dto.StoreInventoryItemDTO{
			ProductDTO: toProductDTO(&items[i].Product),
			Available:  items[i].Available,
		})
	}
	return out, nil
}

// AdminInventory página de catálogo completo con piezas totales por sucursal.
func (uc *UseCase) AdminInventory(ctx context.Context, query string, page dto.PageRequest) (*dto.AdminInventoryResponse, error) {
	if page.Page < 0 {
		return nil, domain.ErrInvalidInput.WithMessage("página inválida")
	}
	items, err := uc.productRepo.SearchAdmin(ctx, strings.TrimSpace(query), AdminPageSize, page.Offset(AdminPageSize))
	if err != nil {
		return nil, err
	}
	out := &dto.AdminInventoryResponse{
		PageResponse: dto.PageResponse{Page: page.Page, PageSize: AdminPageSize},
		Items:        make([]dto.AdminInventoryItemDTO, 0, len(items)),
	}
	for i := range items {
		out.Items = append(out.Items, dto.AdminInventoryItemDTO{
			ProductDTO: toProductDTO(&items[i].Product),
			Totals:     items[i].Totals,
		})
	}
	return out, nil
}

func validateInput(in *dto.ProductInput) error {
	if strings.TrimSpace(in.Description) == "" {
		return domain.ErrInvalidInput.WithMessage("la descripción es obligatoria")
	}
	if in.Cost.IsNegative() || in.PiecesPerBox.IsNegative() {
		return domain.ErrInvalidInput.WithMessage("costo y piezas por caja no pueden ser negativos")
	}
	for i := range in.Prices {
		if in.Prices[i].IsNegative() || in.Minimums[i].IsNegative() {
			return domain.ErrInvalidInput.WithMessage("precios y mínimos no pueden ser negativos")
		}
	}
	return nil
}

// apply copia los campos editables y recalcula utilidades.
func apply(p *entity.Product, in *dto.ProductInput) {
	p.Description = cases.Upper(language.Spanish).String(strings.TrimSpace(in.Description))
	p.Barcode = strings.TrimSpace(in.Barcode)
	p.SupplierKey = strings.TrimSpace(in.SupplierKey)
	p.Type = strings.TrimSpace(in.Type)
	p.Cost = in.Cost
	p.PiecesPerBox = in.PiecesPerBox
	p.Prices = in.Prices
	p.Minimums = in.Minimums
	p.Photo = strings.TrimSpace(in.Photo)
	p.Status = in.Status
	p.Active = in.Active
	for i := range p.Prices {
		p.Utilities[i], p.UtilityPcts[i] = entity.Profit(p.Prices[i], p.Cost)
	}
}

// CreateProduct da de alta un producto y su registro de existencias (en cero, inactivo)
// en todas las sucursales, en una sola transacción.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductDTO, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.ErrInvalidInput.WithMessage("la clave es obligatoria")
	}
	if err := validateInput(&in.ProductInput); err != nil {
		return nil, err
	}
	existing, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	p := &entity.Product{Code: code}
	apply(p, &in.ProductInput)
	err = uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.BranchStockRepository,
		typeRepo repository.ProductTypeRepository,
		settingsRepo repository.SettingsRepository,
	) error {
		suggested, err := settingsRepo.NextBarcode(ctx)
		if err != nil {
			return err
		}
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
		for _, id := range uc.branches.IDs() {
			if err := stockRepo.Provision(ctx, id, p.Code); err != nil {
				return err
			}
		}
		if p.Type != "" {
			if err := typeRepo.IncrementConsecutive(ctx, p.Type); err != nil {
				return err
			}
		}
		if p.Barcode != "" && p.Barcode == suggested {
			return settingsRepo.IncrementBarcode(ctx, suggested)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("code", p.Code).Int64("product_id", p.ID).Msg("producto creado")
	out := toProductDTO(p)
	return &out, nil
}

// UpdateProduct modifica el producto y, para cada sucursal indicada, sus existencias
// con la fila bloqueada. Todo o nada.
func (uc *UseCase) UpdateProduct(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductDetailDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateInput(&in.ProductInput); err != nil {
		return nil, err
	}
	for _, s := range in.Stock {
		if !uc.branches.Contains(s.BranchID) {
			return nil, domain.ErrUnknownBranch
		}
		if s.Sellable.IsNegative() || s.Cases.IsNegative() {
			return nil, domain.ErrInvalidInput.WithMessage("las existencias no pueden ser negativas")
		}
	}

	err := uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.BranchStockRepository,
		_ repository.ProductTypeRepository,
		_ repository.SettingsRepository,
	) error {
		p, err := productRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		apply(p, &in.ProductInput)
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		for _, s := range in.Stock {
			row, err := stockRepo.GetForUpdate(ctx, s.BranchID, p.Code)
			if err != nil {
				return err
			}
			row.Sellable = s.Sellable
			row.Cases = s.Cases
			row.Active = s.Active
			if err := stockRepo.Update(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("code", code).Int("branches", len(in.Stock)).Msg("producto actualizado")
	return uc.GetProductByCode(ctx, code)
}
