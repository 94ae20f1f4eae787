package catalog

import (
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

func toProductDTO(p *entity.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:           p.ID,
		Code:         p.Code,
		Description:  p.Description,
		Barcode:      p.Barcode,
		SupplierKey:  p.SupplierKey,
		Type:         p.Type,
		Cost:         p.Cost,
		PiecesPerBox: p.PiecesPerBox,
		Prices:       p.Prices,
		Minimums:     p.Minimums,
		Utilities:    p.Utilities,
		UtilityPcts:  p.UtilityPcts,
		Photo:        p.Photo,
		Status:       p.Status,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}

func toBranchDTO(b entity.Branch) dto.BranchDTO {
	return dto.BranchDTO{ID: b.ID, Name: b.Name, ShippingInfo: b.ShippingInfo, AppVisible: b.AppVisible}
}
