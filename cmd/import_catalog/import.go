package main

import (
	"context"
	"errors"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/rs/zerolog"
)

type productCreator interface {
	CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductDTO, error)
}

type importResult struct {
	created, duplicates, failed int
}

// importAll da de alta cada fila; una clave ya registrada se cuenta y se omite.
// Un error de infraestructura detiene la importación.
func importAll(ctx context.Context, uc productCreator, rows []dto.CreateProductRequest, log zerolog.Logger) importResult {
	var res importResult
	for _, row := range rows {
		_, err := uc.CreateProduct(ctx, row)
		switch {
		case err == nil:
			res.created++
		case errors.Is(err, domain.ErrDuplicateCode):
			res.duplicates++
			log.Debug().Str("clave", row.Code).Msg("clave existente, omitida")
		case domain.KindOf(err) == domain.KindValidation:
			res.failed++
			log.Warn().Str("clave", row.Code).Err(err).Msg("producto rechazado")
		default:
			res.failed++
			log.Error().Str("clave", row.Code).Err(err).Msg("importación interrumpida")
			return res
		}
	}
	return res
}
