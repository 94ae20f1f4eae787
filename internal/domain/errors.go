package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Kind clasifica los errores de dominio. El caller ramifica por Kind/Code, nunca por el texto.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindStock      Kind = "STOCK"
	KindConflict   Kind = "CONFLICT"
	KindNotFound   Kind = "NOT_FOUND"
	KindInternal   Kind = "INTERNAL"
	KindAuth       Kind = "AUTH"
)

// StockShortage describe una línea del carrito sin existencia suficiente al cerrar el pedido.
type StockShortage struct {
	ProductID   int64           `json:"product_id"`
	Code        string          `json:"clave"`
	Description string          `json:"descripcion"`
	Available   decimal.Decimal `json:"disponible"`
	Requested   int64           `json:"solicitado"`
}

// Error es el error estructurado de dominio (sin dependencias de infraestructura).
// Dos *Error son equivalentes para errors.Is cuando comparten Code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Available máximo vendible (INSUFFICIENT_STOCK al agregar al carrito).
	Available *int64
	// Shortages líneas deficientes (INSUFFICIENT_STOCK al finalizar pedido).
	Shortages []StockShortage
}

func (e *Error) Error() string { return e.Message }

// Is compara por Code para que errors.Is funcione con copias enriquecidas de un sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage devuelve una copia con otro mensaje, conservando Kind y Code.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// Errores de dominio.
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "recurso no encontrado"}
	ErrUserNotFound    = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "usuario no encontrado"}
	ErrRoleNotFound    = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "rol no encontrado"}
	ErrPermNotFound    = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "permiso no encontrado"}
	ErrProductNotFound = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "producto no encontrado"}
	ErrOrderNotFound   = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "pedido no encontrado"}

	ErrInvalidInput    = &Error{Kind: KindValidation, Code: "INVALID_INPUT", Message: "entrada inválida"}
	ErrEmptyCart       = &Error{Kind: KindValidation, Code: "EMPTY_CART", Message: "el carrito está vacío"}
	ErrBelowMinimum    = &Error{Kind: KindValidation, Code: "BELOW_MINIMUM", Message: "la cantidad mínima permitida es 1 pieza"}
	ErrDifferentBranch = &Error{Kind: KindValidation, Code: "DIFFERENT_BRANCH", Message: "el carrito ya contiene productos de otra sucursal"}
	ErrUnknownBranch   = &Error{Kind: KindValidation, Code: "UNKNOWN_BRANCH", Message: "sucursal desconocida"}

	ErrInsufficientStock = &Error{Kind: KindStock, Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}

	ErrDuplicate              = &Error{Kind: KindConflict, Code: "DUPLICATE", Message: "recurso duplicado"}
	ErrDuplicateCode          = &Error{Kind: KindConflict, Code: "DUPLICATE_CODE", Message: "la clave ya está registrada"}
	ErrPhoneAlreadyExists     = &Error{Kind: KindConflict, Code: "DUPLICATE", Message: "este número de teléfono ya está registrado"}
	ErrUsernameAlreadyExists  = &Error{Kind: KindConflict, Code: "DUPLICATE", Message: "el nombre de usuario ya está registrado"}
	ErrLastSuperuserProtected = &Error{Kind: KindConflict, Code: "LAST_SUPERUSER_PROTECTED", Message: "debe existir al menos un usuario Superusuario"}
	ErrConflict               = &Error{Kind: KindConflict, Code: "CONFLICT", Message: "conflicto con el estado actual"}

	ErrUnauthorized = &Error{Kind: KindAuth, Code: "UNAUTHORIZED", Message: "no autorizado"}
	ErrForbidden    = &Error{Kind: KindAuth, Code: "FORBIDDEN", Message: "acceso denegado"}
)

// InsufficientStock construye el error de stock al agregar al carrito con el máximo vendible.
func InsufficientStock(available int64) *Error {
	e := *ErrInsufficientStock
	e.Available = &available
	return &e
}

// InsufficientStockLines construye el error de stock al cerrar pedido con todas las líneas deficientes.
func InsufficientStockLines(shortages []StockShortage) *Error {
	e := *ErrInsufficientStock
	e.Shortages = shortages
	return &e
}

// AsError extrae el *Error de dominio de una cadena de errores.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf devuelve la categoría del error; cualquier error ajeno al dominio es INTERNAL.
func KindOf(err error) Kind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return KindInternal
}
