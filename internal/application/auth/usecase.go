package auth

import (
	"context"
	"strings"
	"unicode"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/jhoicas/mayoreo-api/pkg/jwt"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PermissionResolver resuelve los permisos efectivos para incluirlos en la respuesta de login.
type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, userID int64) ([]string, error)
}

// AuthUseCase casos de uso de autenticación: login de personal, registro y login de clientes.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	perms        PermissionResolver
	jwtCfg       JWTConfig
	log          zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	perms PermissionResolver,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, customerRepo: customerRepo, perms: perms, jwtCfg: jwtCfg, log: log}
}

// Login verifica usuario/password, genera JWT y retorna token, usuario y permisos efectivos.
// Usuario inexistente y password incorrecto responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	name := strings.TrimSpace(in.Username)
	if name == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput.WithMessage("usuario y contraseña son obligatorios")
	}
	user, err := uc.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized.WithMessage("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Int64("user_id", user.ID).Msg("login rechazado")
		return nil, domain.ErrUnauthorized.WithMessage("credenciales inválidas")
	}
	if !user.Active {
		return nil, domain.ErrForbidden.WithMessage("usuario inactivo")
	}
	perms, err := uc.perms.EffectivePermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.RoleID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("login de usuario")
	return &dto.LoginResponse{
		Success:     true,
		Token:       token,
		User:        toUserDTO(user),
		Permissions: perms,
	}, nil
}

// RegisterCustomer da de alta un cliente de la tienda. El celular es único.
func (uc *AuthUseCase) RegisterCustomer(ctx context.Context, in dto.CustomerRegisterRequest) (*dto.CustomerAuthResponse, error) {
	phone := normalizePhone(in.Phone)
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" || phone == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput.WithMessage("nombre, teléfono y contraseña son obligatorios")
	}
	existing, err := uc.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrPhoneAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c := &entity.Customer{
		ShortKey:     shortKey(phone),
		FullName:     fullName,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Street:       strings.TrimSpace(in.Street),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Phone:        phone,
	}
	if _, err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", c.ID).Msg("cliente registrado")
	return &dto.CustomerAuthResponse{Success: true, Customer: toCustomerDTO(c)}, nil
}

// LoginCustomer valida celular y contraseña del cliente.
func (uc *AuthUseCase) LoginCustomer(ctx context.Context, in dto.CustomerLoginRequest) (*dto.CustomerAuthResponse, error) {
	phone := normalizePhone(in.Phone)
	if phone == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput.WithMessage("teléfono y contraseña son obligatorios")
	}
	c, err := uc.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil || bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized.WithMessage("credenciales inválidas")
	}
	return &dto.CustomerAuthResponse{Success: true, Customer: toCustomerDTO(c)}, nil
}

// normalizePhone conserva solo los dígitos.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// shortKey últimos 5 dígitos del celular.
func shortKey(phone string) string {
	if len(phone) <= 5 {
		return phone
	}
	return phone[len(phone)-5:]
}

func toUserDTO(u *entity.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toCustomerDTO(c *entity.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{ID: c.ID, ShortKey: c.ShortKey, FullName: c.FullName, Email: c.Email, Phone: c.Phone}
}
