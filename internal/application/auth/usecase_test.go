package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mes-api/internal/application/auth"
	"github.com/jhoicas/mes-api/internal/application/dto"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/infrastructure/memory"
	"github.com/jhoicas/mes-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

func newAuthUseCase() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewUserRepository(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 15,
		Issuer:     "mes-api-test",
	})
}

func TestRegisterUser(t *testing.T) {
	uc := newAuthUseCase()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "operario@planta.com",
		Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "operario@planta.com", user.Email)
	assert.Equal(t, "operario@planta.com", user.Name, "sin nombre, el email hace de nombre")
	assert.Equal(t, entity.RoleOperador, user.Role, "rol por defecto")
	assert.Equal(t, "active", user.Status)
}

func TestRegisterUser_EmailRepetido(t *testing.T) {
	uc := newAuthUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@planta.com", Password: "clave-segura"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@planta.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EntradaInvalida(t *testing.T) {
	uc := newAuthUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@planta.com", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_EmiteTokenConClaims(t *testing.T) {
	uc := newAuthUseCase()
	registered, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@planta.com",
		Password: "clave-segura",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "admin@planta.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuthUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@planta.com", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "a@planta.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@planta.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
