package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/application/auth"
	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// fakeUserRepo almacén de usuarios en memoria.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // por id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func newAuthUC() (*auth.AuthUseCase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpMinutes: 60,
		Issuer:     "despensa-api-test",
	})
	return uc, repo
}

func register(t *testing.T, uc *auth.AuthUseCase, email, password string) *dto.UserResponse {
	t.Helper()
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()
	register(t, uc, "ana@example.com", "secreto-123")

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "otro-secreto",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, _ := newAuthUC()
	user := register(t, uc, "ana@example.com", "secreto-123")

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "secreto-123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Token)
	assert.Equal(t, user.ID, out.User.ID)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthUC()
	register(t, uc, "ana@example.com", "secreto-123")

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "equivocado",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProfile_DevuelveElUsuario(t *testing.T) {
	uc, _ := newAuthUC()
	user := register(t, uc, "ana@example.com", "secreto-123")

	out, err := uc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, out.ID)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, "active", out.Status)
}

func TestGetProfile_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.GetProfile(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
