package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cse_motors/internal/model"
	"cse_motors/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAccounts struct {
	rows    map[int]*model.Account
	nextID  int
	failErr error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: map[int]*model.Account{}, nextID: 1}
}

func (m *memAccounts) Create(_ context.Context, first, last, email, hash string) (*model.Account, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	a := &model.Account{ID: m.nextID, FirstName: first, LastName: last, Email: email, PasswordHash: hash, Type: model.RoleClient}
	m.rows[a.ID] = a
	m.nextID++
	copied := *a
	return &copied, nil
}

func (m *memAccounts) EmailExists(ctx context.Context, email string) (bool, error) {
	a, err := m.FindByEmail(ctx, email)
	return a != nil, err
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range m.rows {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, m.failErr
}

func (m *memAccounts) FindByID(_ context.Context, id int) (*model.Account, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *memAccounts) UpdateInfo(_ context.Context, id int, first, last, email string) (bool, error) {
	if m.failErr != nil {
		return false, m.failErr
	}
	a, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	a.FirstName, a.LastName, a.Email = first, last, email
	return true, nil
}

func (m *memAccounts) UpdatePassword(_ context.Context, id int, hash string) (bool, error) {
	a, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	a.PasswordHash = hash
	return true, nil
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, utils.NewJWTUtil("secret", time.Hour))
	ctx := context.Background()

	created, err := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, created.Type)
	assert.NotEqual(t, "Str0ng!Passw0rd", repo.rows[created.ID].PasswordHash)

	account, token, err := svc.Login(ctx, "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "Str0ng!Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_LoginWithoutSecret(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, utils.NewJWTUtil("", time.Hour))
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)

	account, token, err := svc.Login(ctx, "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)
	assert.NotNil(t, account)
	assert.Empty(t, token)
}

func TestAccountService_RegisterFailures(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "A1!"+strings.Repeat("a", 80))
	assert.ErrorIs(t, err, ErrPasswordHash)

	repo.failErr = errors.New("duplicate key")
	_, err = svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	assert.ErrorIs(t, err, ErrRegistrationFailed)
}

func TestAccountService_UpdateInfoRefreshes(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)

	updated, err := svc.UpdateInfo(ctx, created.ID, "Augusta", "King", "augusta@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "augusta@example.com", updated.Email)

	_, err = svc.UpdateInfo(ctx, 99, "X", "Y", "z@example.com")
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestAccountService_ChangePassword(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	require.NoError(t, err)

	_, err = svc.ChangePassword(ctx, created.ID, "N3w!Passw0rd12")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "ada@example.com", "N3w!Passw0rd12")
	assert.NoError(t, err)

	_, err = svc.ChangePassword(ctx, 42, "N3w!Passw0rd12")
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestAccountService_Get(t *testing.T) {
	svc := NewAccountService(newMemAccounts(), nil)

	_, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_EmailOwnedByOther(t *testing.T) {
	repo := newMemAccounts()
	svc := NewAccountService(repo, nil)
	ctx := context.Background()
	a, _ := svc.Register(ctx, "Ada", "Lovelace", "ada@example.com", "Str0ng!Passw0rd")
	b, _ := svc.Register(ctx, "Bob", "Builder", "bob@example.com", "Str0ng!Passw0rd")

	taken, err := svc.EmailOwnedByOther(ctx, "ada@example.com", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = svc.EmailOwnedByOther(ctx, "ada@example.com", b.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.EmailOwnedByOther(ctx, "new@example.com", b.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
