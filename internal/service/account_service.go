package service

import (
	"context"
	"errors"
	"fmt"

	"cse_motors/internal/logger"
	"cse_motors/internal/model"
	"cse_motors/internal/repository"
	"cse_motors/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("please check your credentials and try again")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrPasswordHash       = errors.New("failed to hash password")
)

// AccountService provides registration, login and self-service updates
type AccountService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*model.Account, string, error)
	Get(ctx context.Context, id int) (*model.Account, error)
	UpdateInfo(ctx context.Context, id int, firstName, lastName, email string) (*model.Account, error)
	ChangePassword(ctx context.Context, id int, password string) (*model.Account, error)
	IssueToken(p model.Principal) (string, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailOwnedByOther(ctx context.Context, email string, accountID int) (bool, error)
}

type accountService struct {
	repo    repository.AccountRepository
	jwtUtil *utils.JWTUtil
}

// NewAccountService creates a new AccountService
func NewAccountService(repo repository.AccountRepository, jwtUtil *utils.JWTUtil) AccountService {
	return &accountService{repo: repo, jwtUtil: jwtUtil}
}

// Register hashes the password and stores a new Client account
func (s *accountService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.Account, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHash, err)
	}

	account, err := s.repo.Create(ctx, firstName, lastName, email, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}
	if account == nil {
		return nil, ErrRegistrationFailed
	}
	return account, nil
}

// Login checks the credentials and returns the account with a signed token.
// The token is empty when no JWT secret is configured.
func (s *accountService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil || !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(account.Principal())
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// IssueToken signs a token for p, or returns "" when tokens are disabled
func (s *accountService) IssueToken(p model.Principal) (string, error) {
	if s.jwtUtil == nil || !s.jwtUtil.Configured() {
		logger.Get().Warn().Int("account_id", p.ID).Msg("JWT secret not configured, issuing session only")
		return "", nil
	}
	token, err := s.jwtUtil.GenerateToken(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Get loads the current row of an account
func (s *accountService) Get(ctx context.Context, id int) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// UpdateInfo changes names and email and returns the refreshed row
func (s *accountService) UpdateInfo(ctx context.Context, id int, firstName, lastName, email string) (*model.Account, error) {
	ok, err := s.repo.UpdateInfo(ctx, id, firstName, lastName, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if !ok {
		return nil, ErrUpdateFailed
	}
	return s.refresh(ctx, id)
}

// ChangePassword stores a new hash and returns the refreshed row
func (s *accountService) ChangePassword(ctx context.Context, id int, password string) (*model.Account, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHash, err)
	}
	ok, err := s.repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if !ok {
		return nil, ErrUpdateFailed
	}
	return s.refresh(ctx, id)
}

func (s *accountService) refresh(ctx context.Context, id int) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload account %d: %w", id, err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *accountService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

// EmailOwnedByOther reports whether email belongs to an account other than accountID
func (s *accountService) EmailOwnedByOther(ctx context.Context, email string, accountID int) (bool, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return account != nil && account.ID != accountID, nil
}
