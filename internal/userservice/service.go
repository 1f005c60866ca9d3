// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

// Account numbers are 13 digits: the institution prefix plus 9 random digits.
const (
	accountNumberPrefix = "4001"
	accountNumberDigits = 9

	maxAccountNumberAttempts = 5
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error)
	GetByLogin(ctx context.Context, idType, idNumber, password string) (domain.User, error)
	GetByCredentials(ctx context.Context, idType, idNumber, email string) (domain.User, error)
	UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) (domain.User, error)
	UpdatePassword(ctx context.Context, id int64, newPassword string) error
}

// SessionRepo provides access to the current-user snapshot.
type SessionRepo interface {
	Get(ctx context.Context) (domain.User, error)
	Set(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}

// Service facilitates user service layer logic.
type Service struct {
	repo        Repo
	sessionRepo SessionRepo
}

// New returns user service struct to manage user business logic.
func New(ur Repo, sr SessionRepo) *Service {
	return &Service{
		repo:        ur,
		sessionRepo: sr,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		ID:            u.ID,
		IDType:        u.IDType,
		IDNumber:      u.IDNumber,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Gender:        u.Gender,
		Phone:         u.Phone,
		Email:         u.Email,
		Address:       u.Address,
		City:          u.City,
		AccountNumber: u.AccountNumber,
		Balance:       u.Balance,
		CreatedAt:     u.CreatedAt,
	}
}

// generateAccountNumber draws account numbers until one is free. The
// existence check closes the collision window the random draw alone leaves
// open.
func (s *Service) generateAccountNumber(ctx context.Context) (string, error) {
	l := zerolog.Ctx(ctx)

	for i := 0; i < maxAccountNumberAttempts; i++ {
		number := accountNumberPrefix + randompkg.Digits(accountNumberDigits)

		_, err := s.repo.GetByAccountNumber(ctx, number)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return number, nil
		}

		if err != nil {
			return "", err
		}
	}

	l.Error().Msg("account number generation exhausted attempts")

	return "", errorspkg.ErrInternal
}

// Create registers a new user with a zero balance, a fresh account number
// and a creation-time surrogate id, and returns the created record.
func (s *Service) Create(ctx context.Context, arg domain.CreateUserParams) (domain.UserWithoutPassword, error) {
	accountNumber, err := s.generateAccountNumber(ctx)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	now := time.Now().UTC()

	user := domain.User{
		ID:            now.UnixNano(),
		IDType:        arg.IDType,
		IDNumber:      arg.IDNumber,
		FirstName:     arg.FirstName,
		LastName:      arg.LastName,
		Gender:        arg.Gender,
		Phone:         arg.Phone,
		Email:         arg.Email,
		Address:       arg.Address,
		City:          arg.City,
		Password:      arg.Password,
		AccountNumber: accountNumber,
		Balance:       decimal.Zero,
		CreatedAt:     now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(created), nil
}

// Authenticate matches the credentials exactly against the registered users
// and, on success, overwrites the session snapshot with the matched user.
func (s *Service) Authenticate(ctx context.Context, idType, idNumber, password string) (domain.User, error) {
	user, err := s.repo.GetByLogin(ctx, idType, idNumber, password)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.sessionRepo.Set(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Logout clears the session snapshot.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessionRepo.Clear(ctx)
}

// Get returns the user with the given surrogate id.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

// GetByAccountNumber returns the user owning the given account number.
func (s *Service) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error) {
	return s.repo.GetByAccountNumber(ctx, accountNumber)
}

// FindByCredentials verifies the recovery identity fields and returns the
// matched user.
func (s *Service) FindByCredentials(ctx context.Context, idType, idNumber, email string) (domain.UserWithoutPassword, error) {
	user, err := s.repo.GetByCredentials(ctx, idType, idNumber, email)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(user), nil
}

// UpdatePassword overwrites the password for the given user.
func (s *Service) UpdatePassword(ctx context.Context, id int64, newPassword string) error {
	return s.repo.UpdatePassword(ctx, id, newPassword)
}

// UpdateBalance overwrites the stored balance for the given user. When the
// session snapshot holds the same user it is rewritten too, so both views
// stay consistent. Callers validate amounts; no bounds are checked here.
func (s *Service) UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) (domain.User, error) {
	updated, err := s.repo.UpdateBalance(ctx, id, newBalance)
	if err != nil {
		return domain.User{}, err
	}

	current, err := s.sessionRepo.Get(ctx)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return updated, nil
	}

	if err != nil {
		return domain.User{}, err
	}

	if current.ID == id {
		if err := s.sessionRepo.Set(ctx, updated); err != nil {
			return domain.User{}, err
		}
	}

	return updated, nil
}
