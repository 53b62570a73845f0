package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/wallet"
)

var (
	ErrNoAccounts   = errors.New("wallet returned no accounts")
	ErrUserNotFound = errors.New("user not found")
)

// ProfilePicker supplies the decorative picture for a new user. It must
// always return a usable URL.
type ProfilePicker interface {
	ProfilePic(ctx context.Context) string
}

// AuthService handles wallet sign-in and session lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	pictures ProfilePicker
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, pictures ProfilePicker) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		pictures: pictures,
		now:      defaultNow,
	}
}

// Connect requests account access from w and signs the first account in.
// A user seen for the first time is created with a profile picture.
func (s *AuthService) Connect(ctx context.Context, w wallet.Wallet) (*Session, error) {
	const op = "auth.connect"

	if w == nil {
		return nil, apierrors.E(op, apierrors.KindWallet, wallet.ErrUnavailable)
	}

	accounts, err := w.RequestAccounts(ctx)
	if err != nil {
		return nil, apierrors.E(op, apierrors.KindWallet, err)
	}

	return s.signIn(ctx, op, accounts)
}

// Probe signs in silently when the wallet already has an authorized
// account. It returns nil, nil when there is nothing to resume.
func (s *AuthService) Probe(ctx context.Context, w wallet.Wallet) (*Session, error) {
	const op = "auth.probe"

	if w == nil {
		return nil, nil
	}

	accounts, err := w.Accounts(ctx)
	if err != nil {
		return nil, apierrors.E(op, apierrors.KindWallet, err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	return s.signIn(ctx, op, accounts)
}

// Resume rebuilds the session for an address that signed in earlier.
func (s *AuthService) Resume(ctx context.Context, address string) (*Session, error) {
	user, err := s.GetUser(ctx, address)
	if err != nil {
		return nil, err
	}

	return &Session{User: *user, ConnectedAt: s.now()}, nil
}

// Disconnect ends the session. Stored users and tasks are kept.
func (s *AuthService) Disconnect(sess *Session) {
	if sess != nil {
		sess.close()
	}
}

// GetUser retrieves a user by wallet address.
func (s *AuthService) GetUser(ctx context.Context, address string) (*models.User, error) {
	const op = "auth.get_user"

	user, err := s.userRepo.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.E(op, apierrors.KindNotFound, ErrUserNotFound)
		}
		return nil, apierrors.E(op, apierrors.KindStorage, err)
	}

	return user, nil
}

func (s *AuthService) signIn(ctx context.Context, op string, accounts []string) (*Session, error) {
	if len(accounts) == 0 {
		return nil, apierrors.E(op, apierrors.KindWallet, ErrNoAccounts)
	}

	address, err := wallet.NormalizeAddress(accounts[0])
	if err != nil {
		return nil, apierrors.E(op, apierrors.KindWallet, err)
	}

	user, err := s.userRepo.FindByAddress(ctx, address)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = &models.User{
			Address:    address,
			ProfilePic: s.pictures.ProfilePic(ctx),
			JoinedAt:   s.now(),
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, apierrors.E(op, apierrors.KindStorage, err)
		}
		zerolog.Ctx(ctx).Info().Str("address", address).Msg("registered new wallet user")
	case err != nil:
		return nil, apierrors.E(op, apierrors.KindStorage, err)
	}

	return &Session{User: *user, ConnectedAt: s.now()}, nil
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
