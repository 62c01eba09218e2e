package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
)

// timestamp matches the repo layer's canonical created_at/updated_at format.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type AuthService struct {
	Users *repos.UserRepo
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
	// Seller-only
	StoreName    string
	BusinessType string
}

// Register creates the account with its role variant fixed up front. Buyers
// never carry store metadata, even when the form sends it. Admins are seeded,
// not registered.
func (s *AuthService) Register(in RegisterInput) (*domain.User, error) {
	if !in.Role.Valid() || in.Role == domain.RoleAdmin {
		return nil, errors.New("role must be buyer or seller")
	}
	if existing, _ := s.Users.ByEmail(in.Email); existing != nil {
		return nil, ErrEmailTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Hash:      string(h),
		Role:      in.Role,
		CreatedAt: timestamp(),
	}
	if in.Role == domain.RoleSeller {
		u.StoreName = strings.TrimSpace(in.StoreName)
		u.BusinessType = strings.TrimSpace(in.BusinessType)
	}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
