package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skinsight/dermascan/internal/domain"
	"github.com/skinsight/dermascan/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrAccountInactive    = errors.New("account is deactivated")
)

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Save(ctx context.Context, u *domain.User) error
}

type AuthService struct {
	users    UserStore
	jwt      *auth.JWTManager
	auditSvc *AuditService
	log      *zap.Logger
}

func NewAuthService(users UserStore, jwt *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwt:      jwt,
		auditSvc: auditSvc,
		log:      log,
	}
}

// Login verifies credentials and issues a token pair. Failed attempts are
// counted per account; the account locks for lockDuration after
// maxFailedLogins consecutive failures.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Burn a comparable amount of time so missing accounts are not
		// distinguishable from wrong passwords.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(password),
		)
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsLocked() {
		s.log.Warn("login attempt on locked account",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", ip),
		)
		return nil, nil, ErrAccountLocked
	}

	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.FailedLoginCount++
		if user.FailedLoginCount >= maxFailedLogins {
			until := time.Now().Add(lockDuration)
			user.LockedUntil = &until
			user.FailedLoginCount = 0
			s.log.Warn("account locked after repeated failures",
				zap.String("user_id", user.ID.String()),
				zap.String("ip", ip),
			)
		}
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.log.Error("failed to record login failure", zap.Error(saveErr))
		}
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.FailedLoginCount = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		s.log.Error("failed to record successful login", zap.Error(err))
	}

	pair, err := s.jwt.GenerateTokenPair(&domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		UserRole:     string(user.Role),
		Action:       "login",
		ResourceType: "session",
		IPAddress:    ip,
	})

	return pair, user, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// account state is re-checked so deactivation and locks take effect at
// refresh time at the latest.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	pair, err := s.jwt.GenerateTokenPair(&domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	return pair, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile lets a user change their own display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, &ValidationError{Fields: []string{"full_name is required"}}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		UserRole:     string(user.Role),
		Action:       "update",
		ResourceType: "user",
		ResourceID:   user.ID.String(),
	})

	return user, nil
}
