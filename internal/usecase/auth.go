package usecase

import (
	"context"

	"github.com/polkiloo/bloomorders/internal/config"
	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	pkgAuth "github.com/polkiloo/bloomorders/internal/pkg/auth"
)

// StaffSubject is the token subject of the shared staff account.
const StaffSubject = "staff"

// AuthUseCase checks the staff password and manages session tokens.
type AuthUseCase struct {
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{passwordHash: cfg.StaffPasswordHash, hasher: hasher, tokens: strategy}
}

// Enabled reports whether a staff password is configured.
func (u *AuthUseCase) Enabled() bool {
	return u.passwordHash != ""
}

// Login validates the staff password and returns a session token.
func (u *AuthUseCase) Login(_ context.Context, password string) (string, error) {
	if !u.Enabled() {
		return u.tokens.IssueToken(StaffSubject)
	}
	if password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(StaffSubject)
}

// ParseToken returns the subject of a valid session token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
