package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/reimbursement-tracker/internal"
)

// Role is the closed set of principal classifications.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal is the authenticated identity attached to a request. It is passed
// explicitly into every core operation; nothing reads it from globals.
type Principal struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Principal) IsEmployee() bool {
	return p != nil && p.Role == RoleEmployee
}

// RequireAdmin gates admin-only operations.
func RequireAdmin(p *Principal) error {
	if !p.IsAdmin() {
		return internal.ErrAdminOnly
	}
	return nil
}

// RequireEmployee gates operations reserved for employee principals.
func RequireEmployee(p *Principal) error {
	if !p.IsEmployee() {
		return internal.ErrEmployeeOnly
	}
	return nil
}

// RequireOwner allows admins through and otherwise demands that the
// principal's linked employee matches the record's owner.
func RequireOwner(p *Principal, employeeID int64) error {
	if p.IsAdmin() {
		return nil
	}
	if p == nil || p.EmployeeID == nil || *p.EmployeeID != employeeID {
		return internal.ErrNotOwner
	}
	return nil
}

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateOneTimeCredential produces the random password handed to an admin
// when a user is provisioned for an employee. 16 bytes of entropy, hex-rendered.
func GenerateOneTimeCredential() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
