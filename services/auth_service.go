package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"

	"github.com/choripam/choripam-api/config"
	"github.com/choripam/choripam-api/middleware"
)

// ErrInvalidCredentials is returned for a wrong email/password pair
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminUser is the profile stored client-side as admin_user
type AdminUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	RestaurantName string `json:"restaurant_name"`
	RestaurantID   string `json:"restaurant_id"`
}

// AuthService issues the admin_token JWTs the back-office stores locally.
// Admin identity comes from configuration; there is no self-registration.
type AuthService struct {
	cfg    *config.Config
	signer jose.Signer
	now    func() time.Time
}

const adminTokenTTL = 24 * time.Hour

// NewAuthService builds the HS256 signer from the configured secret
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(cfg.JWTSecret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}
	return &AuthService{cfg: cfg, signer: signer, now: time.Now}, nil
}

// Login checks the configured admin credentials and returns a signed token
// plus the admin profile
func (s *AuthService) Login(email, password string) (string, AdminUser, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		return "", AdminUser{}, ErrInvalidCredentials
	}

	admin := AdminUser{
		ID:             s.cfg.DefaultRestaurantID + "-admin",
		Name:           s.cfg.AdminName,
		Email:          s.cfg.AdminEmail,
		RestaurantName: s.cfg.RestaurantName,
		RestaurantID:   s.cfg.DefaultRestaurantID,
	}

	now := s.now()
	claims := jwt.Claims{
		Issuer:   middleware.TokenIssuer,
		Audience: jwt.Audience{middleware.TokenAudience},
		Subject:  admin.ID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(adminTokenTTL)),
	}
	custom := middleware.AdminClaims{
		Name:           admin.Name,
		Email:          admin.Email,
		RestaurantID:   admin.RestaurantID,
		RestaurantName: admin.RestaurantName,
	}

	token, err := jwt.Signed(s.signer).Claims(claims).Claims(custom).CompactSerialize()
	if err != nil {
		return "", AdminUser{}, fmt.Errorf("failed to sign admin token: %w", err)
	}

	return token, admin, nil
}
