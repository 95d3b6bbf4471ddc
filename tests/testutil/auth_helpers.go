package testutil

import (
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"

	"github.com/choripam/choripam-api/config"
	"github.com/choripam/choripam-api/middleware"
)

// TestConfig returns a configuration suitable for integration tests. The
// GraphQL endpoint is expected to be swapped for a stub server URL by the
// caller.
func TestConfig() *config.Config {
	return &config.Config{
		Port:                "8080",
		GoEnv:               "test",
		AppURL:              "http://localhost:3000",
		GraphQLEndpoint:     "http://localhost:0/graphql",
		DefaultRestaurantID: "choripam",
		RestaurantName:      "Choripam",
		DatabaseURL:         ":memory:",
		JWTSecret:           "integration-test-secret-key-0123456789",
		AdminEmail:          "admin@choripam.com",
		AdminPassword:       "super-secreto",
		AdminName:           "Admin de Pruebas",
		NotifyInterval:      15 * time.Second,
	}
}

// SignAdminToken issues an HS256 admin token the same way the auth service
// does, for tests that need to call protected routes without going through
// the login endpoint.
func SignAdminToken(t *testing.T, cfg *config.Config, restaurantID string) string {
	t.Helper()

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(cfg.JWTSecret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		t.Fatalf("Failed to create test token signer: %v", err)
	}

	now := time.Now()
	claims := jwt.Claims{
		Issuer:   middleware.TokenIssuer,
		Audience: jwt.Audience{middleware.TokenAudience},
		Subject:  restaurantID + "-admin",
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(time.Hour)),
	}
	custom := middleware.AdminClaims{
		Name:           cfg.AdminName,
		Email:          cfg.AdminEmail,
		RestaurantID:   restaurantID,
		RestaurantName: cfg.RestaurantName,
	}

	token, err := jwt.Signed(signer).Claims(claims).Claims(custom).CompactSerialize()
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

// SetMockAuthContext injects validated admin claims into the Gin context,
// bypassing token validation entirely. Handler-level tests use this; the
// integration suites go through EnsureValidToken with a real token instead.
func SetMockAuthContext(c *gin.Context, restaurantID string) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  middleware.TokenIssuer,
			Subject: restaurantID + "-admin",
		},
		CustomClaims: &middleware.AdminClaims{
			Name:           "Admin de Pruebas",
			Email:          "admin@choripam.com",
			RestaurantID:   restaurantID,
			RestaurantName: "Choripam",
		},
	}
	c.Set("admin_subject", claims.RegisteredClaims.Subject)
	c.Set("validated_claims", claims)
}
