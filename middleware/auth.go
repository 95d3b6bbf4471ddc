package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/config"
)

// Token issuer/audience for admin tokens signed by this service
const (
	TokenIssuer   = "choripam-api"
	TokenAudience = "choripam-admin"
)

// AdminClaims contains the admin profile data carried in the token
type AdminClaims struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
}

// Validate satisfies the validator.CustomClaims interface. The restaurant
// claim is the one thing every admin route depends on.
func (c *AdminClaims) Validate(ctx context.Context) error {
	if c.RestaurantID == "" {
		return &AuthError{Code: "MISSING_RESTAURANT", Message: "Token carries no restaurant claim"}
	}
	return nil
}

// EnsureValidToken is a middleware that will check the validity of the
// admin JWT. Tokens are HS256, signed with the shared secret this service
// itself issues them with.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		TokenIssuer,
		[]string{TokenAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &AdminClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		// CheckJWT only calls the inner handler for a valid token; if it
		// never ran, the rejection was already written and the rest of the
		// gin chain must not execute
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false

			// Store the validated claims in Gin context
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set("admin_subject", token.RegisteredClaims.Subject)
			c.Set("validated_claims", token)

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetAdminClaims extracts the admin profile claims from the Gin context
func GetAdminClaims(c *gin.Context) (*AdminClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	adminClaims, ok := claims.CustomClaims.(*AdminClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return adminClaims, nil
}

// GetRestaurantID returns the restaurant the authenticated admin belongs to
func GetRestaurantID(c *gin.Context) (string, error) {
	claims, err := GetAdminClaims(c)
	if err != nil {
		return "", err
	}
	return claims.RestaurantID, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
