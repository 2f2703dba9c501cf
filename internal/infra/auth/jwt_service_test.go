package auth

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testAuthConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: ttl}

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(testAuthConfig(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, entity.RoleSalesManager)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleSalesManager, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testAuthConfig(time.Hour))
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService, err := NewJWTService(testAuthConfig(-time.Minute))
	assert.NoError(t, err)

	token, err := jwtService.GenerateToken(uuid.New(), entity.RoleCustomer)
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	issuer, err := NewJWTService(testAuthConfig(time.Hour))
	assert.NoError(t, err)

	otherCfg := testAuthConfig(time.Hour)
	otherCfg.SecretKey.Access = "a_completely_different_secret_key_for_testing"
	verifier, err := NewJWTService(otherCfg)
	assert.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), entity.RoleCustomer)
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_MissingSecret(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
}
