package util

import (
	"errors"
	"testing"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "brew-secret"

func requireUnauthorized(t *testing.T, err error, message string) {
	t.Helper()

	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, constant.ERR_UNATHORIZED_ERROR, validationErr.Code)
	assert.Equal(t, message, validationErr.Message)
}

func TestTokenPairRoundTrip(t *testing.T) {
	userId := uuid.New()

	pair, err := GenerateTokenPair(userId, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, 900, pair.AccessTokenExpiresIn)
	assert.NotEmpty(t, pair.RefreshToken)

	tokenString, parsedId, err := ValidateAccessToken(BearerPrefix+pair.AccessToken, zap.NewNop(), testSecret)
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, tokenString)
	assert.Equal(t, userId, parsedId)
}

func TestValidateAccessTokenFailures(t *testing.T) {
	log := zap.NewNop()
	valid, err := GenerateAccessToken(uuid.New(), testSecret)
	require.NoError(t, err)

	expiredClaims := &model.Claims{
		UserId: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    TokenIssuer,
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing", "", "No authentication token is provided"},
		{"no bearer prefix", valid, "Authentication token format is not match"},
		{"empty token", BearerPrefix, "Authentication token is empty"},
		{"malformed", BearerPrefix + "abc.def", "Authentication token is malformed"},
		{"expired", BearerPrefix + expired, "Authentication token is expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateAccessToken(tt.header, log, testSecret)
			requireUnauthorized(t, err, tt.message)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := ValidateAccessToken(BearerPrefix+valid, log, "another-secret")
		requireUnauthorized(t, err, "Authentication token signature is invalid")
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &model.Claims{
			UserId: uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
				Issuer:    "someone-else",
			},
		}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, _, err = ValidateAccessToken(BearerPrefix+foreign, log, testSecret)
		requireUnauthorized(t, err, "Authentication token issuer is invalid")
	})

	t.Run("missing user id", func(t *testing.T) {
		claims := &model.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
				Issuer:    TokenIssuer,
			},
		}
		anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, _, err = ValidateAccessToken(BearerPrefix+anonymous, log, testSecret)
		requireUnauthorized(t, err, "Authentication token is invalid")
	})
}

func TestMissingSecret(t *testing.T) {
	_, err := GenerateAccessToken(uuid.New(), "")
	assert.Error(t, err)

	_, _, err = ValidateAccessToken(BearerPrefix+"x", zap.NewNop(), "")
	assert.Error(t, err)
}

func TestHashTokenAndResetToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.Len(t, HashToken("abc"), 64)

	first, err := GenerateResetToken()
	require.NoError(t, err)
	second, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}
