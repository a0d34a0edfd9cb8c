package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	BearerPrefix         = "Bearer "
	TokenIssuer          = "brewlog"
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour
	errMissingSecret     = errors.New("jwt secret key is not configured")
)

// parse failures in the order they are checked; the first match wins
var tokenErrorMessages = []struct {
	err     error
	message string
}{
	{jwt.ErrTokenMalformed, "Authentication token is malformed"},
	{jwt.ErrTokenExpired, "Authentication token is expired"},
	{jwt.ErrTokenNotValidYet, "Authentication token is not valid yet"},
	{jwt.ErrTokenSignatureInvalid, "Authentication token signature is invalid"},
	{jwt.ErrTokenInvalidIssuer, "Authentication token issuer is invalid"},
}

func unauthorized(message string) *model.ValidationError {
	return &model.ValidationError{
		Code:    constant.ERR_UNATHORIZED_ERROR,
		Message: message,
		Param:   "accessToken",
	}
}

// HashToken is the form tokens are stored in: hex SHA-256.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func GenerateAccessToken(userId uuid.UUID, jwtSecretKey string) (string, error) {
	if jwtSecretKey == "" {
		return "", errMissingSecret
	}

	now := time.Now().UTC()
	claims := &model.Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   fmt.Sprintf("user:%s", userId),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecretKey))
}

// GenerateTokenPair signs an access token and mints an opaque refresh token.
// Both are cached hashed by the caller.
func GenerateTokenPair(userId uuid.UUID, jwtSecretKey string) (model.TokenResponse, error) {
	accessToken, err := GenerateAccessToken(userId, jwtSecretKey)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  int(AccessTokenDuration.Seconds()),
		RefreshToken:          uuid.NewString(),
		RefreshTokenExpiresIn: int(RefreshTokenDuration.Seconds()),
		TokenType:             strings.TrimSpace(BearerPrefix),
	}, nil
}

// ValidateAccessToken checks a "Bearer <jwt>" header value and returns the
// bare token with its user id.
func ValidateAccessToken(authorization string, log *zap.Logger, jwtSecretKey string) (string, uuid.UUID, error) {
	if jwtSecretKey == "" {
		return "", uuid.Nil, errMissingSecret
	}

	tokenString, err := bearerToken(authorization)
	if err != nil {
		return "", uuid.Nil, err
	}

	claims := &model.Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(jwtSecretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		log.Debug("access token rejected", zap.Error(err))
		return "", uuid.Nil, tokenError(err)
	}

	if claims.UserId == uuid.Nil {
		return "", uuid.Nil, unauthorized("Authentication token is invalid")
	}

	return tokenString, claims.UserId, nil
}

func bearerToken(authorization string) (string, error) {
	switch {
	case authorization == "":
		return "", unauthorized("No authentication token is provided")
	case !strings.HasPrefix(authorization, BearerPrefix):
		return "", unauthorized("Authentication token format is not match")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorization, BearerPrefix))
	if token == "" {
		return "", unauthorized("Authentication token is empty")
	}

	return token, nil
}

func tokenError(err error) error {
	for _, candidate := range tokenErrorMessages {
		if errors.Is(err, candidate.err) {
			return unauthorized(candidate.message)
		}
	}

	return unauthorized("Authentication token is invalid")
}
