package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const PasswordResetTokenTTL = time.Hour

type UserRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewUserRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *UserRepository {
	return &UserRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

// Postgresql
func (repository *UserRepository) Register(ctx context.Context, user model.User) error {
	query := "INSERT INTO users (id,username,email,password,avatar,create_datetime,update_datetime) VALUES ($1,$2,$3,$4,NULL,$5,$6)"

	_, err := repository.DB.Exec(ctx, query, user.Id, user.Username, user.Email, user.Password, user.CreateDatetime, user.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) CheckUsernameOrEmailUnique(ctx context.Context, username string, email string) (string, string, error) {
	query := "SELECT username,email FROM users WHERE username=$1 OR email=$2 LIMIT 1"

	var existUsername string
	var existEmail string
	err := repository.DB.QueryRow(ctx, query, username, email).Scan(&existUsername, &existEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return existUsername, existEmail, nil
		}
		return existUsername, existEmail, err
	}

	return existUsername, existEmail, nil
}

// CheckUsernameTaken reports whether another user already has username.
func (repository *UserRepository) CheckUsernameTaken(ctx context.Context, username string, excludeUserId uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 AND id<>$2)"

	var exists bool
	err := repository.DB.QueryRow(ctx, query, username, excludeUserId).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (repository *UserRepository) CheckEmailTaken(ctx context.Context, email string, excludeUserId uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND id<>$2)"

	var exists bool
	err := repository.DB.QueryRow(ctx, query, email, excludeUserId).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetUserAuth looks the user up by username or email.
func (repository *UserRepository) GetUserAuth(ctx context.Context, login string) (uuid.UUID, string, error) {
	query := "SELECT id,password FROM users WHERE username=$1 OR email=$1 LIMIT 1"

	var id uuid.UUID
	var passwordHash string

	err := repository.DB.QueryRow(ctx, query, login).Scan(&id, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return id, passwordHash, &model.ValidationError{
				Code:    constant.ERR_UNATHORIZED_ERROR,
				Message: "Invalid credentials",
				Param:   "username",
			}
		}
		return id, passwordHash, err
	}

	return id, passwordHash, nil
}

func (repository *UserRepository) GetUserPassword(ctx context.Context, userId uuid.UUID) (string, error) {
	query := "SELECT password FROM users WHERE id=$1"

	var passwordHash string
	err := repository.DB.QueryRow(ctx, query, userId).Scan(&passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return passwordHash, &model.NotFoundError{Resource: "User", Param: "userId"}
		}
		return passwordHash, err
	}

	return passwordHash, nil
}

func (repository *UserRepository) GetUserInfo(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := "SELECT id,username,email,avatar,create_datetime,update_datetime FROM users WHERE id=$1"

	return repository.scanUser(repository.DB.QueryRow(ctx, query, id))
}

func (repository *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	query := "SELECT id,username,email,avatar,create_datetime,update_datetime FROM users WHERE email=$1"

	return repository.scanUser(repository.DB.QueryRow(ctx, query, email))
}

func (repository *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	user := model.User{}
	var avatar []byte

	err := row.Scan(&user.Id, &user.Username, &user.Email, &avatar, &user.CreateDatetime, &user.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, &model.NotFoundError{Resource: "User", Param: "userId"}
		}
		return user, err
	}

	user.Avatar, err = decodeAvatar(avatar)
	if err != nil {
		return user, err
	}

	return user, nil
}

func (repository *UserRepository) GetUserSummary(ctx context.Context, id uuid.UUID) (model.UserSummary, error) {
	user, err := repository.GetUserInfo(ctx, id)
	if err != nil {
		return model.UserSummary{}, err
	}

	return model.UserSummary{
		Id:             user.Id,
		Username:       user.Username,
		Avatar:         user.Avatar,
		CreateDatetime: user.CreateDatetime,
	}, nil
}

func (repository *UserRepository) SearchUsers(ctx context.Context, search string, excludeUserId uuid.UUID, limit int) ([]model.UserSummary, error) {
	query := `SELECT id,username,avatar,create_datetime
			FROM users
			WHERE username ILIKE '%' || $1 || '%' AND id<>$2
			ORDER BY username ASC
			LIMIT $3`

	rows, err := repository.DB.Query(ctx, query, search, excludeUserId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		user := model.UserSummary{}
		var avatar []byte
		err = rows.Scan(&user.Id, &user.Username, &avatar, &user.CreateDatetime)
		if err != nil {
			return nil, err
		}

		user.Avatar, err = decodeAvatar(avatar)
		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func (repository *UserRepository) UpdateProfile(ctx context.Context, userId uuid.UUID, username string, email string, updateDatetime time.Time) error {
	query := "UPDATE users SET username=$1, email=$2, update_datetime=$3 WHERE id=$4"

	_, err := repository.DB.Exec(ctx, query, username, email, updateDatetime, userId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) UpdatePassword(ctx context.Context, userId uuid.UUID, passwordHash string, updateDatetime time.Time) error {
	query := "UPDATE users SET password=$1, update_datetime=$2 WHERE id=$3"

	_, err := repository.DB.Exec(ctx, query, passwordHash, updateDatetime, userId)
	if err != nil {
		return err
	}

	return nil
}

// GetOwnedEntityIds lists every coffee and brew whose assets go away with the
// user: own coffees, own brews, and other users' brews of own coffees.
func (repository *UserRepository) GetOwnedEntityIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	coffeeQuery := "SELECT id FROM coffees WHERE added_by=$1"
	coffeeIds, err := repository.collectIds(ctx, coffeeQuery, userId)
	if err != nil {
		return nil, nil, err
	}

	brewQuery := `SELECT id FROM brews WHERE user_id=$1
			UNION
			SELECT B.id FROM brews B JOIN coffees C ON B.coffee_id = C.id WHERE C.added_by=$1`
	brewIds, err := repository.collectIds(ctx, brewQuery, userId)
	if err != nil {
		return nil, nil, err
	}

	return coffeeIds, brewIds, nil
}

func (repository *UserRepository) collectIds(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := repository.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		err = rows.Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteUser removes the user; coffees, brews, likes and friendships cascade.
func (repository *UserRepository) DeleteUser(ctx context.Context, userId uuid.UUID) error {
	query := "DELETE FROM users WHERE id=$1"

	_, err := repository.DB.Exec(ctx, query, userId)
	if err != nil {
		return err
	}

	return nil
}

// Redis - Cache
func (repository *UserRepository) SetAuthTokenInCache(ctx context.Context, accessToken string, refreshToken string, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	hashedAccessToken := util.HashToken(accessToken)
	hashedRefreshToken := util.HashToken(refreshToken)

	_, err := repository.DBCache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessTokenKey, hashedAccessToken, util.AccessTokenDuration)
		pipe.Set(ctx, refreshTokenKey, hashedRefreshToken, util.RefreshTokenDuration)
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) GetAccessTokenInCache(ctx context.Context, userId uuid.UUID) (string, error) {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)
	hashedToken, err := repository.DBCache.Get(ctx, accessTokenKey).Result()
	if err == redis.Nil {
		return hashedToken, &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Authorization token not found or expired",
			Param:   "accessToken",
		}
	} else if err != nil {
		return hashedToken, err
	}

	return hashedToken, nil
}

func (repository *UserRepository) RemoveAuthToken(ctx context.Context, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:accessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	err := repository.DBCache.Del(ctx, accessTokenKey, refreshTokenKey).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) SetPasswordResetToken(ctx context.Context, hashedToken string, userId uuid.UUID) error {
	key := fmt.Sprintf("auth:passwordReset:%s", hashedToken)

	err := repository.DBCache.Set(ctx, key, userId.String(), PasswordResetTokenTTL).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) GetPasswordResetToken(ctx context.Context, hashedToken string) (uuid.UUID, error) {
	key := fmt.Sprintf("auth:passwordReset:%s", hashedToken)

	value, err := repository.DBCache.Get(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password reset token is invalid or has expired",
			Param:   "token",
		}
	} else if err != nil {
		return uuid.Nil, err
	}

	userId, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, err
	}

	return userId, nil
}

func (repository *UserRepository) DeletePasswordResetToken(ctx context.Context, hashedToken string) error {
	key := fmt.Sprintf("auth:passwordReset:%s", hashedToken)

	err := repository.DBCache.Del(ctx, key).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) Ping(ctx context.Context) error {
	err := repository.DB.Ping(ctx)
	if err != nil {
		return fmt.Errorf("postgresql: %w", err)
	}

	err = repository.DBCache.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	return nil
}
