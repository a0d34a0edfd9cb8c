package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/repository"
	"github.com/ferdian3456/brewlog/internal/util"
	"github.com/google/uuid"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent"

type Mailer interface {
	Send(receiverEmail string, subject string, body string) error
}

type UserUsecase struct {
	UserRepository *repository.UserRepository
	ImageUsecase   *ImageUsecase
	Mailer         Mailer
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewUserUsecase(userRepository *repository.UserRepository, imageUsecase *ImageUsecase, mailer Mailer, zap *zap.Logger, koanf *koanf.Koanf) *UserUsecase {
	return &UserUsecase{
		UserRepository: userRepository,
		ImageUsecase:   imageUsecase,
		Mailer:         mailer,
		Log:            zap,
		Config:         koanf,
	}
}

func validateUsername(username string) error {
	if username == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is required to not be empty",
			Param:   "username",
		}
	} else if len(username) < 3 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at least 3 characters",
			Param:   "username",
		}
	} else if len(username) > 30 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at most 30 characters",
			Param:   "username",
		}
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is required to not be empty",
			Param:   "email",
		}
	}

	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email || len(email) > 120 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is not valid",
			Param:   "email",
		}
	}

	return nil
}

func validatePassword(password string, param string) error {
	if password == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   param,
		}
	} else if len(password) < 6 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at least 6 characters",
			Param:   param,
		}
	} else if len(password) > 72 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at most 72 characters",
			Param:   param,
		}
	}

	return nil
}

func (usecase *UserUsecase) Register(ctx context.Context, payload model.UserCreateRequest) (model.AuthResponse, error) {
	response := model.AuthResponse{}

	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	err := validateUsername(payload.Username)
	if err != nil {
		return response, err
	}

	err = validateEmail(payload.Email)
	if err != nil {
		return response, err
	}

	err = validatePassword(payload.Password, "password")
	if err != nil {
		return response, err
	}

	existUsername, existEmail, err := usecase.UserRepository.CheckUsernameOrEmailUnique(ctx, payload.Username, payload.Email)
	if err != nil {
		return response, err
	}

	if existUsername == payload.Username {
		return response, &model.ConflictError{Message: "Username already taken", Param: "username"}
	}
	if existEmail == payload.Email {
		return response, &model.ConflictError{Message: "Email already in use", Param: "email"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return response, err
	}

	now := time.Now().UTC()
	user := model.User{
		Id:             uuid.New(),
		Username:       payload.Username,
		Email:          payload.Email,
		Password:       string(hashedPassword),
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.UserRepository.Register(ctx, user)
	if err != nil {
		return response, err
	}

	token, err := usecase.issueToken(ctx, user.Id)
	if err != nil {
		return response, err
	}

	response.Message = "User registered successfully"
	response.User = user.ToResponse()
	response.Token = token

	return response, nil
}

func (usecase *UserUsecase) Login(ctx context.Context, payload model.UserLoginRequest) (model.AuthResponse, error) {
	response := model.AuthResponse{}

	if payload.Username == "" {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is required to not be empty",
			Param:   "username",
		}
	}

	if payload.Password == "" {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	}

	login := strings.ToLower(strings.TrimSpace(payload.Username))

	userId, password, err := usecase.UserRepository.GetUserAuth(ctx, login)
	if err != nil {
		return response, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(password), []byte(payload.Password))
	if err != nil {
		return response, &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Invalid credentials",
			Param:   "password",
		}
	}

	user, err := usecase.UserRepository.GetUserInfo(ctx, userId)
	if err != nil {
		return response, err
	}

	token, err := usecase.issueToken(ctx, userId)
	if err != nil {
		return response, err
	}

	response.Message = "Login successful"
	response.User = user.ToResponse()
	response.Token = token

	return response, nil
}

func (usecase *UserUsecase) issueToken(ctx context.Context, userId uuid.UUID) (model.TokenResponse, error) {
	token, err := util.GenerateTokenPair(userId, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return token, err
	}

	err = usecase.UserRepository.SetAuthTokenInCache(ctx, token.AccessToken, token.RefreshToken, userId)
	if err != nil {
		return token, err
	}

	return token, nil
}

func (usecase *UserUsecase) GetUserInfo(ctx context.Context, userId uuid.UUID) (model.UserResponse, error) {
	user, err := usecase.UserRepository.GetUserInfo(ctx, userId)
	if err != nil {
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}

func (usecase *UserUsecase) GetAccessToken(ctx context.Context, userId uuid.UUID, accessToken string) error {
	hashedTokenFromCache, err := usecase.UserRepository.GetAccessTokenInCache(ctx, userId)
	if err != nil {
		return err
	}

	hashedTokenFromClient := util.HashToken(accessToken)

	if hashedTokenFromClient != hashedTokenFromCache {
		return &model.ValidationError{
			Code:    constant.ERR_UNATHORIZED_ERROR,
			Message: "Authorization token is expired",
			Param:   "accessToken",
		}
	}

	return nil
}

func (usecase *UserUsecase) Logout(ctx context.Context, userId uuid.UUID) error {
	err := usecase.UserRepository.RemoveAuthToken(ctx, userId)
	if err != nil {
		return err
	}

	return nil
}

// ForgotPassword answers the same way whether or not the email is known.
func (usecase *UserUsecase) ForgotPassword(ctx context.Context, payload model.ForgotPasswordRequest) (model.MessageResponse, error) {
	response := model.MessageResponse{Message: forgotPasswordMessage}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	err := validateEmail(email)
	if err != nil {
		return model.MessageResponse{}, err
	}

	user, err := usecase.UserRepository.GetUserByEmail(ctx, email)
	if err != nil {
		var notFoundErr *model.NotFoundError
		if asNotFound(err, &notFoundErr) {
			return response, nil
		}
		return model.MessageResponse{}, err
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.SetPasswordResetToken(ctx, util.HashToken(token), user.Id)
	if err != nil {
		return model.MessageResponse{}, err
	}

	body, err := renderResetPasswordEmail(model.ResetPasswordTemplateData{
		Username:  user.Username,
		ResetLink: fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(usecase.Config.String("APP_PUBLIC_URL"), "/"), token),
		ExpiresIn: int64(repository.PasswordResetTokenTTL.Minutes()),
	})
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.Mailer.Send(user.Email, "Reset your brewlog password", body)
	if err != nil {
		usecase.Log.Error("failed to send password reset email", zap.String("userId", user.Id.String()), zap.Error(err))
	}

	return response, nil
}

func renderResetPasswordEmail(data model.ResetPasswordTemplateData) (string, error) {
	tmpl, err := template.ParseFS(util.TemplateFS, "template/reset_password.html")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (usecase *UserUsecase) VerifyResetToken(ctx context.Context, token string) (model.ResetTokenStatus, error) {
	if token == "" {
		return model.ResetTokenStatus{Valid: false}, nil
	}

	_, err := usecase.UserRepository.GetPasswordResetToken(ctx, util.HashToken(token))
	if err != nil {
		var validationErr *model.ValidationError
		if asValidation(err, &validationErr) {
			return model.ResetTokenStatus{Valid: false}, nil
		}
		return model.ResetTokenStatus{}, err
	}

	return model.ResetTokenStatus{Valid: true}, nil
}

func (usecase *UserUsecase) ResetPassword(ctx context.Context, payload model.ResetPasswordRequest) (model.MessageResponse, error) {
	if payload.Token == "" {
		return model.MessageResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Token is required to not be empty",
			Param:   "token",
		}
	}

	err := validatePassword(payload.Password, "password")
	if err != nil {
		return model.MessageResponse{}, err
	}

	hashedToken := util.HashToken(payload.Token)
	userId, err := usecase.UserRepository.GetPasswordResetToken(ctx, hashedToken)
	if err != nil {
		return model.MessageResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.UpdatePassword(ctx, userId, string(hashedPassword), time.Now().UTC())
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.DeletePasswordResetToken(ctx, hashedToken)
	if err != nil {
		return model.MessageResponse{}, err
	}

	// a reset signs out the current session
	err = usecase.UserRepository.RemoveAuthToken(ctx, userId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "Password has been reset successfully"}, nil
}

func (usecase *UserUsecase) UpdateProfile(ctx context.Context, userId uuid.UUID, payload model.UserProfileUpdateRequest) (model.UserResponse, error) {
	user, err := usecase.UserRepository.GetUserInfo(ctx, userId)
	if err != nil {
		return model.UserResponse{}, err
	}

	if payload.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*payload.Username))
		err = validateUsername(username)
		if err != nil {
			return model.UserResponse{}, err
		}

		taken, err := usecase.UserRepository.CheckUsernameTaken(ctx, username, userId)
		if err != nil {
			return model.UserResponse{}, err
		}
		if taken {
			return model.UserResponse{}, &model.ConflictError{Message: "Username already taken", Param: "username"}
		}

		user.Username = username
	}

	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		err = validateEmail(email)
		if err != nil {
			return model.UserResponse{}, err
		}

		taken, err := usecase.UserRepository.CheckEmailTaken(ctx, email, userId)
		if err != nil {
			return model.UserResponse{}, err
		}
		if taken {
			return model.UserResponse{}, &model.ConflictError{Message: "Email already in use", Param: "email"}
		}

		user.Email = email
	}

	user.UpdateDatetime = time.Now().UTC()
	err = usecase.UserRepository.UpdateProfile(ctx, userId, user.Username, user.Email, user.UpdateDatetime)
	if err != nil {
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}

func (usecase *UserUsecase) ChangePassword(ctx context.Context, userId uuid.UUID, payload model.UserPasswordChangeRequest) (model.MessageResponse, error) {
	if payload.CurrentPassword == "" {
		return model.MessageResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Current password is required to not be empty",
			Param:   "currentPassword",
		}
	}

	err := validatePassword(payload.NewPassword, "newPassword")
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.checkPassword(ctx, userId, payload.CurrentPassword, "currentPassword", "Current password is incorrect")
	if err != nil {
		return model.MessageResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.UpdatePassword(ctx, userId, string(hashedPassword), time.Now().UTC())
	if err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "Password updated successfully"}, nil
}

// DeleteAccount removes the user with everything that cascades from it, then
// the stored images of the avatar, coffees and brews involved.
func (usecase *UserUsecase) DeleteAccount(ctx context.Context, userId uuid.UUID, payload model.DeleteAccountRequest) (model.MessageResponse, error) {
	if payload.Password == "" {
		return model.MessageResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to delete the account",
			Param:   "password",
		}
	}

	err := usecase.checkPassword(ctx, userId, payload.Password, "password", "Password is incorrect")
	if err != nil {
		return model.MessageResponse{}, err
	}

	coffeeIds, brewIds, err := usecase.UserRepository.GetOwnedEntityIds(ctx, userId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.DeleteUser(ctx, userId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	err = usecase.UserRepository.RemoveAuthToken(ctx, userId)
	if err != nil {
		usecase.Log.Warn("failed to revoke token of deleted account", zap.String("userId", userId.String()), zap.Error(err))
	}

	usecase.ImageUsecase.RemoveEntityImages(ctx, media.CategoryAvatars, userId)
	for _, brewId := range brewIds {
		usecase.ImageUsecase.RemoveEntityImages(ctx, media.CategoryBrews, brewId)
	}
	for _, coffeeId := range coffeeIds {
		usecase.ImageUsecase.RemoveEntityImages(ctx, media.CategoryCoffees, coffeeId)
	}

	return model.MessageResponse{Message: "Account deleted successfully"}, nil
}

func (usecase *UserUsecase) checkPassword(ctx context.Context, userId uuid.UUID, password string, param string, message string) error {
	passwordHash, err := usecase.UserRepository.GetUserPassword(ctx, userId)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: message,
			Param:   param,
		}
	}

	return nil
}

func (usecase *UserUsecase) Health(ctx context.Context) error {
	return usecase.UserRepository.Ping(ctx)
}
