package model

import (
	"time"

	"github.com/google/uuid"
)

type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserProfileUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type UserPasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type ResetPasswordTemplateData struct {
	Username  string
	ResetLink string
	ExpiresIn int64
}

type ResetTokenStatus struct {
	Valid bool `json:"valid"`
}

type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          UserResponse `json:"user"`
}

type UserResponse struct {
	Id             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Avatar         *ImageAsset `json:"avatar"`
	CreateDatetime time.Time   `json:"createDatetime"`
	UpdateDatetime time.Time   `json:"updateDatetime"`
}

// UserSummary is the public projection of a user embedded in brews and friend lists.
type UserSummary struct {
	Id             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Avatar         *ImageAsset `json:"avatar,omitempty"`
	CreateDatetime time.Time   `json:"createDatetime"`
}

type User struct {
	Id             uuid.UUID
	Username       string
	Email          string
	Password       string
	Avatar         *ImageAsset
	CreateDatetime time.Time
	UpdateDatetime time.Time
}

func (user User) ToResponse() UserResponse {
	return UserResponse{
		Id:             user.Id,
		Username:       user.Username,
		Email:          user.Email,
		Avatar:         user.Avatar,
		CreateDatetime: user.CreateDatetime,
		UpdateDatetime: user.UpdateDatetime,
	}
}
