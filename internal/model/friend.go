package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
	FriendshipBlocked  = "blocked"
)

type Friendship struct {
	Id             uuid.UUID `json:"id"`
	RequesterId    uuid.UUID `json:"requesterId"`
	RecipientId    uuid.UUID `json:"recipientId"`
	Status         string    `json:"status"`
	CreateDatetime time.Time `json:"createDatetime"`
	UpdateDatetime time.Time `json:"updateDatetime"`
}

type FriendRequest struct {
	UserId string `json:"userId"`
}

type FriendshipStatus struct {
	Status       string    `json:"status"`
	IsRequester  bool      `json:"isRequester"`
	FriendshipId uuid.UUID `json:"friendshipId"`
}

type UserSearchResult struct {
	UserSummary
	FriendshipStatus *FriendshipStatus `json:"friendshipStatus"`
}

type FriendEntry struct {
	FriendshipId   uuid.UUID   `json:"friendshipId"`
	Status         string      `json:"status"`
	IsRequester    bool        `json:"isRequester"`
	Friend         UserSummary `json:"friend"`
	CreateDatetime time.Time   `json:"createDatetime"`
	UpdateDatetime time.Time   `json:"updateDatetime"`
}

type FriendListResponse struct {
	Friends         []FriendEntry `json:"friends"`
	PendingReceived []FriendEntry `json:"pendingReceived"`
	PendingSent     []FriendEntry `json:"pendingSent"`
	Total           int           `json:"total"`
}

type FriendshipResponse struct {
	Message    string     `json:"message"`
	Friendship Friendship `json:"friendship"`
}

type FriendProfileStats struct {
	TotalPublicBrews int            `json:"totalPublicBrews"`
	AverageRating    float64        `json:"averageRating"`
	TopBrewMethods   []CountByLabel `json:"topBrewMethods"`
}

type FriendProfileResponse struct {
	User  UserSummary        `json:"user"`
	Stats FriendProfileStats `json:"stats"`
}
