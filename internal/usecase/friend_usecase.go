package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/ferdian3456/brewlog/internal/repository"
	"github.com/google/uuid"

	"go.uber.org/zap"
)

const (
	UserSearchLimit        = 20
	UserSearchMinimumQuery = 2
	FriendBrewsLimit       = 20
)

type FriendUsecase struct {
	FriendRepository *repository.FriendRepository
	UserRepository   *repository.UserRepository
	BrewRepository   *repository.BrewRepository
	Log              *zap.Logger
}

func NewFriendUsecase(friendRepository *repository.FriendRepository, userRepository *repository.UserRepository, brewRepository *repository.BrewRepository, zap *zap.Logger) *FriendUsecase {
	return &FriendUsecase{
		FriendRepository: friendRepository,
		UserRepository:   userRepository,
		BrewRepository:   brewRepository,
		Log:              zap,
	}
}

func (usecase *FriendUsecase) SearchUsers(ctx context.Context, userId uuid.UUID, search string) ([]model.UserSearchResult, error) {
	search = strings.TrimSpace(search)
	if len(search) < UserSearchMinimumQuery {
		return []model.UserSearchResult{}, nil
	}

	users, err := usecase.UserRepository.SearchUsers(ctx, search, userId, UserSearchLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.Id)
	}

	statuses, err := usecase.FriendRepository.GetFriendshipStatuses(ctx, userId, ids)
	if err != nil {
		return nil, err
	}

	results := make([]model.UserSearchResult, 0, len(users))
	for _, user := range users {
		result := model.UserSearchResult{UserSummary: user}
		if status, ok := statuses[user.Id]; ok {
			result.FriendshipStatus = &status
		}
		results = append(results, result)
	}

	return results, nil
}

// ListFriends splits the friendships of userId into accepted friends and
// pending requests in both directions. status "all" or "" lists everything.
func (usecase *FriendUsecase) ListFriends(ctx context.Context, userId uuid.UUID, status string) (model.FriendListResponse, error) {
	if status == "all" {
		status = ""
	}

	entries, err := usecase.FriendRepository.ListFriendships(ctx, userId, status)
	if err != nil {
		return model.FriendListResponse{}, err
	}

	response := model.FriendListResponse{
		Friends:         []model.FriendEntry{},
		PendingReceived: []model.FriendEntry{},
		PendingSent:     []model.FriendEntry{},
	}

	for _, entry := range entries {
		switch {
		case entry.Status == model.FriendshipAccepted:
			response.Friends = append(response.Friends, entry)
		case entry.Status == model.FriendshipPending && entry.IsRequester:
			response.PendingSent = append(response.PendingSent, entry)
		case entry.Status == model.FriendshipPending:
			response.PendingReceived = append(response.PendingReceived, entry)
		}
	}
	response.Total = len(response.Friends)

	return response, nil
}

// SendRequest reports created=false when the call accepted a pending request
// from the other user instead of opening a new one.
func (usecase *FriendUsecase) SendRequest(ctx context.Context, userId uuid.UUID, payload model.FriendRequest) (model.FriendshipResponse, bool, error) {
	if payload.UserId == "" {
		return model.FriendshipResponse{}, false, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "User ID is required",
			Param:   "userId",
		}
	}

	targetId, err := uuid.Parse(payload.UserId)
	if err != nil {
		return model.FriendshipResponse{}, false, &model.NotFoundError{Resource: "User", Param: "userId"}
	}

	if targetId == userId {
		return model.FriendshipResponse{}, false, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Cannot send friend request to yourself",
			Param:   "userId",
		}
	}

	_, err = usecase.UserRepository.GetUserSummary(ctx, targetId)
	if err != nil {
		return model.FriendshipResponse{}, false, err
	}

	existing, err := usecase.FriendRepository.GetFriendshipBetween(ctx, userId, targetId)
	if err != nil {
		return model.FriendshipResponse{}, false, err
	}

	now := time.Now().UTC()

	if existing != nil {
		switch existing.Status {
		case model.FriendshipAccepted:
			return model.FriendshipResponse{}, false, friendRequestError("Already friends with this user")
		case model.FriendshipPending:
			if existing.RequesterId != targetId {
				return model.FriendshipResponse{}, false, friendRequestError("Friend request already sent")
			}

			existing.Status = model.FriendshipAccepted
			existing.UpdateDatetime = now
			err = usecase.FriendRepository.UpdateFriendship(ctx, *existing)
			if err != nil {
				return model.FriendshipResponse{}, false, err
			}
			return model.FriendshipResponse{Message: "Friend request accepted", Friendship: *existing}, false, nil
		case model.FriendshipBlocked:
			return model.FriendshipResponse{}, false, friendRequestError("Cannot send friend request to this user")
		case model.FriendshipRejected:
			existing.Status = model.FriendshipPending
			existing.RequesterId = userId
			existing.RecipientId = targetId
			existing.UpdateDatetime = now
			err = usecase.FriendRepository.UpdateFriendship(ctx, *existing)
			if err != nil {
				return model.FriendshipResponse{}, false, err
			}
			return model.FriendshipResponse{Message: "Friend request sent", Friendship: *existing}, true, nil
		}
	}

	friendship := model.Friendship{
		Id:             uuid.New(),
		RequesterId:    userId,
		RecipientId:    targetId,
		Status:         model.FriendshipPending,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.FriendRepository.CreateFriendship(ctx, friendship)
	if err != nil {
		return model.FriendshipResponse{}, false, err
	}

	return model.FriendshipResponse{Message: "Friend request sent", Friendship: friendship}, true, nil
}

func friendRequestError(message string) error {
	return &model.ValidationError{
		Code:    constant.ERR_VALIDATION_CODE,
		Message: message,
		Param:   "userId",
	}
}

func (usecase *FriendUsecase) AcceptRequest(ctx context.Context, userId uuid.UUID, friendshipId uuid.UUID) (model.FriendshipResponse, error) {
	friendship, err := usecase.pendingRequestFor(ctx, userId, friendshipId)
	if err != nil {
		return model.FriendshipResponse{}, err
	}

	friendship.Status = model.FriendshipAccepted
	friendship.UpdateDatetime = time.Now().UTC()
	err = usecase.FriendRepository.UpdateFriendship(ctx, friendship)
	if err != nil {
		return model.FriendshipResponse{}, err
	}

	return model.FriendshipResponse{Message: "Friend request accepted", Friendship: friendship}, nil
}

func (usecase *FriendUsecase) RejectRequest(ctx context.Context, userId uuid.UUID, friendshipId uuid.UUID) (model.MessageResponse, error) {
	friendship, err := usecase.pendingRequestFor(ctx, userId, friendshipId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	friendship.Status = model.FriendshipRejected
	friendship.UpdateDatetime = time.Now().UTC()
	err = usecase.FriendRepository.UpdateFriendship(ctx, friendship)
	if err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "Friend request rejected"}, nil
}

// pendingRequestFor loads a pending request addressed to userId.
func (usecase *FriendUsecase) pendingRequestFor(ctx context.Context, userId uuid.UUID, friendshipId uuid.UUID) (model.Friendship, error) {
	friendship, err := usecase.FriendRepository.GetFriendship(ctx, friendshipId)
	if err != nil {
		return friendship, err
	}

	if friendship.RecipientId != userId || friendship.Status != model.FriendshipPending {
		return model.Friendship{}, &model.NotFoundError{Resource: "Friend request", Param: "friendshipId"}
	}

	return friendship, nil
}

// RemoveFriendship deletes a friendship or cancels a request from either side.
func (usecase *FriendUsecase) RemoveFriendship(ctx context.Context, userId uuid.UUID, friendshipId uuid.UUID) (model.MessageResponse, error) {
	notFound := &model.NotFoundError{Resource: "Friendship", Param: "friendshipId"}

	friendship, err := usecase.FriendRepository.GetFriendship(ctx, friendshipId)
	if err != nil {
		var notFoundErr *model.NotFoundError
		if asNotFound(err, &notFoundErr) {
			return model.MessageResponse{}, notFound
		}
		return model.MessageResponse{}, err
	}

	if friendship.RequesterId != userId && friendship.RecipientId != userId {
		return model.MessageResponse{}, notFound
	}

	err = usecase.FriendRepository.DeleteFriendship(ctx, friendshipId)
	if err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "Friend removed successfully"}, nil
}

func (usecase *FriendUsecase) requireFriend(ctx context.Context, userId uuid.UUID, friendId uuid.UUID) error {
	friends, err := usecase.FriendRepository.AreFriends(ctx, userId, friendId)
	if err != nil {
		return err
	}

	if !friends {
		return &model.ForbiddenError{Message: "Not friends with this user"}
	}

	return nil
}

func (usecase *FriendUsecase) GetFriendBrews(ctx context.Context, userId uuid.UUID, friendId uuid.UUID, page model.PageRequest) (model.BrewListResponse, error) {
	err := usecase.requireFriend(ctx, userId, friendId)
	if err != nil {
		return model.BrewListResponse{}, err
	}

	filter := model.BrewListFilter{
		UserId:     &friendId,
		ViewerId:   userId,
		PublicOnly: true,
		Page:       page,
	}

	brews, total, err := usecase.BrewRepository.ListBrews(ctx, filter)
	if err != nil {
		return model.BrewListResponse{}, err
	}

	return model.BrewListResponse{
		Brews:       brews,
		TotalPages:  model.TotalPages(total, page.Limit),
		CurrentPage: page.Page,
		Total:       total,
	}, nil
}

func (usecase *FriendUsecase) GetFriendProfile(ctx context.Context, userId uuid.UUID, friendId uuid.UUID) (model.FriendProfileResponse, error) {
	err := usecase.requireFriend(ctx, userId, friendId)
	if err != nil {
		return model.FriendProfileResponse{}, err
	}

	user, err := usecase.UserRepository.GetUserSummary(ctx, friendId)
	if err != nil {
		return model.FriendProfileResponse{}, err
	}

	stats, err := usecase.BrewRepository.GetPublicProfileStats(ctx, friendId)
	if err != nil {
		return model.FriendProfileResponse{}, err
	}

	return model.FriendProfileResponse{User: user, Stats: stats}, nil
}
