package repository

import (
	"context"
	"errors"

	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FriendRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewFriendRepository(zap *zap.Logger, db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{
		Log: zap,
		DB:  db,
	}
}

func scanFriendship(row pgx.Row) (model.Friendship, error) {
	friendship := model.Friendship{}
	err := row.Scan(&friendship.Id, &friendship.RequesterId, &friendship.RecipientId, &friendship.Status, &friendship.CreateDatetime, &friendship.UpdateDatetime)
	return friendship, err
}

// GetFriendshipBetween returns the friendship linking the two users in either
// direction, or nil when there is none.
func (repository *FriendRepository) GetFriendshipBetween(ctx context.Context, userId uuid.UUID, otherId uuid.UUID) (*model.Friendship, error) {
	query := `SELECT id,requester_id,recipient_id,status,create_datetime,update_datetime
			FROM friendships
			WHERE (requester_id=$1 AND recipient_id=$2) OR (requester_id=$2 AND recipient_id=$1)
			LIMIT 1`

	friendship, err := scanFriendship(repository.DB.QueryRow(ctx, query, userId, otherId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &friendship, nil
}

func (repository *FriendRepository) GetFriendship(ctx context.Context, id uuid.UUID) (model.Friendship, error) {
	query := "SELECT id,requester_id,recipient_id,status,create_datetime,update_datetime FROM friendships WHERE id=$1"

	friendship, err := scanFriendship(repository.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return friendship, &model.NotFoundError{Resource: "Friend request", Param: "friendshipId"}
		}
		return friendship, err
	}

	return friendship, nil
}

func (repository *FriendRepository) CreateFriendship(ctx context.Context, friendship model.Friendship) error {
	query := "INSERT INTO friendships (id,requester_id,recipient_id,status,create_datetime,update_datetime) VALUES ($1,$2,$3,$4,$5,$6)"

	_, err := repository.DB.Exec(ctx, query, friendship.Id, friendship.RequesterId, friendship.RecipientId, friendship.Status, friendship.CreateDatetime, friendship.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *FriendRepository) UpdateFriendship(ctx context.Context, friendship model.Friendship) error {
	query := "UPDATE friendships SET requester_id=$1, recipient_id=$2, status=$3, update_datetime=$4 WHERE id=$5"

	_, err := repository.DB.Exec(ctx, query, friendship.RequesterId, friendship.RecipientId, friendship.Status, friendship.UpdateDatetime, friendship.Id)
	if err != nil {
		return err
	}

	return nil
}

func (repository *FriendRepository) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM friendships WHERE id=$1"

	_, err := repository.DB.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// ListFriendships returns every friendship of userId with the other side
// resolved. An empty status means all of them.
func (repository *FriendRepository) ListFriendships(ctx context.Context, userId uuid.UUID, status string) ([]model.FriendEntry, error) {
	query := `SELECT F.id,F.status,F.requester_id=$1,F.create_datetime,F.update_datetime,U.id,U.username,U.avatar,U.create_datetime
			FROM friendships F
			JOIN users U ON U.id = CASE WHEN F.requester_id=$1 THEN F.recipient_id ELSE F.requester_id END
			WHERE (F.requester_id=$1 OR F.recipient_id=$1) AND ($2='' OR F.status=$2)
			ORDER BY F.update_datetime DESC`

	rows, err := repository.DB.Query(ctx, query, userId, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.FriendEntry{}
	for rows.Next() {
		entry := model.FriendEntry{}
		var avatar []byte
		err = rows.Scan(&entry.FriendshipId, &entry.Status, &entry.IsRequester, &entry.CreateDatetime, &entry.UpdateDatetime,
			&entry.Friend.Id, &entry.Friend.Username, &avatar, &entry.Friend.CreateDatetime)
		if err != nil {
			return nil, err
		}

		entry.Friend.Avatar, err = decodeAvatar(avatar)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetFriendshipStatuses maps each of otherIds that has a friendship with userId to its status.
func (repository *FriendRepository) GetFriendshipStatuses(ctx context.Context, userId uuid.UUID, otherIds []uuid.UUID) (map[uuid.UUID]model.FriendshipStatus, error) {
	statuses := make(map[uuid.UUID]model.FriendshipStatus, len(otherIds))
	if len(otherIds) == 0 {
		return statuses, nil
	}

	query := `SELECT id,requester_id,recipient_id,status
			FROM friendships
			WHERE (requester_id=$1 AND recipient_id=ANY($2)) OR (recipient_id=$1 AND requester_id=ANY($2))`

	rows, err := repository.DB.Query(ctx, query, userId, otherIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, requesterId, recipientId uuid.UUID
		var status string
		err = rows.Scan(&id, &requesterId, &recipientId, &status)
		if err != nil {
			return nil, err
		}

		other := requesterId
		if requesterId == userId {
			other = recipientId
		}

		statuses[other] = model.FriendshipStatus{
			Status:       status,
			IsRequester:  requesterId == userId,
			FriendshipId: id,
		}
	}

	return statuses, rows.Err()
}

func (repository *FriendRepository) AreFriends(ctx context.Context, userId uuid.UUID, otherId uuid.UUID) (bool, error) {
	friendship, err := repository.GetFriendshipBetween(ctx, userId, otherId)
	if err != nil {
		return false, err
	}

	return friendship != nil && friendship.Status == model.FriendshipAccepted, nil
}
