package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const brewSelectColumns = `B.id,B.brew_method,B.brew_temperature::float8,B.ratio_coffee::float8,B.ratio_water::float8,B.grind_size,B.brew_time,B.rating,
			B.notes,B.flavor_notes,B.is_public,B.extras,B.images,B.create_datetime,B.update_datetime,
			C.id,C.name,C.roaster,C.origin,C.roast_date,C.flavor_notes,
			U.id,U.username,U.avatar,U.create_datetime,
			(SELECT COUNT(*) FROM brew_likes L WHERE L.brew_id=B.id),
			EXISTS(SELECT 1 FROM brew_likes L WHERE L.brew_id=B.id AND L.user_id=$1)`

var brewSortColumns = map[string]string{
	"createdAt":       "B.create_datetime",
	"rating":          "B.rating",
	"brewMethod":      "B.brew_method",
	"brewTemperature": "B.brew_temperature",
}

type BrewRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewBrewRepository(zap *zap.Logger, db *pgxpool.Pool) *BrewRepository {
	return &BrewRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *BrewRepository) CreateBrew(ctx context.Context, brew model.Brew) error {
	extras, err := sonic.Marshal(brew.Extras)
	if err != nil {
		return err
	}

	query := `INSERT INTO brews (id,coffee_id,user_id,brew_method,brew_temperature,ratio_coffee,ratio_water,grind_size,brew_time,rating,notes,flavor_notes,is_public,extras,images,create_datetime,update_datetime)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'[]'::jsonb,$15,$16)`

	_, err = repository.DB.Exec(ctx, query, brew.Id, brew.CoffeeId, brew.UserId, brew.BrewMethod, brew.BrewTemperature, brew.BrewRatio.Coffee, brew.BrewRatio.Water,
		brew.GrindSize, brew.BrewTime, brew.Rating, brew.Notes, brew.FlavorNotes, brew.IsPublic, extras, brew.CreateDatetime, brew.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

// GetBrew loads the raw record without any visibility check.
func (repository *BrewRepository) GetBrew(ctx context.Context, id uuid.UUID) (model.Brew, error) {
	query := `SELECT id,coffee_id,user_id,brew_method,brew_temperature::float8,ratio_coffee::float8,ratio_water::float8,grind_size,brew_time,rating,notes,flavor_notes,is_public,extras,images,create_datetime,update_datetime
			FROM brews WHERE id=$1`

	brew := model.Brew{}
	var extras []byte
	var images []byte
	err := repository.DB.QueryRow(ctx, query, id).Scan(&brew.Id, &brew.CoffeeId, &brew.UserId, &brew.BrewMethod, &brew.BrewTemperature, &brew.BrewRatio.Coffee,
		&brew.BrewRatio.Water, &brew.GrindSize, &brew.BrewTime, &brew.Rating, &brew.Notes, &brew.FlavorNotes, &brew.IsPublic, &extras, &images,
		&brew.CreateDatetime, &brew.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return brew, &model.NotFoundError{Resource: "Brew", Param: "id"}
		}
		return brew, err
	}

	if len(extras) > 0 {
		err = sonic.Unmarshal(extras, &brew.Extras)
		if err != nil {
			return brew, err
		}
	}

	brew.Images, err = decodeImages(images)
	if err != nil {
		return brew, err
	}

	return brew, nil
}

func (repository *BrewRepository) GetBrewResponse(ctx context.Context, id uuid.UUID, viewerId uuid.UUID) (model.BrewResponse, error) {
	query := fmt.Sprintf(`SELECT %s
			FROM brews B
			JOIN coffees C ON C.id = B.coffee_id
			JOIN users U ON U.id = B.user_id
			WHERE B.id=$2`, brewSelectColumns)

	brew, err := scanBrewResponse(repository.DB.QueryRow(ctx, query, viewerId, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return brew, &model.NotFoundError{Resource: "Brew", Param: "id"}
		}
		return brew, err
	}

	return brew, nil
}

func (repository *BrewRepository) ListBrews(ctx context.Context, filter model.BrewListFilter) ([]model.BrewResponse, int, error) {
	args := []any{filter.ViewerId}
	conditions := []string{"TRUE"}

	if filter.UserId != nil {
		args = append(args, *filter.UserId)
		conditions = append(conditions, fmt.Sprintf("B.user_id=$%d", len(args)))
	}
	if filter.PublicOnly {
		conditions = append(conditions, "B.is_public")
	}
	if filter.CoffeeId != nil {
		args = append(args, *filter.CoffeeId)
		conditions = append(conditions, fmt.Sprintf("B.coffee_id=$%d", len(args)))
	}
	if filter.BrewMethod != "" {
		args = append(args, filter.BrewMethod)
		conditions = append(conditions, fmt.Sprintf("B.brew_method=$%d", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		conditions = append(conditions, fmt.Sprintf("B.rating>=$%d", len(args)))
	}
	if filter.MaxRating > 0 {
		args = append(args, filter.MaxRating)
		conditions = append(conditions, fmt.Sprintf("B.rating<=$%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	// $1 is only referenced by the select list, so the count query casts it to keep its type known
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM brews B WHERE $1::uuid IS NOT NULL AND %s", where)
	err := repository.DB.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	sortColumn, ok := brewSortColumns[filter.SortBy]
	if !ok {
		sortColumn = brewSortColumns["createdAt"]
	}
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	query := fmt.Sprintf(`SELECT %s
			FROM brews B
			JOIN coffees C ON C.id = B.coffee_id
			JOIN users U ON U.id = B.user_id
			WHERE %s
			ORDER BY %s %s, B.id
			LIMIT $%d OFFSET $%d`, brewSelectColumns, where, sortColumn, order, len(args)-1, len(args))

	rows, err := repository.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	brews := []model.BrewResponse{}
	for rows.Next() {
		brew, err := scanBrewResponse(rows)
		if err != nil {
			return nil, 0, err
		}
		brews = append(brews, brew)
	}

	return brews, total, rows.Err()
}

func scanBrewResponse(row pgx.Row) (model.BrewResponse, error) {
	brew := model.BrewResponse{}
	var extras []byte
	var images []byte
	var avatar []byte
	var roastDate time.Time

	err := row.Scan(&brew.Id, &brew.BrewMethod, &brew.BrewTemperature, &brew.BrewRatio.Coffee, &brew.BrewRatio.Water, &brew.GrindSize, &brew.BrewTime,
		&brew.Rating, &brew.Notes, &brew.FlavorNotes, &brew.IsPublic, &extras, &images, &brew.CreateDatetime, &brew.UpdateDatetime,
		&brew.Coffee.Id, &brew.Coffee.Name, &brew.Coffee.Roaster, &brew.Coffee.Origin, &roastDate, &brew.Coffee.FlavorNotes,
		&brew.User.Id, &brew.User.Username, &avatar, &brew.User.CreateDatetime,
		&brew.LikesCount, &brew.LikedByMe)
	if err != nil {
		return brew, err
	}

	brew.Coffee.RoastDate = roastDate.Format(DateLayout)
	brew.BrewRatioString = brew.BrewRatio.String()
	if brew.FlavorNotes == nil {
		brew.FlavorNotes = []string{}
	}
	if brew.Coffee.FlavorNotes == nil {
		brew.Coffee.FlavorNotes = []string{}
	}

	if len(extras) > 0 {
		err = sonic.Unmarshal(extras, &brew.Extras)
		if err != nil {
			return brew, err
		}
	}

	brew.Images, err = decodeImages(images)
	if err != nil {
		return brew, err
	}
	brew.PrimaryImage = media.Primary(brew.Images)

	brew.User.Avatar, err = decodeAvatar(avatar)
	if err != nil {
		return brew, err
	}

	return brew, nil
}

// UpdateBrew writes every editable column. Only the owner's row matches.
func (repository *BrewRepository) UpdateBrew(ctx context.Context, brew model.Brew) error {
	extras, err := sonic.Marshal(brew.Extras)
	if err != nil {
		return err
	}

	query := `UPDATE brews SET brew_method=$1,brew_temperature=$2,ratio_coffee=$3,ratio_water=$4,grind_size=$5,brew_time=$6,rating=$7,notes=$8,
			flavor_notes=$9,is_public=$10,extras=$11,update_datetime=$12
			WHERE id=$13 AND user_id=$14`

	tag, err := repository.DB.Exec(ctx, query, brew.BrewMethod, brew.BrewTemperature, brew.BrewRatio.Coffee, brew.BrewRatio.Water, brew.GrindSize, brew.BrewTime,
		brew.Rating, brew.Notes, brew.FlavorNotes, brew.IsPublic, extras, brew.UpdateDatetime, brew.Id, brew.UserId)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "Brew", Param: "id"}
	}

	return nil
}

func (repository *BrewRepository) DeleteBrew(ctx context.Context, brewId uuid.UUID, userId uuid.UUID) error {
	query := "DELETE FROM brews WHERE id=$1 AND user_id=$2"

	tag, err := repository.DB.Exec(ctx, query, brewId, userId)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "Brew", Param: "id"}
	}

	return nil
}

// ToggleLike likes the brew, or unlikes it when userId already did.
func (repository *BrewRepository) ToggleLike(ctx context.Context, brewId uuid.UUID, userId uuid.UUID) (bool, int, error) {
	tx, err := repository.DB.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM brew_likes WHERE brew_id=$1 AND user_id=$2", brewId, userId)
	if err != nil {
		return false, 0, err
	}

	liked := false
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, "INSERT INTO brew_likes (brew_id,user_id,create_datetime) VALUES ($1,$2,$3) ON CONFLICT DO NOTHING", brewId, userId, time.Now().UTC())
		if err != nil {
			return false, 0, err
		}
		liked = true
	}

	var count int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM brew_likes WHERE brew_id=$1", brewId).Scan(&count)
	if err != nil {
		return false, 0, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

func (repository *BrewRepository) GetBrewStats(ctx context.Context, userId uuid.UUID) (model.BrewStatsResponse, error) {
	stats := model.BrewStatsResponse{
		BrewMethodDistribution: []model.CountByLabel{},
		TemperatureStats:       []model.TemperatureStats{},
	}

	summaryQuery := "SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM brews WHERE user_id=$1"
	err := repository.DB.QueryRow(ctx, summaryQuery, userId).Scan(&stats.Summary.TotalBrews, &stats.Summary.AverageRating)
	if err != nil {
		return stats, err
	}

	stats.BrewMethodDistribution, err = repository.countByMethod(ctx, userId, false, 0)
	if err != nil {
		return stats, err
	}
	if len(stats.BrewMethodDistribution) > 0 {
		stats.Summary.FavoriteBrewMethod = stats.BrewMethodDistribution[0].Label
	}

	tempQuery := `SELECT brew_method, AVG(brew_temperature)::float8, MIN(brew_temperature)::float8, MAX(brew_temperature)::float8
			FROM brews WHERE user_id=$1
			GROUP BY brew_method
			ORDER BY brew_method ASC`

	rows, err := repository.DB.Query(ctx, tempQuery, userId)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		temp := model.TemperatureStats{}
		err = rows.Scan(&temp.BrewMethod, &temp.AvgTemp, &temp.MinTemp, &temp.MaxTemp)
		if err != nil {
			return stats, err
		}
		stats.TemperatureStats = append(stats.TemperatureStats, temp)
	}

	return stats, rows.Err()
}

// GetPublicProfileStats aggregates the public brews of userId.
func (repository *BrewRepository) GetPublicProfileStats(ctx context.Context, userId uuid.UUID) (model.FriendProfileStats, error) {
	stats := model.FriendProfileStats{}

	query := "SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM brews WHERE user_id=$1 AND is_public"
	err := repository.DB.QueryRow(ctx, query, userId).Scan(&stats.TotalPublicBrews, &stats.AverageRating)
	if err != nil {
		return stats, err
	}

	stats.TopBrewMethods, err = repository.countByMethod(ctx, userId, true, 5)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

func (repository *BrewRepository) countByMethod(ctx context.Context, userId uuid.UUID, publicOnly bool, limit int) ([]model.CountByLabel, error) {
	query := "SELECT brew_method, COUNT(*) FROM brews WHERE user_id=$1"
	if publicOnly {
		query += " AND is_public"
	}
	query += " GROUP BY brew_method ORDER BY COUNT(*) DESC, brew_method ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := repository.DB.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.CountByLabel{}
	for rows.Next() {
		count := model.CountByLabel{}
		err = rows.Scan(&count.Label, &count.Count)
		if err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}

	return counts, rows.Err()
}
