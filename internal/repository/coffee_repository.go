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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DateLayout          = "2006-01-02"
	PopularCoffeesTTL   = 5 * time.Minute
	coffeeSelectColumns = `C.id,C.name,C.roaster,C.origin,C.roast_date,C.processing_method,C.roast_level,C.variety,C.altitude,
			C.flavor_notes,C.price,C.barcode,C.is_public,C.images,C.create_datetime,C.update_datetime,
			U.id,U.username,U.avatar,U.create_datetime`
)

var coffeeSortColumns = map[string]string{
	"createdAt": "C.create_datetime",
	"name":      "C.name",
	"roaster":   "C.roaster",
	"origin":    "C.origin",
	"roastDate": "C.roast_date",
	"price":     "C.price",
}

type CoffeeRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewCoffeeRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *CoffeeRepository {
	return &CoffeeRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

func (repository *CoffeeRepository) CreateCoffee(ctx context.Context, coffee model.Coffee) error {
	query := `INSERT INTO coffees (id,name,roaster,origin,roast_date,processing_method,roast_level,variety,altitude,flavor_notes,price,barcode,added_by,is_public,images,create_datetime,update_datetime)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'[]'::jsonb,$15,$16)`

	_, err := repository.DB.Exec(ctx, query, coffee.Id, coffee.Name, coffee.Roaster, coffee.Origin, coffee.RoastDate, coffee.ProcessingMethod, coffee.RoastLevel,
		coffee.Variety, coffee.Altitude, coffee.FlavorNotes, coffee.Price, coffee.Barcode, coffee.AddedBy, coffee.IsPublic, coffee.CreateDatetime, coffee.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

// FindSimilarCoffee reports whether a coffee visible to userId already has
// the same name, roaster and origin (case insensitive).
func (repository *CoffeeRepository) FindSimilarCoffee(ctx context.Context, name string, roaster string, origin string, userId uuid.UUID, excludeId uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
			SELECT 1 FROM coffees
			WHERE LOWER(name)=LOWER($1) AND LOWER(roaster)=LOWER($2) AND LOWER(origin)=LOWER($3)
			AND (is_public OR added_by=$4) AND id<>$5)`

	var exists bool
	err := repository.DB.QueryRow(ctx, query, name, roaster, origin, userId, excludeId).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetCoffee loads the raw record without any visibility check.
func (repository *CoffeeRepository) GetCoffee(ctx context.Context, id uuid.UUID) (model.Coffee, error) {
	query := `SELECT id,name,roaster,origin,roast_date,processing_method,roast_level,variety,altitude,flavor_notes,price,barcode,added_by,is_public,images,create_datetime,update_datetime
			FROM coffees WHERE id=$1`

	coffee := model.Coffee{}
	var images []byte
	err := repository.DB.QueryRow(ctx, query, id).Scan(&coffee.Id, &coffee.Name, &coffee.Roaster, &coffee.Origin, &coffee.RoastDate, &coffee.ProcessingMethod,
		&coffee.RoastLevel, &coffee.Variety, &coffee.Altitude, &coffee.FlavorNotes, &coffee.Price, &coffee.Barcode, &coffee.AddedBy, &coffee.IsPublic, &images,
		&coffee.CreateDatetime, &coffee.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return coffee, &model.NotFoundError{Resource: "Coffee", Param: "id"}
		}
		return coffee, err
	}

	coffee.Images, err = decodeImages(images)
	if err != nil {
		return coffee, err
	}

	return coffee, nil
}

func (repository *CoffeeRepository) GetCoffeeResponse(ctx context.Context, id uuid.UUID, viewerId uuid.UUID) (model.CoffeeResponse, error) {
	query := fmt.Sprintf(`SELECT %s,
			(SELECT COUNT(*) FROM brews B WHERE B.coffee_id=C.id AND B.user_id=$2)
			FROM coffees C
			JOIN users U ON U.id = C.added_by
			WHERE C.id=$1`, coffeeSelectColumns)

	var brewCount int
	coffee, err := scanCoffeeResponse(repository.DB.QueryRow(ctx, query, id, viewerId), &brewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return coffee, &model.NotFoundError{Resource: "Coffee", Param: "id"}
		}
		return coffee, err
	}
	coffee.UserBrewCount = &brewCount

	return coffee, nil
}

func (repository *CoffeeRepository) ListCoffees(ctx context.Context, filter model.CoffeeListFilter) ([]model.CoffeeResponse, int, error) {
	args := []any{filter.UserId}
	conditions := []string{}

	if filter.OnlyMine {
		conditions = append(conditions, "C.added_by=$1")
	} else {
		conditions = append(conditions, "(C.is_public OR C.added_by=$1)")
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("to_tsvector('simple', C.name || ' ' || C.roaster || ' ' || C.origin) @@ plainto_tsquery('simple', $%d)", len(args)))
	}
	if filter.Roaster != "" {
		args = append(args, filter.Roaster)
		conditions = append(conditions, fmt.Sprintf("C.roaster ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		conditions = append(conditions, fmt.Sprintf("C.origin ILIKE '%%' || $%d || '%%'", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM coffees C WHERE %s", where)
	err := repository.DB.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	sortColumn, ok := coffeeSortColumns[filter.SortBy]
	if !ok {
		sortColumn = coffeeSortColumns["createdAt"]
	}
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	query := fmt.Sprintf(`SELECT %s,
			(SELECT COUNT(*) FROM brews B WHERE B.coffee_id=C.id AND B.user_id=$1)
			FROM coffees C
			JOIN users U ON U.id = C.added_by
			WHERE %s
			ORDER BY %s %s NULLS LAST, C.id
			LIMIT $%d OFFSET $%d`, coffeeSelectColumns, where, sortColumn, order, len(args)-1, len(args))

	rows, err := repository.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	coffees := []model.CoffeeResponse{}
	for rows.Next() {
		var brewCount int
		coffee, err := scanCoffeeResponse(rows, &brewCount)
		if err != nil {
			return nil, 0, err
		}
		coffee.UserBrewCount = &brewCount
		coffees = append(coffees, coffee)
	}

	return coffees, total, rows.Err()
}

// scanCoffeeResponse scans coffeeSelectColumns followed by extra.
func scanCoffeeResponse(row pgx.Row, extra ...any) (model.CoffeeResponse, error) {
	coffee := model.CoffeeResponse{}
	var roastDate time.Time
	var images []byte
	var avatar []byte

	dest := []any{&coffee.Id, &coffee.Name, &coffee.Roaster, &coffee.Origin, &roastDate, &coffee.ProcessingMethod, &coffee.RoastLevel,
		&coffee.Variety, &coffee.Altitude, &coffee.FlavorNotes, &coffee.Price, &coffee.Barcode, &coffee.IsPublic, &images,
		&coffee.CreateDatetime, &coffee.UpdateDatetime, &coffee.AddedBy.Id, &coffee.AddedBy.Username, &avatar, &coffee.AddedBy.CreateDatetime}

	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return coffee, err
	}

	coffee.RoastDate = roastDate.Format(DateLayout)
	if coffee.FlavorNotes == nil {
		coffee.FlavorNotes = []string{}
	}

	coffee.Images, err = decodeImages(images)
	if err != nil {
		return coffee, err
	}
	coffee.PrimaryImage = media.Primary(coffee.Images)

	coffee.AddedBy.Avatar, err = decodeAvatar(avatar)
	if err != nil {
		return coffee, err
	}

	return coffee, nil
}

// UpdateCoffee writes every editable column. Only the owner's row matches.
func (repository *CoffeeRepository) UpdateCoffee(ctx context.Context, coffee model.Coffee) error {
	query := `UPDATE coffees SET name=$1,roaster=$2,origin=$3,roast_date=$4,processing_method=$5,roast_level=$6,variety=$7,altitude=$8,
			flavor_notes=$9,price=$10,barcode=$11,is_public=$12,update_datetime=$13
			WHERE id=$14 AND added_by=$15`

	tag, err := repository.DB.Exec(ctx, query, coffee.Name, coffee.Roaster, coffee.Origin, coffee.RoastDate, coffee.ProcessingMethod, coffee.RoastLevel,
		coffee.Variety, coffee.Altitude, coffee.FlavorNotes, coffee.Price, coffee.Barcode, coffee.IsPublic, coffee.UpdateDatetime, coffee.Id, coffee.AddedBy)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Resource: "Coffee", Param: "id"}
	}

	return nil
}

// DeleteCoffee removes the coffee unless brews reference it. The row is
// locked first so a brew inserted concurrently either commits before the
// count, or fails its foreign key check after the delete. deleted is false
// when brews still reference the coffee.
func (repository *CoffeeRepository) DeleteCoffee(ctx context.Context, coffeeId uuid.UUID, userId uuid.UUID) (bool, error) {
	tx, err := repository.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, "SELECT id FROM coffees WHERE id=$1 AND added_by=$2 FOR UPDATE", coffeeId, userId).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, &model.NotFoundError{Resource: "Coffee", Param: "id"}
		}
		return false, err
	}

	var brewCount int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM brews WHERE coffee_id=$1", coffeeId).Scan(&brewCount)
	if err != nil {
		return false, err
	}
	if brewCount > 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, "DELETE FROM coffees WHERE id=$1", coffeeId)
	if err != nil {
		return false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, err
	}

	return true, nil
}

// GetBrewStats aggregates the public brews of a coffee.
func (repository *CoffeeRepository) GetBrewStats(ctx context.Context, coffeeId uuid.UUID) (model.BrewStats, error) {
	query := `SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8, COALESCE(ARRAY_AGG(DISTINCT brew_method) FILTER (WHERE brew_method IS NOT NULL), '{}')
			FROM brews WHERE coffee_id=$1 AND is_public`

	stats := model.BrewStats{}
	err := repository.DB.QueryRow(ctx, query, coffeeId).Scan(&stats.TotalBrews, &stats.AverageRating, &stats.BrewMethods)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// GetPopularCoffees ranks public coffees by public brew count. Results are
// cached in redis for PopularCoffeesTTL.
func (repository *CoffeeRepository) GetPopularCoffees(ctx context.Context, limit int) ([]model.PopularCoffee, error) {
	cacheKey := fmt.Sprintf("coffees:popular:%d", limit)

	cached, err := repository.DBCache.Get(ctx, cacheKey).Bytes()
	if err == nil {
		popular := []model.PopularCoffee{}
		if sonic.Unmarshal(cached, &popular) == nil {
			return popular, nil
		}
	} else if err != redis.Nil {
		repository.Log.Warn("failed to read popular coffees cache", zap.Error(err))
	}

	query := fmt.Sprintf(`SELECT %s, S.brew_count, S.average_rating
			FROM (
				SELECT coffee_id, COUNT(*) AS brew_count, AVG(rating)::float8 AS average_rating
				FROM brews WHERE is_public
				GROUP BY coffee_id
			) S
			JOIN coffees C ON C.id = S.coffee_id
			JOIN users U ON U.id = C.added_by
			WHERE C.is_public
			ORDER BY S.brew_count DESC, S.average_rating DESC
			LIMIT $1`, coffeeSelectColumns)

	rows, err := repository.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := []model.PopularCoffee{}
	for rows.Next() {
		entry := model.PopularCoffee{}
		entry.Coffee, err = scanCoffeeResponse(rows, &entry.BrewCount, &entry.AverageRating)
		if err != nil {
			return nil, err
		}

		popular = append(popular, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	encoded, err := sonic.Marshal(popular)
	if err == nil {
		err = repository.DBCache.Set(ctx, cacheKey, encoded, PopularCoffeesTTL).Err()
	}
	if err != nil {
		repository.Log.Warn("failed to cache popular coffees", zap.Error(err))
	}

	return popular, nil
}

var autocompleteColumns = map[string]string{
	"name":    "name",
	"roaster": "roaster",
	"origin":  "origin",
}

// Autocomplete returns up to limit suggestions among coffees visible to
// userId. field "all" matches any of name, roaster and origin.
func (repository *CoffeeRepository) Autocomplete(ctx context.Context, search string, field string, userId uuid.UUID, limit int) ([]model.CoffeeSuggestion, error) {
	var match string
	if column, ok := autocompleteColumns[field]; ok {
		match = column + " ILIKE '%' || $1 || '%'"
	} else {
		field = "all"
		match = "(name ILIKE '%' || $1 || '%' OR roaster ILIKE '%' || $1 || '%' OR origin ILIKE '%' || $1 || '%')"
	}

	query := fmt.Sprintf(`SELECT id,name,roaster,origin FROM coffees
			WHERE %s AND (is_public OR added_by=$2)
			ORDER BY name ASC
			LIMIT $3`, match)

	rows, err := repository.DB.Query(ctx, query, search, userId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []model.CoffeeSuggestion{}
	for rows.Next() {
		suggestion := model.CoffeeSuggestion{}
		err = rows.Scan(&suggestion.Id, &suggestion.Name, &suggestion.Roaster, &suggestion.Origin)
		if err != nil {
			return nil, err
		}

		switch field {
		case "name":
			suggestion.Roaster, suggestion.Origin = "", ""
		case "roaster":
			suggestion.Name, suggestion.Origin = "", ""
		case "origin":
			suggestion.Name, suggestion.Roaster = "", ""
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, rows.Err()
}

func (repository *CoffeeRepository) GetCoffeeStats(ctx context.Context, userId uuid.UUID) (model.CoffeeStatsResponse, error) {
	stats := model.CoffeeStatsResponse{
		RoastLevelDistribution: []model.CountByLabel{},
		OriginDistribution:     []model.CountByLabel{},
	}

	summaryQuery := "SELECT COUNT(*), COALESCE(SUM(price), 0)::float8, COALESCE(AVG(price), 0)::float8 FROM coffees WHERE added_by=$1"
	err := repository.DB.QueryRow(ctx, summaryQuery, userId).Scan(&stats.Summary.TotalCoffees, &stats.Summary.TotalSpent, &stats.Summary.AveragePrice)
	if err != nil {
		return stats, err
	}

	stats.RoastLevelDistribution, err = repository.countBy(ctx, "roast_level", userId, 0)
	if err != nil {
		return stats, err
	}

	stats.OriginDistribution, err = repository.countBy(ctx, "origin", userId, 10)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

func (repository *CoffeeRepository) countBy(ctx context.Context, column string, userId uuid.UUID, limit int) ([]model.CountByLabel, error) {
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM coffees WHERE added_by=$1 GROUP BY %s ORDER BY COUNT(*) DESC, %s ASC", column, column, column)
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
