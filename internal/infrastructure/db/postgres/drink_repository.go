package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

const selectDrink = `
	SELECT d.id, d.name, d.description, d.price, d.category, d.image_url, d.ingredients,
		d.created_at, d.updated_at,
		COALESCE(ROUND(AVG(r.rating)::numeric, 2), 0),
		COUNT(r.id)
	FROM drinks d
	LEFT JOIN drink_reviews r ON r.drink_id = d.id`

type DrinkRepository struct {
	db *sql.DB
}

func NewDrinkRepository(db *sql.DB) *DrinkRepository {
	return &DrinkRepository{db: db}
}

func scanDrink(r rowScanner) (*domain.Drink, error) {
	var (
		d                               domain.Drink
		description, category, imageURL sql.NullString
		price, rating                   sql.NullFloat64
		ingredients                     []byte
	)
	err := r.Scan(&d.ID, &d.Name, &description, &price, &category, &imageURL, &ingredients,
		&d.CreatedAt, &d.UpdatedAt, &rating, &d.ReviewsCount)
	if err != nil {
		return nil, err
	}
	d.Description = nullString(description)
	d.Category = nullString(category)
	d.ImageURL = nullString(imageURL)
	d.Price = nullFloat(price)
	d.Rating = nullFloat(rating)

	d.Ingredients = []string{}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &d.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients: %w", err)
		}
	}
	return &d, nil
}

func encodeIngredients(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(b), nil
}

// List returns the menu newest first with aggregated ratings.
func (r *DrinkRepository) List(ctx context.Context) ([]domain.Drink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectDrink+` GROUP BY d.id ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Drink, 0)
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drink: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DrinkRepository) Get(ctx context.Context, id int64) (*domain.Drink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d, err := scanDrink(r.db.QueryRowContext(ctx, selectDrink+` WHERE d.id = $1 GROUP BY d.id`, id))
	if err != nil {
		return nil, translate(err, "select drink", domain.ErrDrinkNotFound)
	}
	return d, nil
}

func (r *DrinkRepository) Create(ctx context.Context, d *domain.Drink) (*domain.Drink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ingredients, err := encodeIngredients(d.Ingredients)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO drinks (name, description, price, category, image_url, ingredients)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING id, created_at, updated_at`,
		d.Name, d.Description, d.Price, d.Category, d.ImageURL, ingredients).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert drink: %w", err)
	}
	if d.Ingredients == nil {
		d.Ingredients = []string{}
	}
	return d, nil
}

// Update applies the non-nil fields of patch and returns the refreshed drink.
func (r *DrinkRepository) Update(ctx context.Context, id int64, p domain.DrinkPatch) (*domain.Drink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ingredients *string
	if p.Ingredients != nil {
		enc, err := encodeIngredients(*p.Ingredients)
		if err != nil {
			return nil, err
		}
		ingredients = &enc
	}

	n, err := execCount(ctx, r.db, `
		UPDATE drinks SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			category = COALESCE($5, category),
			image_url = COALESCE($6, image_url),
			ingredients = COALESCE($7::jsonb, ingredients),
			updated_at = NOW()
		WHERE id = $1`, id, p.Name, p.Description, p.Price, p.Category, p.ImageURL, ingredients)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrDrinkNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the drink and its reviews in one transaction.
func (r *DrinkRepository) Delete(ctx context.Context, id int64) (domain.CascadeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out domain.CascadeResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if out.Reviews, err = execCount(ctx, tx, `DELETE FROM drink_reviews WHERE drink_id = $1`, id); err != nil {
			return err
		}
		n, err := execCount(ctx, tx, `DELETE FROM drinks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrDrinkNotFound
		}
		return nil
	})
	if err != nil {
		return domain.CascadeResult{}, err
	}
	return out, nil
}

func scanReview(r rowScanner) (*domain.Review, error) {
	var (
		rv              domain.Review
		userID, comment sql.NullString
	)
	if err := r.Scan(&rv.ID, &rv.DrinkID, &userID, &rv.UserName, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	rv.UserID = nullString(userID)
	rv.Comment = nullString(comment)
	return &rv, nil
}

// Reviews returns the drink's reviews newest first.
func (r *DrinkRepository) Reviews(ctx context.Context, drinkID int64) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, drink_id, user_id, user_name, rating, content, created_at
		FROM drink_reviews
		WHERE drink_id = $1
		ORDER BY created_at DESC`, drinkID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

// AddReview inserts the review and returns it with the drink's new aggregate.
func (r *DrinkRepository) AddReview(ctx context.Context, rv *domain.Review) (*domain.ReviewSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := &domain.ReviewSummary{Review: rv}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO drink_reviews (drink_id, user_id, user_name, rating, content)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			rv.DrinkID, rv.UserID, rv.UserName, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrDrinkNotFound
			}
			return fmt.Errorf("insert review: %w", err)
		}

		var rating sql.NullFloat64
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0), COUNT(*)
			FROM drink_reviews WHERE drink_id = $1`, rv.DrinkID).Scan(&rating, &out.ReviewsCount)
		if err != nil {
			return fmt.Errorf("aggregate reviews: %w", err)
		}
		out.Rating = nullFloat(rating)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindReview returns the review only when it belongs to drinkID.
func (r *DrinkRepository) FindReview(ctx context.Context, drinkID, reviewID int64) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		rv              domain.Review
		userID, comment sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, drink_id, user_id, user_name, legacy_owner, rating, content, created_at
		FROM drink_reviews WHERE id = $1 AND drink_id = $2`, reviewID, drinkID).
		Scan(&rv.ID, &rv.DrinkID, &userID, &rv.UserName, &rv.LegacyOwner, &rv.Rating, &comment, &rv.CreatedAt)
	if err != nil {
		return nil, translate(err, "select review", domain.ErrReviewNotFound)
	}
	rv.UserID = nullString(userID)
	rv.Comment = nullString(comment)
	return &rv, nil
}

func (r *DrinkRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := execCount(ctx, r.db, `DELETE FROM drink_reviews WHERE id = $1`, reviewID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
