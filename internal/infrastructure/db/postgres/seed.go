package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// SampleDrinkID is the fixed id of the seeded showcase drink.
const SampleDrinkID int64 = 999

var sampleReviews = []struct {
	rating  int
	content string
}{
	{5, "Amazing latte, very smooth."},
	{4, "Well balanced, a little sweet for me."},
}

// Seed upserts the showcase drink and adds its two sample reviews unless the
// drink already has reviews. Running it twice leaves the same data.
func Seed(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return withTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO drinks (id, name, description, price, category, image_url, ingredients)
			VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				category = EXCLUDED.category,
				image_url = EXCLUDED.image_url,
				ingredients = EXCLUDED.ingredients,
				updated_at = NOW()`,
			SampleDrinkID,
			"Signature Latte",
			"Our flagship latte with rich espresso, silky milk foam and a light caramel note.",
			240.0,
			"coffee",
			"https://images.unsplash.com/photo-1511920170033-f8396924c348",
			`["Espresso","Milk","Caramel syrup"]`,
		)
		if err != nil {
			return fmt.Errorf("upsert sample drink: %w", err)
		}

		// The explicit id bypasses the sequence; move it past the seeded row.
		if _, err := tx.ExecContext(ctx, `
			SELECT setval(pg_get_serial_sequence('drinks', 'id'), GREATEST((SELECT MAX(id) FROM drinks), 1))`); err != nil {
			return fmt.Errorf("advance drinks sequence: %w", err)
		}

		var existing int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM drink_reviews WHERE drink_id = $1`, SampleDrinkID).Scan(&existing); err != nil {
			return fmt.Errorf("count sample reviews: %w", err)
		}
		if existing > 0 {
			log.Info().Int64("drink_id", SampleDrinkID).Int("reviews", existing).Msg("sample reviews already present")
			return nil
		}

		for _, r := range sampleReviews {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO drink_reviews (drink_id, user_id, user_name, legacy_owner, rating, content)
				VALUES ($1, NULL, 'testuser_bot', FALSE, $2, $3)`, SampleDrinkID, r.rating, r.content)
			if err != nil {
				return fmt.Errorf("insert sample review: %w", err)
			}
		}
		log.Info().Int64("drink_id", SampleDrinkID).Int("reviews", len(sampleReviews)).Msg("sample data seeded")
		return nil
	})
}
