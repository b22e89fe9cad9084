package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
)

// OpenSQL opens a plain database/sql handle on the lib/pq driver for the
// seed and reset commands, which work below the ORM.
func OpenSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ResetSchema drops every table by recreating the public schema and
// restores the grants for owner and PUBLIC.
func ResetSchema(ctx context.Context, db *sql.DB, owner string) error {
	statements := []string{
		"DROP SCHEMA IF EXISTS public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO " + pq.QuoteIdentifier(owner),
		"GRANT ALL ON SCHEMA public TO public",
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset failed at %q: %w", stmt, err)
		}
	}

	logrus.Info("Schema reset, all tables dropped")
	return nil
}

// SeedCatalog replaces orders and the catalog with the given categories and
// products inside one transaction. Any failure rolls everything back.
func SeedCatalog(ctx context.Context, db *sql.DB, categories []SeedCategory, products []SeedProduct) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"order_items", "orders", "carts", "products", "categories"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+pq.QuoteIdentifier(table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, describePQError(err))
		}
	}

	for _, cat := range categories {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug, icon, description) VALUES ($1, $2, $3, $4, $5)`,
			cat.ID, cat.Name, models.Slugify(cat.Name), cat.Icon, cat.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category %s: %w", cat.ID, describePQError(err))
		}
	}

	for _, p := range products {
		row, convErr := productRow(p)
		if convErr != nil {
			err = convErr
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (
				name, slug, price, original_price, category_id, is_best_seller,
				features, image_color, image, description, stock, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`,
			row...,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Title, describePQError(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"categories": len(categories),
		"products":   len(products),
	}).Info("Catalog seeded")
	return nil
}

func productRow(p SeedProduct) ([]interface{}, error) {
	price, err := money.Parse(p.Price)
	if err != nil {
		return nil, fmt.Errorf("product %q price: %w", p.Title, err)
	}

	var originalPrice sql.NullInt64
	if p.OriginalPrice != "" {
		v, err := money.Parse(p.OriginalPrice)
		if err != nil {
			return nil, fmt.Errorf("product %q original price: %w", p.Title, err)
		}
		originalPrice = sql.NullInt64{Int64: v, Valid: true}
	}

	features, err := json.Marshal(p.Features)
	if err != nil {
		return nil, fmt.Errorf("product %q features: %w", p.Title, err)
	}

	image := p.Image
	if image == "" {
		image = models.DefaultProductImage
	}

	return []interface{}{
		p.Title,
		models.Slugify(p.Title),
		price,
		originalPrice,
		p.Category,
		p.IsBestSeller,
		string(features),
		p.ImageColor,
		image,
		fmt.Sprintf("Get %s now at the best price!", p.Title),
		100,
	}, nil
}

// describePQError adds the Postgres error code and detail, which the plain
// message leaves out.
func describePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (code %s: %s)", err, pqErr.Code, pqErr.Detail)
	}
	return err
}
