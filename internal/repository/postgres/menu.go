package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

var menuColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"ingredients":    "ingredients",
	"is_available":   "is_available",
	"image_url":      "image_url",
	"loyalty_points": "loyalty_points",
}

// MenuRepository implements domain.MenuRepository
type MenuRepository struct {
	db DBTX
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db DBTX) *MenuRepository {
	return &MenuRepository{db: db}
}

// CreateMenuItem inserts a new menu item
func (r *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	ingredients, err := json.Marshal(item.Ingredients)
	if err != nil {
		return fmt.Errorf("repository: failed to encode ingredients: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO menu_items (id, name, price, ingredients, is_available, image_url, loyalty_points)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Name, item.Price, ingredients,
		item.IsAvailable, item.ImageURL, item.LoyaltyPoints,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrRecordExists
		}
		return fmt.Errorf("repository: failed to create menu item %q: %w", item.ID, err)
	}
	return nil
}

// GetAllMenuItems fetches the whole menu collection
func (r *MenuRepository) GetAllMenuItems(ctx context.Context) (map[string]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price, ingredients, is_available, image_url, loyalty_points
		 FROM menu_items`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get menu items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]domain.MenuItem)
	for rows.Next() {
		item := domain.MenuItem{}
		var ingredients []byte

		err := rows.Scan(&item.ID, &item.Name, &item.Price, &ingredients,
			&item.IsAvailable, &item.ImageURL, &item.LoyaltyPoints)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan menu item: %w", err)
		}
		if len(ingredients) > 0 {
			if err := json.Unmarshal(ingredients, &item.Ingredients); err != nil {
				return nil, fmt.Errorf("repository: failed to decode ingredients: %w", err)
			}
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating menu items: %w", err)
	}
	return items, nil
}

// UpdateMenuItemFields applies a partial, column-whitelisted update
func (r *MenuRepository) UpdateMenuItemFields(ctx context.Context, id string, updates map[string]any) error {
	if ingredients, ok := updates["ingredients"]; ok {
		encoded, err := json.Marshal(ingredients)
		if err != nil {
			return fmt.Errorf("repository: failed to encode ingredients: %w", err)
		}
		updates["ingredients"] = encoded
	}

	assignments, args, err := buildAssignments(menuColumns, updates)
	if err != nil {
		return err
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE id = $%d`, assignments, len(args))
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("repository: failed to update menu item %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// DeleteMenuItem removes a menu item
func (r *MenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete menu item %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// SettingsRepository implements domain.SettingsRepository over a key-value
// table
type SettingsRepository struct {
	db DBTX
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings fetches the whole settings document
func (r *SettingsRepository) GetSettings(ctx context.Context) (domain.SiteSettings, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM site_settings`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get settings: %w", err)
	}
	defer rows.Close()

	settings := make(domain.SiteSettings)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("repository: failed to scan setting: %w", err)
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return nil, fmt.Errorf("repository: failed to decode setting %q: %w", key, err)
		}
		settings[key] = decoded
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating settings: %w", err)
	}
	return settings, nil
}

// SetSettings upserts each key in the update
func (r *SettingsRepository) SetSettings(ctx context.Context, updates domain.SiteSettings) error {
	for key, value := range updates {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("repository: failed to encode setting %q: %w", key, err)
		}
		_, err = r.db.Exec(ctx,
			`INSERT INTO site_settings (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, encoded,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to set setting %q: %w", key, err)
		}
	}
	return nil
}
