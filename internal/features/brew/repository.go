package brew

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haruware/mars-bot/internal/common"
)

// Repository reads recipes and settles brews.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Recipes returns every recipe with its ingredients.
func (r *Repository) Recipes(ctx context.Context) ([]Recipe, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name, r.description, r.output_item, r.output_qty, i.item_name, i.qty
		FROM recipes r
		JOIN recipe_ingredients i ON i.recipe_name = r.name
		ORDER BY r.name, i.item_name`)
	if err != nil {
		return nil, fmt.Errorf("recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	index := make(map[string]int)
	for rows.Next() {
		var name, description, outputItem, ingredient string
		var outputQty, qty int64
		if err := rows.Scan(&name, &description, &outputItem, &outputQty, &ingredient, &qty); err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		pos, ok := index[name]
		if !ok {
			pos = len(recipes)
			index[name] = pos
			recipes = append(recipes, Recipe{
				Name: name, Description: description,
				OutputItem: outputItem, OutputQty: outputQty,
			})
		}
		recipes[pos].Ingredients = append(recipes[pos].Ingredients,
			Ingredient{ItemName: ingredient, Qty: qty})
	}
	return recipes, rows.Err()
}

// RecipeByName resolves one recipe case-insensitively.
func (r *Repository) RecipeByName(ctx context.Context, name string) (*Recipe, error) {
	var recipe Recipe
	err := r.pool.QueryRow(ctx, `
		SELECT name, description, output_item, output_qty
		FROM recipes WHERE LOWER(name) = LOWER($1)`,
		name).Scan(&recipe.Name, &recipe.Description, &recipe.OutputItem, &recipe.OutputQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUnknownRecipe
		}
		return nil, fmt.Errorf("recipe by name: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT item_name, qty FROM recipe_ingredients
		WHERE recipe_name = $1 ORDER BY item_name`,
		recipe.Name)
	if err != nil {
		return nil, fmt.Errorf("recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ItemName, &ing.Qty); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}
	return &recipe, rows.Err()
}

// Brew consumes the ingredients and grants the output in one transaction.
// The inventory rows are locked first; if anything is short, a ShortfallError
// lists all the gaps and the transaction rolls back with nothing consumed.
func (r *Repository) Brew(ctx context.Context, userID, guildID string, recipe *Recipe) (*Result, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	names := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		names[i] = ing.ItemName
	}

	rows, err := tx.Query(ctx, `
		SELECT item_name, amount FROM inventory
		WHERE user_id = $1 AND guild_id = $2 AND item_name = ANY($3)
		FOR UPDATE`,
		userID, guildID, names)
	if err != nil {
		return nil, fmt.Errorf("lock ingredients: %w", err)
	}
	held := make(map[string]int64)
	for rows.Next() {
		var name string
		var amount int64
		if err := rows.Scan(&name, &amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan held ingredient: %w", err)
		}
		held[name] = amount
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock ingredients: %w", err)
	}

	var missing []Ingredient
	for _, ing := range recipe.Ingredients {
		if gap := ing.Qty - held[ing.ItemName]; gap > 0 {
			missing = append(missing, Ingredient{ItemName: ing.ItemName, Qty: gap})
		}
	}
	if len(missing) > 0 {
		return nil, &ShortfallError{Recipe: recipe.Name, Missing: missing}
	}

	for _, ing := range recipe.Ingredients {
		if _, err := tx.Exec(ctx, `
			UPDATE inventory SET amount = amount - $4
			WHERE user_id = $1 AND guild_id = $2 AND item_name = $3`,
			userID, guildID, ing.ItemName, ing.Qty); err != nil {
			return nil, fmt.Errorf("consume %s: %w", ing.ItemName, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory (user_id, guild_id, item_name, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, item_name)
		DO UPDATE SET amount = inventory.amount + EXCLUDED.amount`,
		userID, guildID, recipe.OutputItem, recipe.OutputQty); err != nil {
		return nil, fmt.Errorf("grant output: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, 'brew', 0, $3, $4)`,
		userID, guildID, recipe.OutputItem,
		fmt.Sprintf("brewed %s", recipe.Name)); err != nil {
		return nil, fmt.Errorf("log brew: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &Result{Recipe: recipe.Name, OutputItem: recipe.OutputItem, OutputQty: recipe.OutputQty}, nil
}
