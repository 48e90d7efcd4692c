// Package storage persists the meal log in SQLite
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// SQLiteMealStore implements domain.MealRepository on a local SQLite file
type SQLiteMealStore struct {
	db *sql.DB
}

// NewSQLiteMealStore opens (or creates) the database and ensures the schema
func NewSQLiteMealStore(dbPath string) (*SQLiteMealStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteMealStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteMealStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteMealStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        logged_at DATETIME NOT NULL,
        total_calories REAL NOT NULL,
        total_protein REAL NOT NULL,
        total_carbs REAL NOT NULL,
        total_fat REAL NOT NULL,
        total_fiber REAL NOT NULL,
        confidence REAL NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        source TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_id TEXT NOT NULL,
        name TEXT NOT NULL,
        quantity TEXT NOT NULL,
        calories REAL NOT NULL,
        protein_g REAL NOT NULL,
        carbs_g REAL NOT NULL,
        fat_g REAL NOT NULL,
        fiber_g REAL NOT NULL,
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_meals_logged_at ON meals(logged_at);
    CREATE INDEX IF NOT EXISTS idx_foods_meal_id ON foods(meal_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Save writes a meal and its food rows in one transaction
func (s *SQLiteMealStore) Save(ctx context.Context, meal *domain.Meal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	mealQuery := `
        INSERT INTO meals (id, logged_at, total_calories, total_protein, total_carbs,
                           total_fat, total_fiber, confidence, notes, source, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, mealQuery,
		meal.ID, meal.LoggedAt, meal.TotalCalories, meal.TotalProtein, meal.TotalCarbs,
		meal.TotalFat, meal.TotalFiber, meal.Confidence, meal.Notes, meal.Source, meal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	foodQuery := `
        INSERT INTO foods (meal_id, name, quantity, calories, protein_g, carbs_g, fat_g, fiber_g)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, food := range meal.Foods {
		_, err = tx.ExecContext(ctx, foodQuery,
			meal.ID, food.Name, food.Quantity, food.Calories,
			food.ProteinG, food.CarbsG, food.FatG, food.FiberG)
		if err != nil {
			return fmt.Errorf("failed to insert food: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID loads a single meal with its foods
func (s *SQLiteMealStore) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	query := `
        SELECT id, logged_at, total_calories, total_protein, total_carbs,
               total_fat, total_fiber, confidence, notes, source, created_at
        FROM meals WHERE id = ?
    `
	meal := &domain.Meal{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&meal.ID, &meal.LoggedAt, &meal.TotalCalories, &meal.TotalProtein, &meal.TotalCarbs,
		&meal.TotalFat, &meal.TotalFiber, &meal.Confidence, &meal.Notes, &meal.Source, &meal.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrMealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal: %w", err)
	}

	if err := s.loadFoods(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// List returns meals with logged_at in [from, to), newest first.
// A limit <= 0 means no limit.
func (s *SQLiteMealStore) List(ctx context.Context, from, to time.Time, limit int) ([]*domain.Meal, error) {
	query := `
        SELECT id, logged_at, total_calories, total_protein, total_carbs,
               total_fat, total_fiber, confidence, notes, source, created_at
        FROM meals
        WHERE logged_at >= ? AND logged_at < ?
        ORDER BY logged_at DESC
    `
	args := []interface{}{from, to}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []*domain.Meal
	for rows.Next() {
		meal := &domain.Meal{}
		if err := rows.Scan(
			&meal.ID, &meal.LoggedAt, &meal.TotalCalories, &meal.TotalProtein, &meal.TotalCarbs,
			&meal.TotalFat, &meal.TotalFiber, &meal.Confidence, &meal.Notes, &meal.Source, &meal.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	for _, meal := range meals {
		if err := s.loadFoods(ctx, meal); err != nil {
			return nil, err
		}
	}
	return meals, nil
}

// Delete removes a meal and, via cascade, its foods
func (s *SQLiteMealStore) Delete(ctx context.Context, id string) error {
	// Cascade requires foreign_keys pragma; delete foods explicitly instead
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods WHERE meal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete foods: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrMealNotFound
	}

	return tx.Commit()
}

func (s *SQLiteMealStore) loadFoods(ctx context.Context, meal *domain.Meal) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, quantity, calories, protein_g, carbs_g, fat_g, fiber_g
        FROM foods WHERE meal_id = ? ORDER BY id
    `, meal.ID)
	if err != nil {
		return fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var food domain.FoodItem
		if err := rows.Scan(&food.Name, &food.Quantity, &food.Calories,
			&food.ProteinG, &food.CarbsG, &food.FatG, &food.FiberG); err != nil {
			return fmt.Errorf("failed to scan food: %w", err)
		}
		meal.Foods = append(meal.Foods, food)
	}
	return rows.Err()
}
