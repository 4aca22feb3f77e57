// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"coilledger/internal/core/id"
	"coilledger/internal/infrastructure/storage/postgres"
	"coilledger/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@coilledger.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, is_active, is_admin, roles)
		VALUES ($1, $2, $3, 'System Admin', true, true, '{admin}')
	`, userID, adminEmail, string(passwordHash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// Material catalog
	materials := []struct {
		code, description, mtype string
		thickness                float64
	}{
		{"1000", "Bobina LAF 1,50mm", "coil", 1.50},
		{"1001", "Bobina LAF 1,20mm", "coil", 1.20},
		{"2000", "Tira 1,50 x 102mm", "slit", 1.50},
		{"2001", "Tira 1,20 x 87mm", "slit", 1.20},
		{"9000", "Perfil montado 40x40", "finished", 0},
	}
	for _, m := range materials {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO materials (code, description, thickness, type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING
		`, m.code, m.description, m.thickness, m.mtype)
		if err != nil {
			return fmt.Errorf("seed material %s: %w", m.code, err)
		}
	}

	// Two mother coils, one partially cut
	now := time.Now()
	entry := now.AddDate(0, 0, -45)

	motherID := id.New()
	_, err := pool.Pool.Exec(ctx, `
		INSERT INTO mother_lots (
			id, code, width, thickness, material_type, description,
			original_weight, remaining_weight, status, entry_date, nf,
			created_at, updated_at
		)
		VALUES ($1, '1000', 1200, 1.50, 'coil', 'Bobina LAF 1,50mm',
		        9000, 5000, 'stock', $2, 'NF-4512', $3, $3)
	`, motherID, entry, now)
	if err != nil {
		return fmt.Errorf("seed mother lot: %w", err)
	}

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO mother_lots (
			id, code, width, thickness, material_type, description,
			original_weight, remaining_weight, status, entry_date, nf,
			created_at, updated_at
		)
		VALUES ($1, '1001', 1000, 1.20, 'coil', 'Bobina LAF 1,20mm',
		        7500, 7500, 'stock', $2, 'NF-4513', $3, $3)
	`, id.New(), entry.AddDate(0, 0, 10), now)
	if err != nil {
		return fmt.Errorf("seed mother lot: %w", err)
	}

	// One cut off the first coil with two children
	cutDate := now.AddDate(0, 0, -20)
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO cut_records (
			id, mother_code, width, input_weight, scrap, output_count,
			generated_items, date, created_at
		)
		VALUES ($1, '1000', 1200, 4000, 100, 2, '2x Tira 1,50 x 102mm', $2, $2)
	`, id.New(), cutDate)
	if err != nil {
		return fmt.Errorf("seed cut record: %w", err)
	}

	childIDs := []id.ID{id.New(), id.New()}
	for _, childID := range childIDs {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO child_lots (
				id, code, name, width, thickness, weight, initial_weight,
				status, mother_code, created_at, updated_at
			)
			VALUES ($1, '2000', 'Tira 1,50 x 102mm', 102, 1.50, 1950, 1950,
			        'stock', '1000', $2, $2)
		`, childID, cutDate)
		if err != nil {
			return fmt.Errorf("seed child lot: %w", err)
		}
	}

	// One production run consuming the first child
	prodDate := now.AddDate(0, 0, -10)
	_, err = pool.Pool.Exec(ctx, `
		UPDATE child_lots SET status = 'consumed', weight = 0, updated_at = $2
		WHERE id = $1
	`, childIDs[0], prodDate)
	if err != nil {
		return fmt.Errorf("consume child lot: %w", err)
	}

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO production_batches (
			id, product_code, tracking_id, pieces, pack_index, scrap,
			child_ids, date, created_at
		)
		VALUES ($1, '9000', $2, 120, 1, 15, $3, $4, $4)
	`, id.New(), "PROD-"+prodDate.Format("20060102")+"-1",
		[]string{childIDs[0].String()}, prodDate)
	if err != nil {
		return fmt.Errorf("seed production batch: %w", err)
	}

	// One shipment of part of that run
	shipDate := now.AddDate(0, 0, -5)
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO shipment_records (id, product_code, quantity, destination, date, created_at)
		VALUES ($1, '9000', 80, 'Matriz SP', $2, $2)
	`, id.New(), shipDate)
	if err != nil {
		return fmt.Errorf("seed shipment record: %w", err)
	}

	log.Info("demo data seeded")
	return nil
}
