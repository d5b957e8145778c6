package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/creative-rift/arkultur-backend/config"
	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/pkg/hashing"
)

// Seeds the first admin account so a fresh deployment can log in.
// Does nothing if an admin already exists.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	var admins int
	if err := db.QueryRow(`SELECT count(*) FROM accounts WHERE role = $1`, entity.RoleAdmin).Scan(&admins); err != nil {
		log.Fatalf("failed to count admins: %v", err)
	}
	if admins > 0 {
		fmt.Println("an admin account already exists; nothing to do")
		return
	}

	email := getenv("SEED_ADMIN_EMAIL", "sheev.palpatine@naboo.net")
	username := getenv("SEED_ADMIN_USERNAME", "sheev")
	password := getenv("SEED_ADMIN_PASSWORD", "")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	hash, err := hashing.New(hashing.DefaultParams()).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("failed to begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRow(`
		INSERT INTO accounts (email, username, first_name, last_name, role, password_hash, disabled)
		VALUES (lower($1), $2, 'Sheev', 'Palpatine', $3, $4, false)
		RETURNING id
	`, email, username, entity.RoleAdmin, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if _, err := tx.Exec(`INSERT INTO profiles (account_id, kind) VALUES ($1, $2)`, id, entity.RoleAdmin); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit: %v", err)
	}

	fmt.Printf("seeded admin: id=%s email=%s username=%s\n", id, email, username)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
