package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"stayhub/internal/auth"
	"stayhub/internal/database"
	"stayhub/internal/models"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		dbPath   = flag.String("db", "./data/stayhub.db", "path to sqlite db")
		name     = flag.String("name", "Administrator", "admin display name")
		email    = flag.String("email", "", "admin email (required)")
		password = flag.String("password", "", "admin password (required)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		return fmt.Errorf("both -email and -password are required")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
		Verified:     true,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return fmt.Errorf("user %s already exists", *email)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("admin account created")
	return nil
}
