// Command create-staff creates a staff account, or promotes an existing one,
// so moderators can edit and delete any issue or comment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/voice-local/api-go/config"
	"github.com/voice-local/api-go/logger"
	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/utils"
)

func main() {
	username := flag.String("username", "", "username of the staff account (required)")
	email := flag.String("email", "", "email address")
	password := flag.String("password", os.Getenv("STAFF_PASSWORD"), "password, defaults to $STAFF_PASSWORD")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	l := logger.New(cfg.LogLevel, "text")

	db, err := config.InitDB(cfg.Database, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	user, err := users.GetByUsername(ctx, *username)
	switch {
	case err == nil:
		user.IsStaff = true
		user.IsActive = true
		if *password != "" {
			if err := setPassword(user, *password); err != nil {
				l.Fatal(err)
			}
		}
		if err := users.Update(ctx, user); err != nil {
			l.Fatalf("Failed to promote user: %v", err)
		}
		fmt.Printf("Promoted %s (id %d) to staff\n", user.Username, user.ID)

	case errors.Is(err, repository.ErrNotFound):
		if len(*password) < 8 {
			l.Fatal("a password of at least 8 characters is required for a new account")
		}
		user = &models.User{Username: *username, IsStaff: true, IsActive: true}
		if *email != "" {
			e := strings.ToLower(*email)
			user.Email = &e
		}
		if err := setPassword(user, *password); err != nil {
			l.Fatal(err)
		}
		if err := users.Create(ctx, user); err != nil {
			l.Fatalf("Failed to create staff user: %v", err)
		}
		fmt.Printf("Created staff user %s (id %d)\n", user.Username, user.ID)

	default:
		l.Fatalf("Failed to look up user: %v", err)
	}
}

func setPassword(user *models.User, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = &hash
	return nil
}
