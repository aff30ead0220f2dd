// Command make-admin promotes an existing account to the admin role.
//
//	go run ./cmd/make-admin user@example.com
//
// The database path comes from DATABASE_PATH (or .env), same as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/winteradda/storefront/config"
	"github.com/winteradda/storefront/database"
	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
	"github.com/winteradda/storefront/repository"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 || strings.TrimSpace(os.Args[1]) == "" {
		log.Fatal("please provide an email address. usage: make-admin <email>")
	}

	dbCfg := config.LoadDatabase()
	db, err := database.New(dbCfg.Path, database.Migrations())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	user, err := promote(
		context.Background(),
		repository.NewSQLiteUserRepo(db.Conn),
		repository.NewSQLiteSessionRepo(db.Conn),
		os.Args[1],
	)
	if err != nil {
		db.Close()
		log.Fatal(err)
	}

	fmt.Printf("Success! User %s (%s) is now an admin.\n", user.Username, user.Email)
}

// promote sets the admin role on the account registered under email and
// signs the user out everywhere, so the next login returns the new role.
func promote(ctx context.Context, users repository.UserRepository, sessions repository.SessionRepository, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	if err := users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to promote %s: %w", email, err)
	}
	user.Role = models.RoleAdmin

	if err := sessions.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("promoted %s but failed to revoke sessions: %w", email, err)
	}
	return user, nil
}
