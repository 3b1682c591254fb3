// Command devtoken prints an access token for a user already stored in the
// database, for local testing without the identity provider.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/config"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/campus-attendance/internal/repository/postgresql"
	"github.com/spf13/pflag"
)

func main() {
	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	envFile := flagSet.String("env-file", ".env", "path to the environment file")
	email := flagSet.String("email", "", "email of the user to issue the token for")
	userID := flagSet.String("user-id", "", "id of the user to issue the token for")
	ttl := flagSet.Duration("ttl", 0, "token lifetime (default JWT_ACCESS_EXPIRATION_TIME)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if err := run(*envFile, *email, *userID, *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(envFile, email, userID string, ttl time.Duration) error {
	if (email == "") == (userID == "") {
		return fmt.Errorf("exactly one of --email or --user-id is required")
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = cfg.JWT.AccessExpiration
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	users := postgresql.NewUserRepository(db)

	var u user.User
	if email != "" {
		u, err = users.GetByEmail(ctx, email)
	} else {
		u, err = users.GetByID(ctx, userID)
	}
	if err != nil {
		return err
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, ttl).GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%s (%s) token expires %s\n", u.Email, u.Role, time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
