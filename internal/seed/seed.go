// Package seed provides explicit demo and development data seeding. Nothing
// here runs as a side effect of building the server.
package seed

import (
	"context"
	"fmt"
	"io"

	"studysmarter/internal/config"
	"studysmarter/internal/models"
	"studysmarter/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoUser is a fixed account created by DemoUsers.
type DemoUser struct {
	Username string
	Email    string
	Password string
}

// DemoAccounts are the accounts DemoUsers inserts into an empty user table.
var DemoAccounts = []DemoUser{
	{Username: "David", Email: "david@myemail.com", Password: "1234"},
	{Username: "John", Email: "john@myemail.com", Password: "5678"},
}

// DemoUsers inserts DemoAccounts with bcrypt-hashed passwords, but only when
// the user table is empty. It returns the number of users created.
func DemoUsers(ctx context.Context, db *gorm.DB) (int, error) {
	return demoUsers(ctx, db, bcrypt.DefaultCost)
}

func demoUsers(ctx context.Context, db *gorm.DB, cost int) (int, error) {
	users := repository.NewUserRepository(db)
	created := 0

	err := repository.NewTransactor(db).Transaction(ctx, func(ctx context.Context) error {
		n, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		for _, acct := range DemoAccounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), cost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", acct.Email, err)
			}
			if err := users.Create(ctx, &models.User{
				Username: acct.Username,
				Email:    acct.Email,
				Password: string(hash),
			}); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed demo users: %w", err)
	}
	return created, nil
}

// PrintSecrets writes a fresh application secret and JWT secret to w in
// .env form.
func PrintSecrets(w io.Writer) error {
	secret, err := config.GenerateSecret()
	if err != nil {
		return err
	}
	jwtSecret, err := config.GenerateSecret()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "SECRET_KEY=%s\nJWT_SECRET_KEY=%s\n", secret, jwtSecret)
	return err
}
