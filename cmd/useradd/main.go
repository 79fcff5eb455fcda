// Command useradd provisions an account. The API has no registration
// endpoint — accounts are created from the machine that holds the database:
//
//	useradd -db data/codebin.db -username admin -password password123
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository/sqlite"
)

func main() {
	dbPath := flag.String("db", "data/codebin.db", "path to the SQLite database")
	username := flag.String("username", "", "username for the new account")
	password := flag.String("password", "", "password for the new account")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "useradd: -username and -password are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*dbPath, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, username, password string) error {
	hash, err := auth.NewPasswordService().Hash(password)
	if err != nil {
		return err
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	user := &model.User{Username: username, PasswordHash: hash}
	if err := db.CreateUser(context.Background(), user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return fmt.Errorf("username %q is already taken", username)
		}
		return err
	}

	fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
	return nil
}
