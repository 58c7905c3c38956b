// Command devtoken mints a bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Auth
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "JWT_"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JWT_* settings: %v\n", err)
		os.Exit(1)
	}

	userID := flag.String("user", "demo-user-001", "User id (token subject)")
	email := flag.String("email", "demo@example.com", "User email")
	role := flag.String("role", string(model.RoleCustomer), "customer or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")

	flag.Parse()

	if *role != string(model.RoleCustomer) && *role != string(model.RoleAdmin) {
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", *role)
		os.Exit(1)
	}

	token, err := middleware.NewAuthenticator(&cfg).IssueToken(model.Principal{
		UserID: *userID,
		Email:  *email,
		Role:   model.Role(*role),
	}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error issuing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
