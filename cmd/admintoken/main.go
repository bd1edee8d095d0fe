// Command admintoken prints a bearer token that may create events on an API started
// with the same ADMIN_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
)

func main() {
	subject := flag.String("sub", "organizer", "token subject recorded in request logs")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	logger := config.NewLogger()
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		logger.Error("ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.NewJWTIssuer(secret).Issue(*subject, []string{auth.RoleOrganizer}, *ttl)
	if err != nil {
		logger.Error("issuing token failed", "err", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
