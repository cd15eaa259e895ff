// Command createuser adds an ADMIN, STAFF or CUSTOMER account to the
// MongoDB store.
//
//	createuser -email ana@example.com -name "Ana" -role ADMIN
//
// The password is read from -password or, when omitted, from stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
	"github.com/ecolimpio/booking-system/internal/core/service"
	"github.com/ecolimpio/booking-system/internal/infrastructure/config"
	mongostore "github.com/ecolimpio/booking-system/internal/infrastructure/db/mongo"
	"github.com/ecolimpio/booking-system/pkg/logger"
)

func main() {
	email := flag.String("email", "", "account email")
	name := flag.String("name", "", "display name")
	phone := flag.String("phone", "", "optional Spanish mobile number")
	roleName := flag.String("role", string(domain.RoleAdmin), "ADMIN, STAFF or CUSTOMER")
	password := flag.String("password", "", "password; read from stdin when empty")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	if err := run(*email, *name, *phone, *roleName, *password); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, m := range ve.Messages {
				fmt.Fprintln(os.Stderr, "  -", m)
			}
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(email, name, phone, roleName, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.BackendMongo {
		return fmt.Errorf("STORE_BACKEND=%s keeps no data between runs; set STORE_BACKEND=mongo", cfg.StoreBackend)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "createuser"})

	role, err := domain.ParseRole(roleName)
	if err != nil {
		return fmt.Errorf("role %q: %w", roleName, err)
	}
	if phone != "" {
		if phone, err = domain.NormalizePhone(phone); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = readPassword(); err != nil {
			return err
		}
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// Account creation touches neither sessions nor lockout counters.
	auth := service.NewAuthService(mongostore.NewUserRepository(db), nil,
		service.NewBcryptHasher(bcrypt.DefaultCost), nil, log)

	user, err := auth.CreateUser(ctx, ports.CreateUserInput{
		Email:    email,
		Password: password,
		Name:     name,
		Phone:    phone,
		Role:     role,
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", string(user.Role)).Msg("user created")
	return nil
}

func readPassword() (string, error) {
	fmt.Fprintln(os.Stderr, "Password (8+ characters with upper case, lower case and a digit):")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
