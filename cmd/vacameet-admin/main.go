// Command vacameet-admin maintains mobile users and destinations directly in
// the database.
//
//	vacameet-admin [-db url] create-mobile-user
//	vacameet-admin [-db url] create-destination -name "Les Pins"
//	vacameet-admin [-db url] hash-vacation-passwords
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vacameet/vaca-meet-api/internal/auth"
	"github.com/vacameet/vaca-meet-api/internal/cli"
	"github.com/vacameet/vaca-meet-api/internal/logging"
	"github.com/vacameet/vaca-meet-api/internal/service"
	"github.com/vacameet/vaca-meet-api/internal/storage/backend"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("vacameet-admin", flag.ContinueOnError)
	fs.SetOutput(stdout)
	dbURL := fs.String("db", os.Getenv("DATABASE_URL"), "database url")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: vacameet-admin [-db url] create-mobile-user | create-destination -name NAME | hash-vacation-passwords")
	}
	if *dbURL == "" {
		return errors.New("DATABASE_URL or -db is required")
	}

	store, err := backend.Open(ctx, *dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	logger := logging.New(os.Stderr, *logLevel, "text")
	hasher := auth.NewPasswordHasher(0)
	prompt := cli.NewPrompter(stdin, stdout)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "create-mobile-user":
		svc := service.NewAuthService(store, hasher, nil, logger)
		return createMobileUser(ctx, svc, prompt, stdout)
	case "create-destination":
		svc := service.NewCampingService(store, hasher, "", logger)
		return createDestination(ctx, svc, rest, prompt, stdout)
	case "hash-vacation-passwords":
		svc := service.NewCampingService(store, hasher, "", logger)
		n, err := svc.HashLegacyVacationPasswords(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d vacation password(s) hashed\n", n)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func createMobileUser(ctx context.Context, svc *service.AuthService, prompt *cli.Prompter, out io.Writer) error {
	username, err := prompt.Text("Username")
	if err != nil {
		return err
	}
	password, err := prompt.Password("Password")
	if err != nil {
		return err
	}
	confirm, err := prompt.Password("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	first, err := prompt.Text("First name (optional)")
	if err != nil {
		return err
	}
	last, err := prompt.Text("Last name (optional)")
	if err != nil {
		return err
	}

	user, err := svc.Register(ctx, service.RegisterInput{
		Username:  username,
		Password:  password,
		FirstName: optional(first),
		LastName:  optional(last),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "mobile user %q created with id %d\n", user.Username, user.ID)
	return nil
}

func createDestination(ctx context.Context, svc *service.CampingService, args []string, prompt *cli.Prompter, out io.Writer) error {
	fs := flag.NewFlagSet("create-destination", flag.ContinueOnError)
	fs.SetOutput(out)
	name := fs.String("name", "", "display name of the camping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := prompt.Password("Vacation password")
	if err != nil {
		return err
	}
	dest, err := svc.CreateDestination(ctx, *name, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "destination %q created with id %d\n", dest.Username, dest.ID)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
