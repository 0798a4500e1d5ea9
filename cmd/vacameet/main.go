// Command vacameet is a terminal client for the Vaca-Meet API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vacameet/vaca-meet-api/internal/cli"
	"github.com/vacameet/vaca-meet-api/internal/client"
	"github.com/vacameet/vaca-meet-api/internal/models"
	"github.com/vacameet/vaca-meet-api/internal/models/dto"
)

const usage = `usage: vacameet [-api url] [-session file] <command> [args]

commands:
  register                     create an account
  login                        log in and store the token
  logout                       forget the stored token
  profile                      show your profile
  profile-update [-first X] [-last Y]
  theme <default|blue|green|minimal>
  password                     change your password
  picture <file>               upload a profile picture
  destinations                 list campings
  unlock <destination-id>      check a vacation password
  camping <destination-id>     show camping info
  activities <camping-id> [-start YYYY-MM-DD -end YYYY-MM-DD]`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	api    *client.Client
	prompt *cli.Prompter
	out    io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("vacameet", flag.ContinueOnError)
	fs.SetOutput(stdout)
	apiURL := fs.String("api", envOr("VACAMEET_API", "http://localhost:8080"), "API base url")
	session := fs.String("session", os.Getenv("VACAMEET_SESSION"), "token file (default in user config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}

	if *session == "" {
		path, err := client.DefaultTokenPath()
		if err != nil {
			return fmt.Errorf("locate session file: %w", err)
		}
		*session = path
	}
	api, err := client.New(*apiURL, client.NewFileTokenStore(*session))
	if err != nil {
		return err
	}
	a := &app{api: api, prompt: cli.NewPrompter(stdin, stdout), out: stdout}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		if err := a.api.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "profile":
		user, err := a.api.Profile(ctx)
		if err != nil {
			return err
		}
		return a.print(user)
	case "profile-update":
		return a.updateProfile(ctx, rest)
	case "theme":
		if len(rest) != 1 {
			return errors.New("usage: vacameet theme <default|blue|green|minimal>")
		}
		user, err := a.api.UpdateTheme(ctx, models.Theme(rest[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "theme set to %s\n", user.Theme)
		return nil
	case "password":
		return a.changePassword(ctx)
	case "picture":
		return a.uploadPicture(ctx, rest)
	case "destinations":
		return a.destinations(ctx)
	case "unlock":
		return a.unlock(ctx, rest)
	case "camping":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		info, err := a.api.CampingInfo(ctx, id)
		if err != nil {
			return err
		}
		return a.print(info)
	case "activities":
		return a.activities(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) register(ctx context.Context) error {
	username, err := a.prompt.Text("Username")
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	first, err := a.prompt.Text("First name (optional)")
	if err != nil {
		return err
	}
	last, err := a.prompt.Text("Last name (optional)")
	if err != nil {
		return err
	}
	user, err := a.api.Register(ctx, dto.RegisterRequest{
		Username:  username,
		Password:  password,
		FirstName: optional(first),
		LastName:  optional(last),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "account %s created, you can now log in\n", user.Username)
	return nil
}

func (a *app) login(ctx context.Context) error {
	username, err := a.prompt.Text("Username")
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", resp.User.Username)
	return nil
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile-update", flag.ContinueOnError)
	fs.SetOutput(a.out)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first":
			req.FirstName = first
		case "last":
			req.LastName = last
		}
	})
	resp, err := a.api.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	return a.print(resp.User)
}

func (a *app) changePassword(ctx context.Context) error {
	current, err := a.prompt.Password("Current password")
	if err != nil {
		return err
	}
	next, err := a.prompt.Password("New password")
	if err != nil {
		return err
	}
	if err := a.api.UpdatePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password updated")
	return nil
}

func (a *app) uploadPicture(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: vacameet picture <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	path, err := a.api.UploadProfilePicture(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "profile picture stored at %s\n", path)
	return nil
}

func (a *app) destinations(ctx context.Context) error {
	list, err := a.api.Destinations(ctx)
	if err != nil {
		return err
	}
	for _, d := range list {
		fmt.Fprintf(a.out, "%d\t%s\n", d.ID, d.Username)
	}
	return nil
}

func (a *app) unlock(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Vacation password")
	if err != nil {
		return err
	}
	ok, err := a.api.VerifyPassword(ctx, id, password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid vacation password")
	}
	fmt.Fprintln(a.out, "vacation password accepted")
	return nil
}

func (a *app) activities(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("activities", flag.ContinueOnError)
	fs.SetOutput(a.out)
	start := fs.String("start", "", "first day (YYYY-MM-DD)")
	end := fs.String("end", "", "last day (YYYY-MM-DD)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	list, err := a.api.Activities(ctx, id, *start, *end)
	if err != nil {
		return err
	}
	for _, act := range list {
		fmt.Fprintf(a.out, "%s %s-%s\t%s\n", act.Day, act.StartTime, act.EndTime, act.Title)
	}
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("an id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
