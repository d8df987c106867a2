// Command pointctl is a terminal client for the point map API.
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"

	"pointmap/internal/client"
	"pointmap/internal/logging"
	"pointmap/internal/model"
)

const usage = `usage: pointctl [flags] <command> [args]

commands:
  login                 log in and store the session
  logout                forget the stored session
  whoami                show the stored session user
  list                  list visible points
  add -x X -y Y -category C [-description D] [-image URL|FILE]
                        create a point
  clear                 delete every point (admin only)

flags:
`

type app struct {
	sessions *client.SessionCache
	points   *client.PointCache
	store    *client.FileSessionStore
	prompter client.Prompter
	out      io.Writer
}

func main() {
	fs := flag.NewFlagSet("pointctl", flag.ExitOnError)
	server := fs.String("server", getEnv("POINTMAP_URL", "http://localhost:8080"), "API base URL")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	sessionPath := fs.String("session", "", "session file (default: user config dir)")
	logLevel := fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	path := *sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			logging.Fatal().Err(err).Msg("locate session file")
		}
		path = p
	}

	api := client.NewAPI(*server, *timeout)
	store := client.NewFileSessionStore(path)
	prompter := newTerminalPrompter(os.Stdin, os.Stderr)
	a := &app{
		sessions: client.NewSessionCache(api, store, prompter),
		points:   client.NewPointCache(api),
		store:    store,
		prompter: prompter,
		out:      os.Stdout,
	}

	if err := a.run(context.Background(), fs.Arg(0), fs.Args()[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx)
	case "logout":
		if err := a.sessions.Logout(); err != nil {
			return err
		}
		a.points.Reset()
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "whoami":
		s, ok := a.sessions.Current()
		if !ok {
			return errors.New("not logged in")
		}
		role := "user"
		if s.User.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(a.out, "%s (%s)\n", s.User.Username, role)
		return nil
	case "list":
		return a.sessions.Do(ctx, "list points", func(ctx context.Context, s client.Session) error {
			if err := a.points.Reload(ctx, s.Token); err != nil {
				return err
			}
			a.printPoints()
			return nil
		})
	case "add":
		return a.add(ctx, args)
	case "clear":
		return a.sessions.Do(ctx, "clear all points", func(ctx context.Context, s client.Session) error {
			if err := a.points.Clear(ctx, s.Token); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "cleared, %d points visible\n", len(a.points.Points()))
			return nil
		})
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context) error {
	creds, err := a.prompter.PromptCredentials(ctx, "login")
	if err != nil {
		return err
	}
	s, err := a.sessions.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(a.out, "logged in as %s", s.User.Username)
	fmt.Fprintf(a.out, ", session stored in %s\n", a.store.Path())
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	x := fs.Float64("x", 0, "x coordinate (EPSG:3857)")
	y := fs.Float64("y", 0, "y coordinate (EPSG:3857)")
	category := fs.String("category", "", "one of: "+strings.Join(client.Categories, ", "))
	description := fs.String("description", "", "free text")
	image := fs.String("image", "", "image URL or local file; empty for a placeholder")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wizard := client.NewWizard(model.NewCoordinates(*x, *y))
	if err := wizard.SelectCategory(*category); err != nil {
		return err
	}

	img, err := loadImage(*image)
	if err != nil {
		return err
	}
	if err := wizard.EnterDetails(*description, img); err != nil {
		return err
	}

	// The wizard is already filled in; a login prompt in between resumes here.
	return a.sessions.Do(ctx, "create point", func(ctx context.Context, s client.Session) error {
		draft, err := wizard.Confirm()
		if err != nil {
			return err
		}
		id, err := a.points.Create(ctx, s.Token, draft)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(a.out, "created point %d\n", id)
		a.printPoints()
		return nil
	})
}

func (a *app) printPoints() {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tUSER\tX\tY\tTIMESTAMP\tDESCRIPTION")
	for _, p := range a.points.Points() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
			p.ID, p.Name, p.Owner, p.Coordinates.X(), p.Coordinates.Y(), p.Timestamp, p.Description)
	}
	_ = w.Flush()
}

// loadImage returns ref unchanged unless it names a local file, which is
// inlined as a data URI.
func loadImage(ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

type terminalPrompter struct {
	in  *os.File
	out io.Writer
}

func newTerminalPrompter(in *os.File, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: in, out: out}
}

func (p *terminalPrompter) PromptCredentials(_ context.Context, reason string) (client.Credentials, error) {
	color.New(color.FgCyan).Fprintf(p.out, "Log in to %s\n", reason)

	reader := bufio.NewReader(p.in)
	fmt.Fprint(p.out, "Username: ")
	username, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return client.Credentials{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return client.Credentials{}, client.ErrLoginAbandoned
	}

	fmt.Fprint(p.out, "Password: ")
	var password string
	if fd := int(p.in.Fd()); term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return client.Credentials{}, err
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return client.Credentials{}, err
		}
		password = strings.TrimRight(line, "\r\n")
	}

	return client.Credentials{Username: username, Password: password}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
