// Package cli is the terminal front end: it drives a client session and the
// page router from subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"paisable/internal/client/router"
	"paisable/internal/client/session"
)

// DefaultServer is the API base URL used when none is configured.
const DefaultServer = "http://localhost:8080"

const usage = `Usage: paisable [flags] <command> [args]

Commands:
  signup          create an account
  login           sign in
  logout          sign out and forget the stored token
  me              show the signed-in user
  open <path>     resolve a page path against the current session
  routes          list all pages

Flags:
`

// writerNavigator reports navigation on a writer.
type writerNavigator struct{ w io.Writer }

func (n writerNavigator) Navigate(path string) { fmt.Fprintf(n.w, "-> %s\n", path) }

// writerToaster reports notifications on a writer.
type writerToaster struct{ w io.Writer }

func (t writerToaster) Error(msg string) { fmt.Fprintf(t.w, "error: %s\n", msg) }

// DefaultSessionPath returns ~/.paisable/session.env, or a relative path
// when the home directory is unknown.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".paisable", "session.env")
	}
	return filepath.Join(home, ".paisable", "session.env")
}

// Run executes one command and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("paisable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	server := fs.String("server", envOr("PAISABLE_SERVER", DefaultServer), "API base URL")
	sessionPath := fs.String("session", envOr("PAISABLE_SESSION", DefaultSessionPath()), "file that stores the session token")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	s := session.New(*server, session.NewFileTokenStore(*sessionPath),
		writerNavigator{stdout}, writerToaster{stderr})
	reader := bufio.NewReader(stdin)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "signup", "login":
		email, password, err := readCredentials(reader, stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		if cmd == "signup" {
			err = s.Signup(ctx, email, password)
		} else {
			err = s.Login(ctx, email, password)
		}
		if err != nil {
			var serr *session.SignupError
			if errors.As(err, &serr) {
				fmt.Fprintln(stderr, serr.Message)
			}
			return 1
		}
		fmt.Fprintf(stdout, "Signed in as %s\n", s.User().Email)
		return 0

	case "logout":
		s.Logout()
		return 0

	case "me":
		s.Init(ctx)
		u := s.User()
		if u == nil {
			fmt.Fprintln(stderr, "Not signed in")
			return 1
		}
		fmt.Fprintf(stdout, "%s\t%s\n", u.ID, u.Email)
		return 0

	case "open":
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "usage: paisable open <path>")
			return 2
		}
		return open(ctx, s, rest[0], stdout, stderr)

	case "routes":
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tPAGE\tACCESS")
		for _, r := range router.Routes {
			access := "public"
			if r.Protected {
				access = "protected"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, r.Page, access)
		}
		_ = tw.Flush()
		return 0

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

// open resolves a path the way the browser router would.
func open(ctx context.Context, s *session.Session, path string, stdout, stderr io.Writer) int {
	if r, ok := router.Lookup(path); ok && r.Protected {
		s.Init(ctx)
	}

	res := router.Resolve(path, s.State())
	switch res.Outcome {
	case router.Render:
		fmt.Fprintf(stdout, "page: %s\n", res.Route.Page)
		return 0
	case router.Redirect:
		writerNavigator{stdout}.Navigate(res.Location)
		return 0
	case router.NotFound:
		fmt.Fprintf(stderr, "no page at %s\n", path)
		return 1
	default:
		fmt.Fprintln(stdout, "loading")
		return 0
	}
}

func readCredentials(reader *bufio.Reader, stdin io.Reader, w io.Writer) (string, string, error) {
	email, err := promptLine(reader, "Email", w)
	if err != nil {
		return "", "", fmt.Errorf("read email: %w", err)
	}
	password, err := promptPassword(reader, stdin, w)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return email, password, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
