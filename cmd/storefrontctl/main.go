package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/sessionclient"
)

type options struct {
	baseURL     string
	sessionFile string
	timeout     time.Duration
}

var opt options

type printNotifier struct {
	out, errOut io.Writer
}

func (p printNotifier) Success(msg string) { fmt.Fprintln(p.out, msg) }
func (p printNotifier) Error(msg string)   { fmt.Fprintln(p.errOut, msg) }

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefrontctl",
		Short:        "Drive a storefront customer session from the terminal",
		SilenceUsage: true,
	}

	flag := root.PersistentFlags()
	flag.StringVar(&opt.baseURL, "url", envOr("STOREFRONT_URL", "http://localhost:8080"), "Storefront API origin.")
	flag.StringVar(&opt.sessionFile, "session-file", defaultSessionFile(), "Where the session cookie is kept between runs.")
	flag.DurationVar(&opt.timeout, "timeout", 10*time.Second, "Per-request timeout.")

	root.AddCommand(loginCmd(), whoamiCmd(), logoutCmd())
	return root
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			return withStore(cmd, func(ctx context.Context, s *sessionclient.Store) error {
				if err := s.Login(ctx, email, password); err != nil {
					return err
				}
				printCustomer(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Customer email.")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("STOREFRONT_PASSWORD"), "Customer password.")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, s *sessionclient.Store) error {
				s.Start(ctx)
				printCustomer(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, s *sessionclient.Store) error {
				return s.Logout(ctx)
			})
		},
	}
}

// withStore opens the persisted jar, runs fn and saves the jar afterwards.
func withStore(cmd *cobra.Command, fn func(context.Context, *sessionclient.Store) error) error {
	jar, err := sessionclient.OpenFileJar(opt.baseURL, opt.sessionFile)
	if err != nil {
		return err
	}
	store := sessionclient.New(sessionclient.Options{
		BaseURL:  opt.baseURL,
		HTTP:     sessionclient.NewHTTPClient(opt.timeout, jar),
		Notifier: printNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()},
	})
	if err := fn(cmd.Context(), store); err != nil {
		return err
	}
	return jar.Save()
}

func printCustomer(w io.Writer, s *sessionclient.Store) {
	c := s.Customer()
	if s.Status() != sessionclient.StatusAuthenticated || c == nil {
		fmt.Fprintln(w, "not logged in")
		return
	}
	name := c.DisplayName
	if name == "" {
		name = c.Email
	}
	fmt.Fprintf(w, "%s <%s> (%s)\n", name, c.Email, c.ID)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(dir, "storefront", "session.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
