package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/apiclient"
	"github.com/hasanbasri/attendance-management/internal/auth"
	"github.com/hasanbasri/attendance-management/internal/session"
	"github.com/hasanbasri/attendance-management/pkg/logger"
	"github.com/spf13/cobra"
)

// tokensKey is where the CLI keeps its token pair, next to the session
// snapshot in the same storage directory.
const tokensKey = "auth_tokens"

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Session client commands",
	Long:  `Log in and out of an attendance server and inspect the locally stored session.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the locally cached session snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWhoami()
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read permissions from the server into the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefresh()
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the local session and report when it expires",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

var (
	loginUsername string
	loginPassword string
)

type clientEnv struct {
	cfg     *internal.Config
	store   *session.Store
	storage session.Storage
	api     *apiclient.Client
}

func newClientEnv() (*clientEnv, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		// the client can run without a config file next to it
		cfg = internal.LoadConfigFromEnv()
	}

	dir := cfg.Session.StorePath
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".attendance")
	}

	storage, err := session.NewFileStorage(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open session storage: %w", err)
	}

	log := logger.LoggerWrapper()
	return &clientEnv{
		cfg:     cfg,
		store:   session.NewStore(storage, log),
		storage: storage,
		api:     apiclient.NewClient(cfg.Session.APIBaseURL, 15*time.Second, log),
	}, nil
}

func (e *clientEnv) saveTokens(tokens auth.AuthTokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return e.storage.Set(tokensKey, data)
}

func (e *clientEnv) loadTokens() (auth.AuthTokens, bool) {
	var tokens auth.AuthTokens
	data, err := e.storage.Get(tokensKey)
	if err != nil {
		return tokens, false
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return tokens, false
	}
	return tokens, tokens.AccessToken != ""
}

func runLogin() error {
	env, err := newClientEnv()
	if err != nil {
		return err
	}

	username := loginUsername
	if username == "" {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(line)
	}

	password := loginPassword
	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, tokens, err := env.api.Login(ctx, username, password)
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			return fmt.Errorf("invalid username or password")
		case auth.ErrUpstreamUnavailable:
			return fmt.Errorf("server unreachable, try again")
		default:
			return err
		}
	}

	if err := env.store.StartSession(snap); err != nil {
		return fmt.Errorf("login succeeded but session could not be saved: %w", err)
	}
	if err := env.saveTokens(tokens); err != nil {
		return fmt.Errorf("login succeeded but tokens could not be saved: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", snap.Username, snap.FullName)
	return nil
}

func runLogout() error {
	env, err := newClientEnv()
	if err != nil {
		return err
	}

	if tokens, ok := env.loadTokens(); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// advisory only, the local session is cleared regardless
		if err := env.api.Logout(ctx, tokens.AccessToken); err != nil {
			fmt.Fprintf(os.Stderr, "server logout failed: %v\n", err)
		}
	}

	env.store.ClearSession()
	if err := env.storage.Delete(tokensKey); err != nil {
		fmt.Fprintf(os.Stderr, "failed to remove stored tokens: %v\n", err)
	}

	fmt.Println("Logged out")
	return nil
}

func runWhoami() error {
	env, err := newClientEnv()
	if err != nil {
		return err
	}

	snap := env.store.CurrentUser()
	if snap == nil {
		fmt.Println("Not logged in")
		return nil
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runRefresh() error {
	env, err := newClientEnv()
	if err != nil {
		return err
	}

	tokens, ok := env.loadTokens()
	if !ok {
		return fmt.Errorf("not logged in")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := env.api.RefreshPermissions(ctx, tokens.AccessToken)
	if err != nil {
		switch err {
		case auth.ErrSessionInvalidated:
			env.store.ClearSession()
			_ = env.storage.Delete(tokensKey)
			return fmt.Errorf("session is no longer valid, cleared local session")
		case auth.ErrUpstreamUnavailable:
			return fmt.Errorf("server unreachable, local session kept as-is")
		default:
			return err
		}
	}

	if err := env.store.StartSession(snap); err != nil {
		return fmt.Errorf("refreshed but session could not be saved: %w", err)
	}

	fmt.Printf("Permissions refreshed for %s\n", snap.Username)
	return nil
}

func runWatch() error {
	env, err := newClientEnv()
	if err != nil {
		return err
	}

	log := logger.LoggerWrapper()
	supervisor := session.NewSupervisor(env.store, env.cfg.Session.PollInterval, log)
	supervisor.OnSessionExpired(func() {
		fmt.Println("Session expired, log in again")
	})
	supervisor.Start()
	defer supervisor.Stop()

	fmt.Println("Watching session. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	return nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	clientCmd.AddCommand(loginCmd)
	clientCmd.AddCommand(logoutCmd)
	clientCmd.AddCommand(whoamiCmd)
	clientCmd.AddCommand(refreshCmd)
	clientCmd.AddCommand(watchCmd)

	rootCmd.AddCommand(clientCmd)
}
