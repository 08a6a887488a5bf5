package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/auth"
	"github.com/techatlas/atlas/internal/config"
)

// SessionResponse is the response for signup, login and whoami.
type SessionResponse struct {
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func init() {
	// Load .env file if present (for ATLAS_AUTH_ENDPOINT / ATLAS_AUTH_API_KEY)
	_ = godotenv.Load()

	signupCmd.Flags().StringP("email", "e", "", "Account email (required)")
	signupCmd.Flags().StringP("password", "p", "", "Account password (required)")
	signupCmd.Flags().StringP("name", "n", "", "Display name")
	signupCmd.MarkFlagRequired("email")
	signupCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(signupCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email (required)")
	loginCmd.Flags().StringP("password", "p", "", "Account password (required)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// authProvider selects the identity backend: a remote provider when an
// endpoint is configured (ATLAS_AUTH_ENDPOINT or global config), otherwise
// a local bcrypt-backed account store under the state directory.
func authProvider() auth.Provider {
	endpoint := os.Getenv("ATLAS_AUTH_ENDPOINT")
	if endpoint == "" {
		endpoint = config.GetAuthEndpoint()
	}
	if endpoint == "" {
		return auth.NewLocalStore(config.GlobalStateDir())
	}

	apiKey := os.Getenv("ATLAS_AUTH_API_KEY")
	if apiKey == "" {
		apiKey = config.GetAuthAPIKey()
	}
	return auth.NewClient(endpoint, auth.WithAPIKey(apiKey))
}

// mustAuthorize enforces the repository's require_auth setting: mutation
// commands need a valid cached session when it is on.
func mustAuthorize(cfg *config.Config) {
	if !cfg.RequireAuth {
		return
	}
	s, err := auth.CurrentSession(config.GlobalStateDir())
	if err != nil {
		exitWithError(ExitAuthError, "reading session: %v", err)
	}
	if s == nil {
		exitWithError(ExitAuthError, "this repository requires authentication; run 'atlas login'")
	}
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account and start a session.

Uses the remote identity provider when ATLAS_AUTH_ENDPOINT is set (flag,
.env, or global config); otherwise accounts are stored locally.`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

func runSignup(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")

	s, err := authProvider().SignUp(context.Background(), email, password, name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			exitWithError(ExitDataError, "an account with email %q already exists", email)
		}
		exitWithError(ExitError, "signing up: %v", err)
	}

	if err := auth.SaveSession(config.GlobalStateDir(), s); err != nil {
		exitWithError(ExitError, "saving session: %v", err)
	}
	return outputSession("signed_up", s)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and cache a session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	s, err := authProvider().LogIn(context.Background(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			exitWithError(ExitAuthError, "invalid email or password")
		}
		exitWithError(ExitError, "logging in: %v", err)
	}

	if err := auth.SaveSession(config.GlobalStateDir(), s); err != nil {
		exitWithError(ExitError, "saving session: %v", err)
	}
	return outputSession("logged_in", s)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the cached session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.ClearSession(config.GlobalStateDir()); err != nil {
			exitWithError(ExitError, "clearing session: %v", err)
		}
		if humanOutput {
			outputHuman("Logged out\n")
			return nil
		}
		return outputJSON(StatusResponse{Status: "logged_out"})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := auth.CurrentSession(config.GlobalStateDir())
		if err != nil {
			exitWithError(ExitError, "reading session: %v", err)
		}
		if s == nil {
			exitWithError(ExitAuthError, "not logged in")
		}
		return outputSession("logged_in", s)
	},
}

func outputSession(status string, s *auth.Session) error {
	if humanOutput {
		styleGood.Printf("%s", s.Email)
		if s.DisplayName != "" {
			fmt.Printf(" (%s)", s.DisplayName)
		}
		fmt.Printf("\nSession expires %s\n", s.ExpiresAt.Format(time.RFC3339))
		return nil
	}
	return outputJSON(SessionResponse{
		Status:      status,
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		ExpiresAt:   s.ExpiresAt,
	})
}
