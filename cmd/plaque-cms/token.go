package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stonesign/plaque-cms/internal/identity"
	"github.com/stonesign/plaque-cms/internal/repository"
	"github.com/stonesign/plaque-cms/internal/repository/postgres"
)

func newTokenCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}

	var (
		userID int64
		save   bool
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTKey(); err != nil {
				return err
			}
			db, err := postgres.New(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			users := postgres.NewUserRepo(db)
			ident := identity.NewService(users, []byte(cfg.JWTKey), cfg.AccessTTL)
			return issueToken(cmd.Context(), users, ident, userID, save, cmd.OutOrStdout())
		},
	}
	issue.Flags().Int64Var(&userID, "user-id", 0, "user to issue the token for")
	issue.Flags().BoolVar(&save, "save", false, "store the token for later 'call' commands")
	_ = issue.MarkFlagRequired("user-id")

	cmd.AddCommand(issue)
	return cmd
}

type issuer interface {
	Issue(userID int64) (string, time.Time, error)
}

func issueToken(ctx context.Context, users repository.UserRepository, ident issuer, userID int64, save bool, w io.Writer) error {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user %d not found", userID)
	}
	tok, exp, err := ident.Issue(u.ID)
	if err != nil {
		return err
	}
	if save {
		if err := saveToken(tok, exp); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
	}
	_, err = fmt.Fprintf(w, "%s\nexpires %s\n", tok, exp.UTC().Format(time.RFC3339))
	return err
}

// ---- token file ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "plaque-cms")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "plaque-cms")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), b, 0o600)
}

var errNoToken = errors.New("no valid token (run 'token issue --save')")

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errNoToken
	}
	return tf.AccessToken, nil
}
