package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/repository"
	"github.com/stonesign/plaque-cms/internal/repository/postgres"
)

type userFlags struct {
	openID      string
	name        string
	email       string
	loginMethod string
	role        string
}

func newUserCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage CMS users",
	}

	var f userFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user, e.g. the first admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := f.user()
			if err != nil {
				return err
			}
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			db, err := postgres.New(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return addUser(cmd.Context(), postgres.NewUserRepo(db), u, cmd.OutOrStdout())
		},
	}
	add.Flags().StringVar(&f.openID, "open-id", "", "identity provider subject")
	add.Flags().StringVar(&f.name, "name", "", "display name")
	add.Flags().StringVar(&f.email, "email", "", "email address")
	add.Flags().StringVar(&f.loginMethod, "login-method", "", "login method label")
	add.Flags().StringVar(&f.role, "role", string(model.RoleUser), "user or admin")
	_ = add.MarkFlagRequired("open-id")

	cmd.AddCommand(add)
	return cmd
}

func (f userFlags) user() (*model.User, error) {
	role := model.Role(f.role)
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q (want user or admin)", f.role)
	}
	return &model.User{
		OpenID:      f.openID,
		Name:        nonEmpty(f.name),
		Email:       nonEmpty(f.email),
		LoginMethod: nonEmpty(f.loginMethod),
		Role:        role,
	}, nil
}

func addUser(ctx context.Context, users repository.UserRepository, u *model.User, w io.Writer) error {
	id, err := users.Create(ctx, u)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "user %d created (%s)\n", id, u.Role)
	return err
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
