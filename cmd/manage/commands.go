package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hbnb/hbnb-api/internal/adapters/database"
	"github.com/hbnb/hbnb-api/internal/app"
	"github.com/hbnb/hbnb-api/internal/application/services"
	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	"github.com/hbnb/hbnb-api/internal/infrastructure/auth"
	"github.com/hbnb/hbnb-api/pkg/config"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// withBackend opens the configured repository, runs fn and closes it again
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, backend *app.Backend) error) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	if cfg.Repository.Type == "memory" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: REPOSITORY_TYPE=memory, changes are lost when the command exits")
	}

	backend, err := app.OpenBackend(cfg, nil)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(cmd.Context(), backend)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, backend *app.Backend) error {
				if backend.SQL == nil {
					return errors.New("migrate requires REPOSITORY_TYPE=database")
				}
				if err := database.Migrate(ctx, backend.SQL); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}
}

func populateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Seed the bootstrap countries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, backend *app.Backend) error {
				return populate(ctx, backend.Repo, cmd.OutOrStdout())
			})
		},
	}
}

func createAdminCmd() *cobra.Command {
	var input services.UserInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with administration rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, backend *app.Backend) error {
				if err := backend.Reload(ctx); err != nil {
					return err
				}
				user, err := createAdmin(ctx, backend.Repo, auth.NewBcryptHasher(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "HBnB", "last name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

// populate prepares the store and lists the countries it now holds
func populate(ctx context.Context, repo repositories.Repository, out io.Writer) error {
	if err := repo.Reload(ctx); err != nil {
		return err
	}
	countries, err := repositories.All[*entities.Country](ctx, repo, entities.KindCountry)
	if err != nil {
		return err
	}
	for _, c := range countries {
		fmt.Fprintf(out, "%s\t%s\n", c.Code, c.Name)
	}
	return nil
}

func createAdmin(ctx context.Context, repo repositories.Repository, hasher services.PasswordHasher, input services.UserInput) (*entities.User, error) {
	input.IsAdmin = true
	return services.NewUserService(repo, hasher).Create(ctx, input)
}
