package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hbnb/hbnb-api/internal/infrastructure/observability"
	"github.com/hbnb/hbnb-api/pkg/config"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "manage",
		Short:         "HBnB maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			observability.InitLogger("hbnb-manage", cfg.Server.Env, cfg.Server.LogLevel)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	rootCmd.AddCommand(
		migrateCmd(),
		populateCmd(),
		createAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
