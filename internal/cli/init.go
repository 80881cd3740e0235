package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brigadir/internal/config"
	"github.com/example/brigadir/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the brigadir database",
		Long:  `Initialize the brigadir database at ~/.brigadir/brigadir.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing brigadir database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfigFile(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at .brigadir/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  set bot_token in .brigadir/config.json")
			fmt.Println("  brigadir serve")

			return nil
		},
	}
}

// initConfigFile writes a default config.json unless one already exists.
func initConfigFile() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if _, err := config.LoadConfig(cwd); err == nil {
		return nil // already exists, keep it
	}
	return config.SaveConfig(cwd, &config.Config{
		Version:         "1",
		TickSeconds:     config.DefaultTickSeconds,
		DigestHour:      config.DefaultDigestHour,
		PlanFactHour:    config.DefaultPlanFactHour,
		EveningCutoffHr: config.DefaultEveningCutoffHr,
	})
}
