package config

import (
	"fmt"

	"github.com/bitrpc/bitrpc/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Load and validate a bitrpcd configuration file without starting anything.

Examples:
  bitrpcd config validate
  bitrpcd config validate --config /etc/bitrpc/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	if _, err := config.MustLoad(configPath); err != nil {
		return err
	}

	fmt.Println("configuration is valid")
	return nil
}
