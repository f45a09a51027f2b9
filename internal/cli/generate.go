package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/config"
)

func newGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate example files",
		Long: `Generates starter files.

Use "generate config" to create an example config file.`,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate an example config file",
		Long: `Writes an example config. A path ending in .yaml or .yml gets YAML,
anything else JSON.`,
		Example: `  replica generate config --output replica.json
  replica generate config --output replica.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "replica.json"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	configCmd.Flags().StringVar(&output, "output", "replica.json", "output file path")

	cmd.AddCommand(configCmd)
	return cmd
}
