package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/config"
	"github.com/Dicklesworthstone/reinst/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.PrintJSON(map[string]string{"path": path})
			}
			output.SuccessCheck("Created config file: " + path)
			output.SuccessFooter(output.ConfigInitSuggestions()...)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after defaults, the config file, and
environment overrides are applied. Output is TOML, or JSON with --json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return output.ConfigInvalidError(err.Error())
			}

			if jsonOutput {
				dirs := effective.TemplateDirs
				if dirs == nil {
					dirs = []string{}
				}
				return output.PrintJSON(map[string]interface{}{
					"registry_dir":  effective.RegistryDir,
					"template_dirs": dirs,
					"synapse": map[string]interface{}{
						"binary":          effective.Synapse.Binary,
						"timeout_seconds": effective.Synapse.TimeoutSeconds,
					},
					"output": map[string]string{
						"color": effective.Output.Color,
					},
				})
			}
			return config.Print(effective, os.Stdout)
		},
	})

	return cmd
}
