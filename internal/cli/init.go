package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/scaffold"
)

// initResponse is the JSON shape for the scaffold report.
type initResponse struct {
	Dir     string            `json:"dir"`
	DryRun  bool              `json:"dry_run,omitempty"`
	Actions []scaffold.Action `json:"actions"`
}

func newInitCmd() *cobra.Command {
	var (
		dryRun bool
		force  bool
		user   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a .synapse/default.md starter template",
		Long: `Create the .synapse directory with a starter default.md in the current
directory, or under your home directory with --user.

The starter demonstrates every placeholder and a role conditional. Existing
files are skipped unless --force is given; re-running is always safe.

Examples:
  reinst init             # ./.synapse/default.md
  reinst init --user      # ~/.synapse/default.md
  reinst init --dry-run   # Show what would be written`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			var err error
			if user {
				dir, err = os.UserHomeDir()
			} else {
				dir, err = os.Getwd()
			}
			if err != nil {
				return err
			}

			actions, err := scaffold.Plan(dir, force)
			if err != nil {
				return err
			}

			if dryRun {
				if jsonOutput {
					return output.PrintJSON(initResponse{Dir: dir, DryRun: true, Actions: actions})
				}
				scaffold.Describe(actions, os.Stdout)
				return nil
			}

			if err := scaffold.Apply(actions); err != nil {
				return err
			}
			if jsonOutput {
				return output.PrintJSON(initResponse{Dir: dir, Actions: actions})
			}
			for _, a := range actions {
				switch a.Kind {
				case scaffold.CreateDir, scaffold.CreateFile:
					output.SuccessCheck("Created " + a.Path)
				case scaffold.Overwrite:
					output.SuccessCheck("Overwrote " + a.Path)
				case scaffold.Skip:
					fmt.Printf("Skipped %s (exists; use --force to overwrite)\n", a.Path)
				}
			}
			output.SuccessFooter(output.InitSuggestions()...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print intended actions without writing anything")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing default.md")
	cmd.Flags().BoolVar(&user, "user", false, "Scaffold ~/.synapse instead of ./.synapse")
	return cmd
}
