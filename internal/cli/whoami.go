package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/output"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show which agent this shell resolves to",
		Long: `Show the resolved agent identity without producing an instruction.

Resolution follows the same order as the root command: environment variables
first, then a registry scan by parent pid.

Examples:
  reinst whoami           # Key/value summary
  reinst whoami --json    # Identity as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveIdentity()
			if err != nil {
				return identityError(err)
			}
			return output.OutputOrText(jsonOutput, id, func() error {
				printIdentity(id)
				return nil
			})
		},
	}
}

func printIdentity(id identity.Identity) {
	f := output.New()
	f.Textln("%-12s%s", "agent id:", id.AgentID)
	f.Textln("%-12s%s", "agent type:", id.AgentType)
	f.Textln("%-12s%d", "port:", id.Port)
	if id.Name != "" {
		f.Textln("%-12s%s", "name:", id.Name)
	}
	if id.Role != "" {
		f.Textln("%-12s%s", "role:", id.Role)
	}
}
