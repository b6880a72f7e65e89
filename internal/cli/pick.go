package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/picker"
)

func newPickCmd() *cobra.Command {
	var identityOnly bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a registered agent and print its instruction",
		Long: `Pick an agent from the registry interactively, then print the
instruction that agent would receive.

With exactly one registered agent the picker is skipped and that agent is
used directly. Requires a terminal; when scripting, combine 'reinst agents
--json' with 'reinst --agent-id ...' instead.

Keys: up/down or j/k to move, 1-9 to jump, enter to confirm, esc to cancel.

Examples:
  reinst pick               # Choose an agent, print its instruction
  reinst pick --identity    # Print the chosen identity instead`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !IsInteractive(os.Stdout) {
				return output.NotInteractiveError("pick")
			}

			reg := openRegistry()
			records, _, err := reg.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return output.NoAgentsError(reg.Dir())
			}

			rec, err := picker.Run(records)
			if err != nil {
				if errors.Is(err, picker.ErrCancelled) {
					return nil
				}
				return err
			}

			id := identity.FromRecord(rec)
			if identityOnly {
				return output.OutputOrText(jsonOutput, id, func() error {
					printIdentity(id)
					return nil
				})
			}

			res, err := instructionChain(false).Resolve(cmd.Context(), id)
			if err != nil {
				return output.NoInstructionError(id.AgentType)
			}
			return printResolution(id, res)
		},
	}

	cmd.Flags().BoolVar(&identityOnly, "identity", false, "Print the selected identity instead of its instruction")
	return cmd
}
