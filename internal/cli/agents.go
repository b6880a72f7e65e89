package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/registry"
)

// agentsResponse is the JSON shape for the agents listing.
type agentsResponse struct {
	output.TimestampedResponse
	RegistryDir string             `json:"registry_dir"`
	Agents      []*registry.Record `json:"agents"`
	Count       int                `json:"count"`
	Skipped     int                `json:"skipped,omitempty"`
}

func newAgentsCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents in the registry",
		Long: `List every readable record in the agent registry.

Malformed registry files are skipped, never fatal; JSON output carries the
skipped count so scripts can notice.

Examples:
  reinst agents                 # Table of registered agents
  reinst agents --type claude   # Only claude agents
  reinst agents --json          # Machine-readable listing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := openRegistry()
			records, skipped, err := reg.List()
			if err != nil {
				return err
			}
			if typeFilter != "" {
				filtered := records[:0]
				for _, rec := range records {
					if strings.EqualFold(rec.AgentType, typeFilter) {
						filtered = append(filtered, rec)
					}
				}
				records = filtered
			}

			if jsonOutput {
				if records == nil {
					records = []*registry.Record{}
				}
				return output.PrintJSON(agentsResponse{
					TimestampedResponse: output.NewTimestamped(),
					RegistryDir:         reg.Dir(),
					Agents:              records,
					Count:               len(records),
					Skipped:             skipped,
				})
			}

			if len(records) == 0 {
				fmt.Println("No agents registered.")
				fmt.Println("Start one with: synapse claude")
				return nil
			}

			table := output.NewTable(os.Stdout, "AGENT", "TYPE", "PORT", "NAME", "ROLE")
			for _, rec := range records {
				table.AddRow(
					rec.AgentID,
					rec.AgentType,
					strconv.Itoa(rec.Port.Int()),
					rec.Name,
					output.Truncate(rec.Role, 40),
				)
			}
			table.Render()
			if skipped > 0 {
				fmt.Printf("\n%s skipped (unreadable or malformed)\n", output.CountStr(skipped, "entry", "entries"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "Filter by agent type (claude, codex, gemini, ...)")
	return cmd
}
