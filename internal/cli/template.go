package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/templates"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect instruction templates",
		Long: `Inspect the default.md instruction template: where it loads from, what
it contains, and which variables it references.`,
	}

	cmd.AddCommand(newTemplatePathCmd())
	cmd.AddCommand(newTemplateShowCmd())
	cmd.AddCommand(newTemplateVarsCmd())
	return cmd
}

// templateCandidate is the JSON shape for one search location.
type templateCandidate struct {
	Path  string `json:"path"`
	State string `json:"state"`
}

func newTemplatePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print which default.md wins and the search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates := templateLoader().Probe()

			winner := ""
			searched := make([]string, 0, len(candidates))
			items := make([]templateCandidate, 0, len(candidates))
			for _, c := range candidates {
				searched = append(searched, c.Path)
				items = append(items, templateCandidate{Path: c.Path, State: c.State.String()})
				if winner == "" && c.State == templates.CandidateOK {
					winner = c.Path
				}
			}

			if jsonOutput {
				return output.PrintJSON(map[string]interface{}{
					"winner":     winner,
					"candidates": items,
				})
			}
			if winner == "" {
				return output.TemplateNotFoundError(searched)
			}

			fmt.Println(winner)
			fmt.Println()
			fmt.Println("Search order:")
			for i, c := range items {
				fmt.Printf("  %d. %s  %s\n", i+1, c.Path, c.State)
			}
			return nil
		},
	}
}

func newTemplateShowCmd() *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the winning template",
		Long: `Print the body of the winning default.md. With --render, substitute the
current agent's variables the way the resolver would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := loadTemplate()
			if err != nil {
				return err
			}

			if render {
				id, err := resolveIdentity()
				if err != nil {
					return identityError(err)
				}
				fmt.Println(tmpl.Render(id.TemplateVars()))
				return nil
			}

			if jsonOutput {
				return output.PrintJSON(tmpl)
			}
			fmt.Println(tmpl.Body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render with the current agent's variables")
	return cmd
}

func newTemplateVarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "List variables the template references",
		Long: `List every placeholder and conditional name the winning template
references, marking which ones the resolver recognizes. Unrecognized
placeholders are left as-is in the output; unrecognized conditionals are
removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := loadTemplate()
			if err != nil {
				return err
			}

			names := templates.ExtractVariables(tmpl.Body)
			sort.Strings(names)

			recognized := make(map[string]bool)
			for k := range (identity.Identity{}).TemplateVars() {
				recognized[k] = true
			}
			defaults := make(map[string]string)
			for _, v := range tmpl.Variables {
				defaults[v.Name] = v.Default
			}

			type varInfo struct {
				Name       string `json:"name"`
				Recognized bool   `json:"recognized"`
				Default    string `json:"default,omitempty"`
			}
			infos := make([]varInfo, 0, len(names))
			for _, name := range names {
				infos = append(infos, varInfo{
					Name:       name,
					Recognized: recognized[name],
					Default:    defaults[name],
				})
			}

			if jsonOutput {
				return output.PrintJSON(map[string]interface{}{
					"path":      tmpl.Path,
					"variables": infos,
				})
			}

			if len(infos) == 0 {
				fmt.Printf("%s references no variables\n", tmpl.Path)
				return nil
			}
			fmt.Printf("Variables in %s:\n", tmpl.Path)
			for _, v := range infos {
				mark := "unknown"
				if v.Recognized {
					mark = "recognized"
				}
				if v.Default != "" {
					fmt.Printf("  %-14s %s (default: %s)\n", v.Name, mark, v.Default)
				} else {
					fmt.Printf("  %-14s %s\n", v.Name, mark)
				}
			}
			return nil
		},
	}
}

// loadTemplate loads the winning template, mapping a miss to the CLI error.
func loadTemplate() (*templates.Template, error) {
	tmpl, err := templateLoader().Load()
	if err != nil {
		var notFound *templates.TemplateNotFoundError
		if errors.As(err, &notFound) {
			return nil, output.TemplateNotFoundError(notFound.Searched).
				WithHint(output.HintTemplatePath)
		}
		return nil, err
	}
	return tmpl, nil
}
