package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/config"
	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/instruction"
	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/registry"
	"github.com/Dicklesworthstone/reinst/internal/synapse"
	"github.com/Dicklesworthstone/reinst/internal/templates"
	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
)

var (
	cfgFile     string
	cfg         *config.Config
	registryDir string

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// Identity override flags for the root resolver. They inject at the
// environment tier with the same semantics as exporting the variables, so a
// partial override still falls back to the registry scan for the rest.
var (
	flagAgentID   string
	flagAgentType string
	flagPort      string
	noProvider    bool
)

var rootCmd = &cobra.Command{
	Use:   "reinst",
	Short: "Print the A2A instruction for the current synapse agent",
	Long: `reinst resolves which synapse agent the current shell belongs to and
prints that agent's A2A instruction document to stdout.

Identity comes from SYNAPSE_AGENT_ID, SYNAPSE_AGENT_TYPE, and SYNAPSE_PORT
when the runtime exported them, otherwise from the agent registry by parent
pid. The instruction text comes from the synapse settings provider when it is
installed, else from the nearest .synapse/default.md template, else from a
builtin default.

Quick Start:
  reinst                       # Print the instruction for this shell's agent
  reinst > prompt.txt          # Output is plain text; pipe it anywhere
  reinst whoami                # Show the resolved identity only
  reinst pick                  # Choose a registered agent interactively
  reinst init                  # Scaffold .synapse/default.md`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// REINST_OUTPUT_FORMAT=json turns on JSON mode without the flag.
		jsonOutput = output.DetectFormat(jsonOutput) == output.FormatJSON

		loaded, err := config.LoadOrDefault(cfgFile)
		if err == nil {
			err = loaded.Validate()
		}
		if err != nil {
			// config/doctor/version still run so a broken file can be
			// inspected and repaired.
			if toleratesBrokenConfig(cmd) {
				cfg = config.Default()
				theme.SetMode(cfg.Output.Color)
				return nil
			}
			return output.ConfigInvalidError(err.Error())
		}
		cfg = loaded
		theme.SetMode(cfg.Output.Color)
		return nil
	},
	RunE: runResolve,
}

// toleratesBrokenConfig reports whether cmd should run with defaults instead
// of failing when the config file does not load or validate.
func toleratesBrokenConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "doctor", "version", "help", "completion":
			return true
		}
	}
	return false
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, err := resolveIdentity()
	if err != nil {
		return identityError(err)
	}

	res, err := instructionChain(noProvider).Resolve(cmd.Context(), id)
	if err != nil {
		return output.NoInstructionError(id.AgentType)
	}
	return printResolution(id, res)
}

// resolveResponse is the JSON shape for a resolved instruction: the identity
// fields flattened, plus which source tier produced the text.
type resolveResponse struct {
	identity.Identity
	Source      string `json:"source"`
	Instruction string `json:"instruction"`
}

func printResolution(id identity.Identity, res instruction.Result) error {
	if jsonOutput {
		return output.PrintJSON(resolveResponse{Identity: id, Source: res.Source, Instruction: res.Text})
	}
	fmt.Println(res.Text)
	return nil
}

// identityError maps a resolver failure to its CLI error.
func identityError(err error) error {
	var missing *identity.MissingIdentityError
	if errors.As(err, &missing) {
		return output.MissingIdentityError()
	}
	return err
}

// resolveIdentity resolves the current agent, with any identity override
// flags layered over the real environment.
func resolveIdentity() (identity.Identity, error) {
	var env identity.Env = identity.OSEnv{}
	if flagAgentID != "" || flagAgentType != "" || flagPort != "" {
		env = identity.Overlay(env, map[string]string{
			identity.EnvAgentID:   flagAgentID,
			identity.EnvAgentType: flagAgentType,
			identity.EnvPort:      flagPort,
		})
	}
	return identity.NewResolver(env, openRegistry()).Resolve()
}

// resolvedRegistryDir picks the registry directory: the --registry-dir flag,
// then the SYNAPSE_REGISTRY_DIR override, then the configured value, then
// ~/.a2a/registry.
func resolvedRegistryDir() string {
	if registryDir != "" {
		return registryDir
	}
	return registry.ResolveDir(os.Getenv, cfg.RegistryDir)
}

func openRegistry() *registry.Registry {
	return registry.New(resolvedRegistryDir())
}

func templateLoader() *templates.Loader {
	cwd, _ := os.Getwd()
	return templates.NewLoader(templates.SearchDirs(cwd, cfg.TemplateDirs))
}

func synapseClient() *synapse.Client {
	return synapse.NewClient(
		synapse.WithBinaryPath(cfg.Synapse.Binary),
		synapse.WithTimeout(cfg.Synapse.Timeout()),
	)
}

// instructionChain assembles the provider chain for the current config. With
// skipProvider the settings tier is left out entirely.
func instructionChain(skipProvider bool) *instruction.Chain {
	if skipProvider {
		return instruction.NewChain(
			&instruction.TemplateProvider{Loader: templateLoader()},
			instruction.FallbackProvider{},
		)
	}
	return instruction.DefaultChain(synapseClient(), templateLoader())
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set so errors are printed exactly once, in the
		// right channel for the output mode.
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			output.PrintCLIErrorOrJSON(cliErr, jsonOutput)
		} else {
			output.PrintError(err, jsonOutput)
		}
		return err
	}
	return nil
}

// IsJSONOutput returns whether --json was passed.
func IsJSONOutput() bool {
	return jsonOutput
}

// goVersion returns the current Go runtime version.
func goVersion() string {
	return runtime.Version()
}

// goPlatform returns the OS/ARCH string.
func goPlatform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/reinst/config.toml)")

	// Global JSON output flag - applies to all commands
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (machine-readable)")
	rootCmd.PersistentFlags().StringVar(&registryDir, "registry-dir", "", "Agent registry directory (overrides SYNAPSE_REGISTRY_DIR)")

	rootCmd.Flags().StringVar(&flagAgentID, "agent-id", "", "Resolve as this agent id instead of reading SYNAPSE_AGENT_ID")
	rootCmd.Flags().StringVar(&flagAgentType, "agent-type", "", "Resolve as this agent type instead of reading SYNAPSE_AGENT_TYPE")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "A2A port for the instruction (same parsing as SYNAPSE_PORT)")
	rootCmd.Flags().BoolVar(&noProvider, "no-provider", false, "Skip the synapse settings provider (template/builtin only)")

	rootCmd.AddCommand(
		// Identity & registry
		newWhoamiCmd(),
		newAgentsCmd(),
		newPickCmd(),

		// Templates
		newInitCmd(),
		newPreviewCmd(),
		newTemplateCmd(),

		// Diagnostics
		newDoctorCmd(),

		// Configuration
		newConfigCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				response := output.VersionResponse{
					TimestampedResponse: output.NewTimestamped(),
					Version:             Version,
					Commit:              Commit,
					BuiltAt:             Date,
					BuiltBy:             BuiltBy,
					GoVersion:           goVersion(),
					Platform:            goPlatform(),
				}
				return output.PrintJSON(response)
			}

			if short {
				fmt.Println(Version)
				return nil
			}
			fmt.Printf("reinst version %s\n", Version)
			fmt.Printf("  commit:    %s\n", Commit)
			fmt.Printf("  built:     %s\n", Date)
			fmt.Printf("  builder:   %s\n", BuiltBy)
			fmt.Printf("  go:        %s\n", goVersion())
			fmt.Printf("  platform:  %s\n", goPlatform())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
