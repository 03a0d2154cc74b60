// Package cmd wires the roleflow command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roleflow/roleflow/internal/observability"
	"github.com/roleflow/roleflow/internal/store"
)

var (
	rootDir string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "roleflow",
	Short: "Manage role templates and drive a runner CLI with rendered prompts",
	Long: `roleflow stores named role templates as small JSON/YAML files and runs an
external command-line tool with a prompt rendered from a template, optionally
on a repeating cadence.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	// Bind flags to viper; the root flag also honors ROLEFLOW_ROOT.
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindEnv("root", "ROLEFLOW_ROOT")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initLogging() {
	observability.InitCLILogger("roleflow", viper.GetBool("verbose"))
}

// openStore resolves the project root and requires an initialized layout.
func openStore() (*store.Store, error) {
	s, err := openStoreAnyState()
	if err != nil {
		return nil, err
	}
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	return s, nil
}

// openStoreAnyState resolves the project root without the initialized check;
// only `init` uses it directly.
func openStoreAnyState() (*store.Store, error) {
	root, err := store.ResolveRoot(viper.GetString("root"))
	if err != nil {
		return nil, err
	}
	return store.New(root), nil
}
