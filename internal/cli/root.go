package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the treetab CLI and returns an error if any command
// fails.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "treetab",
		Short:        "Treetab rectangles nested documents into flat tables",
		Long:         `Treetab reads trees of records and sequences from files or databases and widens and lengthens them until every value fits a flat table.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("treetab %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")

	root.AddCommand(newFlattenCmd())
	root.AddCommand(newQueryCmd(&configPath))
	root.AddCommand(newLsCmd(&configPath))
	root.AddCommand(newSourcesCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig resolves the config path flag and loads the file.
func loadConfig(configPath string) (*Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return LoadConfig(path)
}
