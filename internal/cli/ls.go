package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/sources"
)

// newLsCmd creates the ls command, showing the structure of a
// configured connection.
func newLsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <connection>",
		Short: "Show the structure of a configured connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			params, err := cfg.Connection(args[0])
			if err != nil {
				return err
			}

			conn, err := sources.NewConnection(params)
			if err != nil {
				return err
			}
			defer conn.Close()

			if current, _, err := conn.ListDatabases(); err == nil {
				logger.Debugf("current database: %s", current)
			}

			structure, err := conn.GetStructure()
			if err != nil {
				return err
			}

			printStructure(os.Stdout, structure, 0)
			return nil
		},
	}
}

func printStructure(out *os.File, structure []*core.Structure, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range structure {
		if s.Type == core.StructureTypeNone {
			fmt.Fprintf(out, "%s%s\n", indent, s.Name)
		} else {
			fmt.Fprintf(out, "%s%s (%s)\n", indent, s.Name, s.Type)
		}
		printStructure(out, s.Children, depth+1)
	}
}

// newSourcesCmd creates the sources command, listing registered source
// types.
func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the registered source types",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			for _, typ := range sources.Types() {
				fmt.Println(typ)
			}
			return nil
		},
	}
}
