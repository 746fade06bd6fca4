package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/flatten"
	"github.com/treetab/treetab/sources"
)

// newQueryCmd creates the query command. It runs a query against a
// configured connection and rectangles the result.
func newQueryCmd(configPath *string) *cobra.Command {
	opts := outputOpts{format: "table"}
	var raw bool

	cmd := &cobra.Command{
		Use:   "query <connection> <query>",
		Short: "Run a query against a configured connection and rectangle the result",
		Long: `Run a query against a connection from the config file.

The result is rectangled before rendering: document columns widen and
lengthen until the table is flat. Use --raw to render the result as the
source returned it.

Examples:
  treetab query dev 'select id, payload from events'
  treetab query docs '{"find": "users"}'
  treetab query cache 'HGETALL session:1'`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runQuery(c.Context(), &opts, *configPath, raw, args[0], args[1])
		},
	}

	opts.install(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "skip rectangling, render the result as returned")

	return cmd
}

func runQuery(ctx context.Context, opts *outputOpts, configPath string, raw bool, connName, query string) error {
	logger := loggerFromContext(ctx)

	formatter, err := opts.formatter()
	if err != nil {
		return err
	}
	flattenOpts, err := opts.flattenOpts()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	params, err := cfg.Connection(connName)
	if err != nil {
		return err
	}

	conn, err := sources.NewConnection(params)
	if err != nil {
		return err
	}
	defer conn.Close()

	prog := newProgress(logger)

	call := conn.Execute(query, func(state core.CallState, c *core.Call) {
		logger.Debugf("call %s: %s", c.GetID(), state)
	})

	select {
	case <-call.Done():
	case <-ctx.Done():
		call.Cancel()
		<-call.Done()
	}
	if err := call.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	result := call.GetResult()
	prog.done(fmt.Sprintf("Retrieved %d row(s)", result.Len()))

	var rendered []byte
	if raw {
		rendered, err = result.Format(formatter, 0, -1)
		if err != nil {
			return err
		}
	} else {
		table, err := result.Table()
		if err != nil {
			return err
		}
		flat, err := flatten.Flatten(table, flattenOpts)
		if err != nil {
			return err
		}
		rendered, err = flat.Format(formatter, 0, -1)
		if err != nil {
			return err
		}
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("os.Create: %w", err)
		}
		defer f.Close()
		out = f
	}

	if _, err := out.Write(rendered); err != nil {
		return fmt.Errorf("out.Write: %w", err)
	}
	fmt.Fprintln(out)

	return nil
}
