package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/flatten"
	"github.com/treetab/treetab/sources"
)

// newFlattenCmd creates the flatten command. It reads documents from
// local files and rectangles them into one flat table per file.
func newFlattenCmd() *cobra.Command {
	opts := outputOpts{format: "table"}
	var path string

	cmd := &cobra.Command{
		Use:   "flatten <file>...",
		Short: "Rectangle documents from json, ndjson or yaml files",
		Long: `Rectangle documents from local files into flat tables.

Each file becomes one table: records widen into columns and sequences
lengthen into rows until no nesting is left.

Examples:
  treetab flatten users.json
  treetab flatten --format csv --naming inner logs.ndjson
  treetab flatten --path results.items response.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runFlatten(c.Context(), &opts, path, args)
		},
	}

	opts.install(cmd)
	cmd.Flags().StringVarP(&path, "path", "p", "", "dot path selecting a subtree of every document")

	return cmd
}

func runFlatten(ctx context.Context, opts *outputOpts, path string, files []string) error {
	logger := loggerFromContext(ctx)

	formatter, err := opts.formatter()
	if err != nil {
		return err
	}
	flattenOpts, err := opts.flattenOpts()
	if err != nil {
		return err
	}

	prog := newProgress(logger)

	// rectangle the files concurrently, render in argument order
	outputs := make([][]byte, len(files))

	group, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		group.Go(func() error {
			out, err := flattenFile(gctx, file, path, flattenOpts, formatter)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			logger.Debugf("flattened %s", file)
			outputs[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
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

	for _, rendered := range outputs {
		if _, err := out.Write(rendered); err != nil {
			return fmt.Errorf("out.Write: %w", err)
		}
		fmt.Fprintln(out)
	}

	prog.done(fmt.Sprintf("Flattened %d file(s)", len(files)))

	return nil
}

func flattenFile(ctx context.Context, file, path string, opts *flatten.Opts, formatter core.Formatter) ([]byte, error) {
	source, err := new(sources.Mux).GetSource("file")
	if err != nil {
		return nil, err
	}

	driver, err := source.Connect(file)
	if err != nil {
		return nil, err
	}
	defer driver.Close()

	stream, err := driver.Query(ctx, path)
	if err != nil {
		return nil, err
	}

	table, err := core.FromStream(stream)
	if err != nil {
		return nil, err
	}

	flat, err := flatten.Flatten(table, opts)
	if err != nil {
		return nil, err
	}

	return flat.Format(formatter, 0, -1)
}
