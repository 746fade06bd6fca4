package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/format"
	"github.com/treetab/treetab/flatten"
)

// outputOpts holds the flags shared by commands that rectangle and
// render tables.
type outputOpts struct {
	format    string
	naming    string
	separator string
	keepEmpty bool
	output    string
}

func (o *outputOpts) install(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", o.format, "output format (table, csv or json)")
	cmd.Flags().StringVar(&o.naming, "naming", o.naming, "column naming for widened records (prefixed or inner)")
	cmd.Flags().StringVar(&o.separator, "sep", o.separator, "separator between column name and record key")
	cmd.Flags().BoolVar(&o.keepEmpty, "keep-empty", o.keepEmpty, "keep a row for empty sequences instead of dropping it")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
}

func (o *outputOpts) formatter() (core.Formatter, error) {
	switch o.format {
	case "table":
		return format.NewTable(), nil
	case "csv":
		return format.NewCSV(), nil
	case "json":
		return format.NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", o.format)
	}
}

func (o *outputOpts) flattenOpts() (*flatten.Opts, error) {
	opts := &flatten.Opts{
		Separator: o.separator,
		KeepEmpty: o.keepEmpty,
	}

	switch o.naming {
	case "", "prefixed":
		opts.Naming = flatten.NamingPrefixed
	case "inner":
		opts.Naming = flatten.NamingInner
	default:
		return nil, fmt.Errorf("unknown naming mode: %q", o.naming)
	}

	return opts, nil
}
