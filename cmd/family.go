package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/hostfs"
	"github.com/fec-sim/fec-sim/sim/launcher"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// runFunc launches one family at a fixed precision.
type runFunc func(ctx context.Context, family string, raw map[args.Key]string, out, errOut io.Writer) error

// precisions maps --prec to the B/R/Q instantiation it selects.
var precisions = map[int]runFunc{
	8:  launch[int8, float32, int8],
	16: launch[int16, float32, int16],
	32: launch[int32, float32, float32],
	64: launch[int64, float64, float64],
}

func launch[B numeric.Bit, R numeric.Real, Q numeric.Quant](ctx context.Context, family string, raw map[args.Key]string, out, errOut io.Writer) error {
	fam, err := launcher.NewFamily[B, R, Q](family)
	if err != nil {
		return err
	}
	l := launcher.New[B, R, Q](fam, launcher.WithOutput(out))
	err = l.Launch(ctx, raw)
	var readErr *args.ReadError
	if errors.As(err, &readErr) {
		fmt.Fprintln(errOut, readErr.Error())
		fmt.Fprintln(errOut)
		_ = l.Declarations().Usage(errOut)
	}
	return err
}

// newFamilyCmd binds the declarations of family onto a subcommand. Flags are
// plain strings: pflag only tokenizes, the launcher validates. The key set
// does not depend on the precision, so the float32 declarations serve for
// binding.
func newFamilyCmd(family string, opts *rootOptions) *cobra.Command {
	proto, err := launcher.NewFamily[int32, float32, float32](family)
	if err != nil {
		panic(err)
	}
	decls := launcher.New[int32, float32, float32](proto).Declarations()

	c := &cobra.Command{
		Use:   strings.ToLower(family),
		Short: fmt.Sprintf("Simulate the %s code family", family),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := collectRaw(cmd.Flags(), decls, opts.configPath)
			if err != nil {
				return err
			}
			return precisions[opts.precision](cmd.Context(), family, raw, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	bindFlags(c.Flags(), decls)
	return c
}

func bindFlags(fs *pflag.FlagSet, decls *args.Declarations) {
	for _, d := range decls.All() {
		usage := fmt.Sprintf("<%s> %s", d.Type.Title(), d.Doc)
		if d.Required {
			usage += " (required)"
		}
		fs.String(d.Key.Flag(), "", usage)
		if _, ok := d.Type.(args.Typed[bool]); ok {
			fs.Lookup(d.Key.Flag()).NoOptDefVal = "true"
		}
	}
}

// collectRaw merges the config file values with the flags set on the
// command line, the latter taking precedence.
func collectRaw(fs *pflag.FlagSet, decls *args.Declarations, configPath string) (map[args.Key]string, error) {
	raw := make(map[args.Key]string)
	if configPath != "" {
		fromFile, err := loadConfigFile(hostfs.New(), configPath)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			raw[k] = v
		}
	}
	byFlag := make(map[string]args.Key)
	for _, d := range decls.All() {
		byFlag[d.Key.Flag()] = d.Key
	}
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := byFlag[f.Name]; ok {
			raw[key] = f.Value.String()
		}
	})
	return raw, nil
}
