// Package launcher drives one simulation run: it declares the accepted
// arguments, validates raw input against them, stores the values into the
// parameter aggregate, prints the run header, builds the simulation of a
// code family and launches it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/hostfs"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// ErrAlreadyLaunched is returned by a second call to Launch.
var ErrAlreadyLaunched = errors.New("launcher: already launched")

// TypeNames are the display names of the three precision parameters of a
// launcher instantiation.
type TypeNames struct {
	B, R, Q string
}

func (t TypeNames) String() string { return t.B + "/" + t.R + "/" + t.Q }

// Of returns the display name of parameter p.
func (t TypeNames) Of(p numeric.Param) string {
	switch p {
	case numeric.ParamB:
		return t.B
	case numeric.ParamR:
		return t.R
	case numeric.ParamQ:
		return t.Q
	}
	panic(fmt.Sprintf("launcher: unknown type parameter %s", p))
}

// Family is the code-family specific part of a launcher. BuildArgs runs
// after the common declarations and may add, replace or remove any of them.
// StoreArgs runs after the common values are stored. BuildSimu is called
// exactly once per launch, with validated parameters.
type Family[B numeric.Bit, R numeric.Real, Q numeric.Quant] interface {
	Name() string
	BuildArgs(d *args.Declarations, env Env)
	StoreArgs(v *args.Values, b *sim.ParamsBuilder) error
	BuildSimu(p *sim.Params, env Env) (sim.Simulation, error)
}

// HeaderPrinter is implemented by families that add lines to the header.
type HeaderPrinter interface {
	AppendHeader(h *Header, p *sim.Params)
}

// Env is what a launcher shares with its family.
type Env struct {
	FS    billy.Filesystem
	Types TypeNames
}

// Option configures a Launcher.
type Option func(*config)

type config struct {
	out io.Writer
	fs  billy.Filesystem
}

// WithOutput sets where the header is written. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithFilesystem sets the filesystem file arguments are checked against and
// results are written to. Defaults to the host filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(c *config) { c.fs = fs }
}

// Launcher runs one simulation of family at precision (B, R, Q). It is
// single use.
type Launcher[B numeric.Bit, R numeric.Real, Q numeric.Quant] struct {
	family   Family[B, R, Q]
	decls    *args.Declarations
	cfg      config
	env      Env
	launched bool
}

// New declares the common arguments and those of family.
func New[B numeric.Bit, R numeric.Real, Q numeric.Quant](family Family[B, R, Q], opts ...Option) *Launcher[B, R, Q] {
	cfg := config{out: io.Discard, fs: hostfs.New()}
	for _, opt := range opts {
		opt(&cfg)
	}
	l := &Launcher[B, R, Q]{
		family: family,
		decls:  args.NewDeclarations(),
		cfg:    cfg,
		env: Env{
			FS: cfg.fs,
			Types: TypeNames{
				B: numeric.NameOf[B](),
				R: numeric.NameOf[R](),
				Q: numeric.NameOf[Q](),
			},
		},
	}
	declareCommon[Q](l.decls, l.env)
	family.BuildArgs(l.decls, l.env)
	return l
}

// Declarations returns the accepted arguments.
func (l *Launcher[B, R, Q]) Declarations() *args.Declarations { return l.decls }

// TypeNames returns the precision type names.
func (l *Launcher[B, R, Q]) TypeNames() TypeNames { return l.env.Types }

// Launch validates raw, builds the simulation and runs it. A validation
// failure returns an error wrapping *args.ReadError and builds nothing.
func (l *Launcher[B, R, Q]) Launch(ctx context.Context, raw map[args.Key]string) error {
	if l.launched {
		return ErrAlreadyLaunched
	}
	l.launched = true

	logrus.Debugf("%s: reading %d argument(s)", l.family.Name(), len(raw))
	vals, err := l.decls.Read(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid arguments:\n%w", l.family.Name(), err)
	}

	logrus.Debugf("%s: storing parameters", l.family.Name())
	b := &sim.ParamsBuilder{}
	storeCommon[Q](vals, b)
	b.Simulation.Family = l.family.Name()
	if err := l.family.StoreArgs(vals, b); err != nil {
		return fmt.Errorf("%s: %w", l.family.Name(), err)
	}
	params, err := b.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", l.family.Name(), err)
	}

	h := newHeader(params, l.env.Types)
	if hp, ok := l.family.(HeaderPrinter); ok {
		hp.AppendHeader(h, params)
	}
	if _, err := h.WriteTo(l.cfg.out); err != nil {
		return fmt.Errorf("%s: writing header: %w", l.family.Name(), err)
	}

	logrus.Debugf("%s: building simulation", l.family.Name())
	simu, err := l.family.BuildSimu(params, l.env)
	if err != nil {
		return fmt.Errorf("%s: building simulation: %w", l.family.Name(), err)
	}

	logrus.Debugf("%s: launching", l.family.Name())
	return simu.Run(ctx)
}
