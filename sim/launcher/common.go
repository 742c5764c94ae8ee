package launcher

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/chain"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Keys of the arguments every family accepts.
var (
	KeySNRMin    = args.NewKey(args.CatSimulation, "snr-min")
	KeySNRMax    = args.NewKey(args.CatSimulation, "snr-max")
	KeySNRStep   = args.NewKey(args.CatSimulation, "snr-step")
	KeyFrameErr  = args.NewKey(args.CatSimulation, "fe")
	KeyMaxFrames = args.NewKey(args.CatSimulation, "max-fra")
	KeySeed      = args.NewKey(args.CatSimulation, "seed")
	KeyInterFra  = args.NewKey(args.CatSimulation, "inter-fra")
	KeyThreads   = args.NewKey(args.CatSimulation, "threads")
	KeyOutput    = args.NewKey(args.CatSimulation, "out")

	KeyInfoBits = args.NewKey(args.CatCode, "info-bits")
	KeyCwSize   = args.NewKey(args.CatCode, "cw-size")

	KeyModType = args.NewKey(args.CatModulator, "type")

	KeyChnType   = args.NewKey(args.CatChannel, "type")
	KeyQuantBits = args.NewKey(args.CatChannel, "qbits")
	KeyQuantPt   = args.NewKey(args.CatChannel, "qpoint")

	KeyDecImplem = args.NewKey(args.CatDecoder, "implem")
)

const (
	defaultSNRStep     = 0.1
	defaultFrameErrors = 100
	defaultInterFra    = 1
)

// quantDefaults holds the fixed-point format of each soft value type as
// {bits, point}. Floating-point types ignore it.
var quantDefaults = map[numeric.Tag][2]int{
	numeric.TagInt8:    {6, 2},
	numeric.TagInt16:   {6, 3},
	numeric.TagInt32:   {16, 4},
	numeric.TagFloat32: {6, 2},
	numeric.TagFloat64: {6, 2},
}

func declareCommon[Q numeric.Quant](d *args.Declarations, env Env) {
	d.Require(KeySNRMin, "minimal Eb/N0 value to simulate (dB)", args.Real())
	d.Require(KeySNRMax, "maximal Eb/N0 value to simulate (dB)", args.Real())
	d.Option(KeySNRStep, fmt.Sprintf("Eb/N0 step between two points (dB, default %v)", defaultSNRStep),
		args.Real(args.Positive[float64]()))
	d.Option(KeyFrameErr, fmt.Sprintf("frame errors to observe before the next point (default %d)", defaultFrameErrors),
		args.Integer(args.Positive[int]()))
	d.Option(KeyMaxFrames, "maximal number of frames per point, 0 for no limit",
		args.Integer(args.NonNegative[int]()))
	d.Option(KeySeed, "seed of the pseudo random generators", args.Integer())
	d.Option(KeyInterFra, "number of frames processed by one decoder call", args.Integer(args.Positive[int]()))
	d.Option(KeyThreads, "frame-parallel decoding goroutines, 0 for one per CPU", args.Integer(args.NonNegative[int]()))
	d.Option(KeyOutput, "YAML file the result of each point is appended to",
		args.NewFileOn(env.FS, args.Write).Clone(args.Extension(".yaml", ".yml")))

	d.Require(KeyInfoBits, "number of information bits per frame (K)", args.Integer(args.Positive[int]()))
	d.Option(KeyCwSize, "codeword size (N), derived from K when omitted", args.Integer(args.Positive[int]()))

	d.Option(KeyModType, "modulation", args.Text(args.Including("BPSK")))

	d.Option(KeyChnType, "channel (NO is noiseless)", args.Text(args.Including(chain.ChannelAWGN, chain.ChannelNone)))
	tag := numeric.TagOf[Q]()
	qName := env.Types.Of(numeric.ParamQ)
	q := quantDefaults[tag]
	if tag.IsFloat() {
		d.Option(KeyQuantBits, fmt.Sprintf("fixed-point bits of a soft value, unused with Q = %s", qName),
			args.Integer(args.Between(2, 32)))
		d.Option(KeyQuantPt, fmt.Sprintf("fixed-point fractional bits, unused with Q = %s", qName),
			args.Integer(args.NonNegative[int]()))
	} else {
		d.Option(KeyQuantBits, fmt.Sprintf("fixed-point bits of a %s soft value (default %d)", qName, q[0]),
			args.Integer(args.Between(2, 32)))
		d.Option(KeyQuantPt, fmt.Sprintf("fractional bits of a %s soft value (default %d)", qName, q[1]),
			args.Integer(args.NonNegative[int]()))
	}

	d.Option(KeyDecImplem, "metric of the trellis decoders", args.Text(args.Including("MAX")))
}

func storeCommon[Q numeric.Quant](v *args.Values, b *sim.ParamsBuilder) {
	snrMin, _ := args.Get[float64](v, KeySNRMin)
	snrMax, _ := args.Get[float64](v, KeySNRMax)
	b.Simulation = sim.SimulationParams{
		SNRMin:      snrMin,
		SNRMax:      snrMax,
		SNRStep:     args.GetOr(v, KeySNRStep, defaultSNRStep),
		FrameErrors: args.GetOr(v, KeyFrameErr, defaultFrameErrors),
		MaxFrames:   args.GetOr(v, KeyMaxFrames, 0),
		Seed:        int64(args.GetOr(v, KeySeed, 0)),
		NFrames:     args.GetOr(v, KeyInterFra, defaultInterFra),
		Threads:     args.GetOr(v, KeyThreads, 0),
		OutputPath:  args.GetOr(v, KeyOutput, ""),
	}

	k, _ := args.Get[int](v, KeyInfoBits)
	b.Code = sim.CodeParams{K: k, N: args.GetOr(v, KeyCwSize, 0)}

	b.Modulator = sim.ModulatorParams{Type: args.GetOr(v, KeyModType, "BPSK"), BitsPerSymbol: 1}

	q := quantDefaults[numeric.TagOf[Q]()]
	b.Channel = sim.ChannelParams{
		Type:       args.GetOr(v, KeyChnType, chain.ChannelAWGN),
		QuantBits:  args.GetOr(v, KeyQuantBits, q[0]),
		QuantPoint: args.GetOr(v, KeyQuantPt, q[1]),
	}

	b.Decoder = sim.DecoderParams{Iterations: 1, ScalingFactor: 1, Implem: args.GetOr(v, KeyDecImplem, "MAX")}
}
