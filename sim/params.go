package sim

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// SimulationParams configures the Monte-Carlo loop.
type SimulationParams struct {
	SNRMin      float64 `validate:"-"`               // Eb/N0 of the first point (dB)
	SNRMax      float64 `validate:"gtefield=SNRMin"` // Eb/N0 of the last point (dB)
	SNRStep     float64 `validate:"gt=0"`            // Eb/N0 increment (dB)
	FrameErrors int     `validate:"gte=1"`           // frame errors to collect before moving to the next point
	MaxFrames   int     `validate:"gte=0"`           // frame cap per point (0 = unlimited)
	Seed        int64   `validate:"-"`               // master seed
	NFrames     int     `validate:"gte=1"`           // frames per decode call
	Threads     int     `validate:"gte=0"`           // frame-parallel workers (0 = GOMAXPROCS)
	OutputPath  string  `validate:"omitempty"`       // result file (write only)
	Family      string  `validate:"required"`        // code family name
}

// CodeParams describes one code block.
type CodeParams struct {
	K    int `validate:"gte=1"`      // information bits per frame
	N    int `validate:"gtefield=K"` // codeword size
	Tail int `validate:"gte=0"`      // trellis termination bits, included in N
}

// EncoderParams configures the encoder.
type EncoderParams struct {
	Polys           []int  `validate:"omitempty,len=2,dive,gt=0"` // octal generator polynomials {feedback, feedforward}
	Terminated      bool   // trellis termination
	Repetition      int    `validate:"gte=0"`                            // repetition factor (repetition family)
	InterleaverType string `validate:"omitempty,oneof=random none file"` // turbo interleaver kind
	InterleaverPath string `validate:"required_if=InterleaverType file"` // interleaver file (read only)
}

// ModulatorParams configures the modulator.
type ModulatorParams struct {
	Type          string `validate:"oneof=BPSK"`
	BitsPerSymbol int    `validate:"eq=1"`
}

// ChannelParams configures the channel and the quantizer after it.
type ChannelParams struct {
	Type       string `validate:"oneof=AWGN NO"`
	QuantBits  int    `validate:"gte=2,lte=32"`            // total bits of a fixed-point soft value
	QuantPoint int    `validate:"gte=0,ltfield=QuantBits"` // fractional bits of a fixed-point soft value
}

// DecoderParams configures the decoder.
type DecoderParams struct {
	Iterations    int     `validate:"gte=1"`      // turbo iterations
	ScalingFactor float64 `validate:"gt=0,lte=1"` // extrinsic scaling between constituents
	Implem        string  `validate:"oneof=MAX"`  // BCJR metric (max-log)
}

// paramsValidate is shared by every ParamsBuilder.Build call.
var paramsValidate = newParamsValidator()

func newParamsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(CodeParams)
		if c.K+c.Tail > c.N {
			sl.ReportError(c.Tail, "Tail", "Tail", "ktail", "")
		}
	}, CodeParams{})
	return v
}

// ParamsBuilder accumulates the six bundles during the store phase. Nothing
// reads them until Build has validated the whole aggregate.
type ParamsBuilder struct {
	Simulation SimulationParams
	Code       CodeParams
	Encoder    EncoderParams
	Modulator  ModulatorParams
	Channel    ChannelParams
	Decoder    DecoderParams
}

// Build validates every bundle and returns the immutable aggregate.
func (b *ParamsBuilder) Build() (*Params, error) {
	bundles := []struct {
		name string
		v    any
	}{
		{"simulation", b.Simulation},
		{"code", b.Code},
		{"encoder", b.Encoder},
		{"modulator", b.Modulator},
		{"channel", b.Channel},
		{"decoder", b.Decoder},
	}
	for _, bundle := range bundles {
		if err := paramsValidate.Struct(bundle.v); err != nil {
			return nil, fmt.Errorf("invalid %s parameters: %w", bundle.name, err)
		}
	}
	enc := b.Encoder
	enc.Polys = slices.Clone(enc.Polys)
	return &Params{
		simulation: b.Simulation,
		code:       b.Code,
		encoder:    enc,
		modulator:  b.Modulator,
		channel:    b.Channel,
		decoder:    b.Decoder,
	}, nil
}

// Params is the validated configuration aggregate. Accessors return copies.
type Params struct {
	simulation SimulationParams
	code       CodeParams
	encoder    EncoderParams
	modulator  ModulatorParams
	channel    ChannelParams
	decoder    DecoderParams
}

func (p *Params) Simulation() SimulationParams { return p.simulation }
func (p *Params) Code() CodeParams             { return p.code }
func (p *Params) Modulator() ModulatorParams   { return p.modulator }
func (p *Params) Channel() ChannelParams       { return p.channel }
func (p *Params) Decoder() DecoderParams       { return p.decoder }

func (p *Params) Encoder() EncoderParams {
	enc := p.encoder
	enc.Polys = slices.Clone(enc.Polys)
	return enc
}

// CodeRate returns K/N.
func (p *Params) CodeRate() float64 {
	return float64(p.code.K) / float64(p.code.N)
}
