package launcher

import (
	"fmt"
	"io"
	"strings"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/args"
)

// Header is the parameter summary printed before a run, one section per
// category.
type Header struct {
	sections []headerSection
}

type headerSection struct {
	title string
	lines [][2]string
}

// Add appends a line to the section of cat, creating it if needed.
func (h *Header) Add(cat args.Category, name, value string) {
	for i := range h.sections {
		if h.sections[i].title == cat.Title() {
			h.sections[i].lines = append(h.sections[i].lines, [2]string{name, value})
			return
		}
	}
	h.sections = append(h.sections, headerSection{title: cat.Title(), lines: [][2]string{{name, value}}})
}

// WriteTo renders the header.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString("# " + strings.Repeat("-", 50) + "\n")
	sb.WriteString("# Parameters:\n")
	for _, s := range h.sections {
		fmt.Fprintf(&sb, "# * %s %s\n", s.title, strings.Repeat("-", max(1, 46-len(s.title))))
		for _, l := range s.lines {
			fmt.Fprintf(&sb, "#    ** %-26s = %s\n", l[0], l[1])
		}
	}
	sb.WriteString("#\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func newHeader(p *sim.Params, types TypeNames) *Header {
	h := &Header{}
	s := p.Simulation()
	h.Add(args.CatSimulation, "Type", "BFER")
	h.Add(args.CatSimulation, "Precision (B/R/Q)", types.String())
	h.Add(args.CatSimulation, "SNR min (Eb/N0)", fmt.Sprintf("%.2f dB", s.SNRMin))
	h.Add(args.CatSimulation, "SNR max (Eb/N0)", fmt.Sprintf("%.2f dB", s.SNRMax))
	h.Add(args.CatSimulation, "SNR step", fmt.Sprintf("%.2f dB", s.SNRStep))
	h.Add(args.CatSimulation, "Frame errors", fmt.Sprint(s.FrameErrors))
	if s.MaxFrames > 0 {
		h.Add(args.CatSimulation, "Max frames", fmt.Sprint(s.MaxFrames))
	}
	h.Add(args.CatSimulation, "Inter frame", fmt.Sprint(s.NFrames))
	h.Add(args.CatSimulation, "Seed", fmt.Sprint(s.Seed))
	if s.OutputPath != "" {
		h.Add(args.CatSimulation, "Output", s.OutputPath)
	}

	c := p.Code()
	h.Add(args.CatCode, "Family", s.Family)
	h.Add(args.CatCode, "Info. bits (K)", fmt.Sprint(c.K))
	h.Add(args.CatCode, "Codeword size (N)", fmt.Sprint(c.N))
	h.Add(args.CatCode, "Code rate", fmt.Sprintf("%.4f", p.CodeRate()))
	h.Add(args.CatCode, "Tail length", fmt.Sprint(c.Tail))

	h.Add(args.CatModulator, "Type", p.Modulator().Type)

	ch := p.Channel()
	h.Add(args.CatChannel, "Type", ch.Type)
	h.Add(args.CatChannel, "Quantizer (bits, point)", fmt.Sprintf("%d, %d", ch.QuantBits, ch.QuantPoint))
	return h
}
