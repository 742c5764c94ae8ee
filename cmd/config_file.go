package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/fec-sim/fec-sim/sim/args"
)

// ConfigFile is the --config document: one mapping of option names to
// values per category, e.g.
//
//	sim:
//	  snr-min: 0
//	  snr-max: 2
//	code:
//	  info-bits: 64
//	enc:
//	  poly: [13, 15]
//
// Sections may be omitted; an unknown section or a non-mapping value is
// rejected by strict decoding.
type ConfigFile struct {
	Simulation map[string]configValue `yaml:"sim"`
	Code       map[string]configValue `yaml:"code"`
	Encoder    map[string]configValue `yaml:"enc"`
	Modulator  map[string]configValue `yaml:"mod"`
	Channel    map[string]configValue `yaml:"chn"`
	Decoder    map[string]configValue `yaml:"dec"`
}

// configValue is the text of a scalar, or "{a,b}" for a sequence of scalars,
// which is how list arguments are written on the command line.
type configValue string

func (v *configValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = configValue(node.Value)
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: nested lists are not supported", n.Line)
			}
			items = append(items, n.Value)
		}
		*v = configValue("{" + strings.Join(items, ",") + "}")
		return nil
	}
	return fmt.Errorf("line %d: expected a scalar or a list", node.Line)
}

// loadConfigFile parses path into raw argument values.
// Uses strict field checking: an unknown category is an error. Unknown
// option names are passed through and rejected by the launcher.
func loadConfigFile(fs billy.Filesystem, path string) (map[args.Key]string, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg ConfigFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	raw := make(map[args.Key]string)
	sections := map[args.Category]map[string]configValue{
		args.CatSimulation: cfg.Simulation,
		args.CatCode:       cfg.Code,
		args.CatEncoder:    cfg.Encoder,
		args.CatModulator:  cfg.Modulator,
		args.CatChannel:    cfg.Channel,
		args.CatDecoder:    cfg.Decoder,
	}
	for cat, section := range sections {
		for name, value := range section {
			raw[args.NewKey(cat, name)] = string(value)
		}
	}
	return raw, nil
}
