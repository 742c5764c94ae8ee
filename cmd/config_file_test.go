package cmd

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/launcher"
)

func TestLoadConfigFile(t *testing.T) {
	// GIVEN a config file with scalars, a list and an unknown option
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/run.yaml", []byte(`
sim:
  snr-min: 0
  snr-max: 1.5
code:
  info-bits: 64
enc:
  poly: [13, 15]
  no-term: true
dec:
  bogus: x
`), 0o644))

	// WHEN loaded
	raw, err := loadConfigFile(fs, "/run.yaml")

	// THEN every value keeps its text, lists are braced
	require.NoError(t, err)
	assert.Equal(t, map[args.Key]string{
		launcher.KeySNRMin:                    "0",
		launcher.KeySNRMax:                    "1.5",
		launcher.KeyInfoBits:                  "64",
		launcher.KeyPoly:                      "{13,15}",
		launcher.KeyNoTerm:                    "true",
		args.NewKey(args.CatDecoder, "bogus"): "x",
	}, raw)
}

func TestLoadConfigFile_Rejects(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/cat.yaml", []byte("simulation:\n  snr-min: 0\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/nested.yaml", []byte("enc:\n  poly: [[1]]\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/empty.yaml", nil, 0o644))

	_, err := loadConfigFile(fs, "/cat.yaml")
	assert.Error(t, err, "unknown category")
	_, err = loadConfigFile(fs, "/nested.yaml")
	assert.Error(t, err, "nested list")
	_, err = loadConfigFile(fs, "/missing.yaml")
	assert.Error(t, err)

	raw, err := loadConfigFile(fs, "/empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, raw)
}
