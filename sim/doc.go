// Package sim holds the contracts shared by every forward error correction
// simulation: the SISO decoder interface, the validated parameter aggregate,
// the Simulation a launcher runs, and the partitioned random generators.
//
// # Reading Guide
//
//   - siso.go: Geometry, the SISO contract and the embeddable Base
//   - params.go: the six parameter bundles and ParamsBuilder
//   - rng.go: per-subsystem generators derived from one seed
//
// # Architecture
//
// Implementations live in sub-packages:
//   - sim/numeric/: the B/R/Q precision types and saturating arithmetic
//   - sim/args/: argument types, ranges and declarations
//   - sim/code/: trellis, encoders and interleavers
//   - sim/decoder/: RSC, repetition and turbo SISO decoders
//   - sim/chain/: modem, channel, quantizer and the BFER loop
//   - sim/launcher/: the generic launcher and the code families
package sim
