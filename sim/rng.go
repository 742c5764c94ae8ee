package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// SimulationKey identifies a reproducible run. Two runs with the same key and
// identical parameters produce identical frame streams.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemSource draws the information bits.
	SubsystemSource = "source"
	// SubsystemChannel draws the channel noise.
	SubsystemChannel = "channel"
	// SubsystemInterleaver draws the random interleaver permutation.
	SubsystemInterleaver = "interleaver"
)

// PartitionedRNG provides deterministic, isolated generators per subsystem so
// that adding draws to one stage never shifts the stream of another.
//
// Each subsystem is a PCG seeded with (masterSeed, fnv1a64(name)).
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the generator of the named subsystem. The same name
// always returns the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewPCG(uint64(p.key), fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
