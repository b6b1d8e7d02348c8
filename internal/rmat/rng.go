package rmat

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// Stream is one worker's pseudo-random source. Each worker owns exactly one
// Stream; there is no shared RNG and no cross-worker ordering dependency on
// random draws, matching the device-seeded-per-thread design of the
// reference generator.
type Stream struct {
	r *rand.Rand
}

// NewStream returns a Stream seeded from a non-deterministic OS source
// (/dev/urandom or the platform equivalent via crypto/rand), the nearest
// stdlib analogue of a device-seeded 64-bit Mersenne-Twister stream.
func NewStream() *Stream {
	return &Stream{r: rand.New(rand.NewPCG(deviceSeed(), deviceSeed()))}
}

func deviceSeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// Device entropy is unavailable; fall back to a time-derived seed
		// rather than failing generation outright.
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Uint64N returns a uniform value in [0, n).
func (s *Stream) Uint64N(n uint64) uint64 {
	return rand.N(s.r, n)
}

// noiseSource is the process-wide generator used for partition noise
// (§Partitioner) — wall-clock seeded, shared across all shatter calls, and
// deliberately distinct from per-worker edge-placement Streams.
var noiseSource = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xa5a5a5a5))

// noise draws a signed perturbation uniform in [-magnitude, magnitude].
func noise(magnitude float64) float64 {
	return (noiseSource.Float64()*2 - 1) * magnitude
}
