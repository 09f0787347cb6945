// SPDX-License-Identifier: MIT

package optimizer

import "math/rand"

// defaultSeed replaces a zero seed so the default run is reproducible.
const defaultSeed int64 = 1

// deriveSeed mixes a parent seed and a stream id with the SplitMix64
// finalizer, giving uncorrelated seeds for neighbouring stream ids.
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// workerRNG returns the private random stream of worker id.
// *rand.Rand is not goroutine-safe; each worker owns its own.
func workerRNG(seed int64, id int) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(deriveSeed(seed, uint64(id))))
}
