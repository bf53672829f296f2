package sampler

import (
	"crypto/sha256"
	"encoding/binary"
)

// contentSeed derives a deterministic clustering seed from the candidate
// colours, so the same region content always reduces to the same colour.
func contentSeed(candidates CandidateSet) int64 {
	hasher := sha256.New()

	countBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(countBytes, uint64(len(candidates)))
	hasher.Write(countBytes)

	buf := make([]byte, 0, 3*len(candidates))
	for _, c := range candidates {
		buf = append(buf, c.R, c.G, c.B)
	}
	hasher.Write(buf)

	sum := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8])) // #nosec G115 -- seed only needs the bits
}
