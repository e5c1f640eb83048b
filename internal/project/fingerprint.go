package project

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/richardkriesman/batterypack/internal/paths"
)

// seedLimit bounds fingerprint seeds to 48 bits.
var seedLimit = new(big.Int).Lsh(big.NewInt(1), 48)

// SourceFingerprint hashes the content and absolute path of every file in
// the source directory. The hash is seeded per project; the seed is created
// and flushed on first use so later runs reproduce the same value.
func (p *Project) SourceFingerprint() (string, error) {
	seed, err := p.fingerprintSeed()
	if err != nil {
		return "", err
	}

	sourceDir, err := p.Resolver.Resolve(paths.SourceDir)
	if err != nil {
		return "", err
	}

	digest := xxhash.NewWithSeed(seed)
	for entry, err := range p.Resolver.Walk(sourceDir) {
		if err != nil {
			return "", err
		}
		if entry.IsDir {
			continue
		}
		content, err := os.ReadFile(entry.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", entry.Path, err)
		}
		digest.Write(content)
		digest.WriteString(entry.Path)
	}
	return strconv.FormatUint(digest.Sum64(), 16), nil
}

func (p *Project) fingerprintSeed() (uint64, error) {
	if seed := p.Internal.Data.SourceFingerprintSeed; seed != nil {
		return *seed, nil
	}
	n, err := rand.Int(rand.Reader, seedLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to generate fingerprint seed: %w", err)
	}
	seed := n.Uint64()
	p.Internal.Data.SourceFingerprintSeed = &seed
	if err := p.Internal.Flush(); err != nil {
		return 0, err
	}
	return seed, nil
}

// IsUpToDate compares the stored fingerprint with a fresh one. It also
// returns the fresh value.
func (p *Project) IsUpToDate() (bool, string, error) {
	current, err := p.SourceFingerprint()
	if err != nil {
		return false, "", err
	}
	stored := p.Internal.Data.SourceFingerprint
	return stored != "" && stored == current, current, nil
}

// RecordFingerprint stores a fresh fingerprint and flushes internal state.
func (p *Project) RecordFingerprint() error {
	current, err := p.SourceFingerprint()
	if err != nil {
		return err
	}
	p.Internal.Data.SourceFingerprint = current
	return p.Internal.Flush()
}
