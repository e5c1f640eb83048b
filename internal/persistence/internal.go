package persistence

// Internal is the tool-private state kept in .batterypack/internal.yml.
type Internal struct {
	SourceFingerprint     string  `yaml:"sourceFingerprint,omitempty"`
	SourceFingerprintSeed *uint64 `yaml:"sourceFingerprintSeed,omitempty"`
}

// ResetFingerprint forgets both the fingerprint and its seed.
func (i *Internal) ResetFingerprint() {
	i.SourceFingerprint = ""
	i.SourceFingerprintSeed = nil
}
