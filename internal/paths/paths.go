package paths

import "path/filepath"

// Kind says whether a catalog path names a directory or a file.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "directory"
}

// Path is a location relative to a project root. Hoistable paths may be
// satisfied by an ancestor of the root.
type Path struct {
	Kind  Kind
	Rel   string
	Hoist bool
}

// Dir returns a non-hoistable directory path.
func Dir(rel string) Path {
	return Path{Kind: KindDirectory, Rel: filepath.FromSlash(rel)}
}

// File returns a non-hoistable file path.
func File(rel string) Path {
	return Path{Kind: KindFile, Rel: filepath.FromSlash(rel)}
}

// Well-known project paths.
var (
	Root           = Dir("")
	SourceDir      = Dir("src")
	BuildDir       = Dir("build")
	DerivationsDir = Dir(".batterypack")

	DefaultSourceEntrypoint = File("src/index.ts")
	DefaultBuildEntrypoint  = File("build/index.js")
	BuildInfo               = File(".batterypack/typescript/tsconfig.tsbuildinfo")
	BuildConfig             = File(".batterypack/typescript/tsconfig.build.json")
	ConfigFile              = File("batterypack.yml")
	CredentialsFile         = Path{Kind: KindFile, Rel: filepath.FromSlash(".batterypack/credentials.yml"), Hoist: true}
	InternalFile            = File(".batterypack/internal.yml")
	EnvFile                 = File(".env")
)
