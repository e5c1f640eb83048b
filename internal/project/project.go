package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/richardkriesman/batterypack/internal/errs"
	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/persistence"
)

// Project is one batterypack project directory with its persisted records
// loaded into memory.
type Project struct {
	Resolver    *paths.Resolver
	Config      *persistence.Store[persistence.Config]
	Credentials *persistence.Store[persistence.Credentials]
	Internal    *persistence.Store[persistence.Internal]

	root        string
	toolVersion string
}

// Open loads the project rooted at root. The configuration file must exist,
// pass validation and declare toolVersion.
func Open(root, toolVersion string) (*Project, error) {
	resolver, err := paths.NewResolver(root)
	if err != nil {
		return nil, err
	}
	// Stat before resolving so a mistyped root is not created on disk.
	configPath := resolver.Lookup(paths.ConfigFile)
	if _, err := os.Stat(configPath); err != nil {
		if errs.IsNotExist(err) {
			return nil, errs.Minimalf(errs.KindConfigMissing, "batterypack configuration file is missing at %s.", configPath)
		}
		return nil, fmt.Errorf("failed to inspect %s: %w", configPath, err)
	}
	rootPath, err := resolver.Root()
	if err != nil {
		return nil, err
	}
	config, err := persistence.Load[persistence.Config](configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Data.Validate(configPath); err != nil {
		return nil, err
	}
	if config.Data.Batterypack.Version != toolVersion {
		return nil, errs.Minimalf(errs.KindConfigVersion,
			"Project at %s requires batterypack %s, but this is batterypack %s.",
			rootPath, config.Data.Batterypack.Version, toolVersion)
	}

	credentialsPath, err := resolver.Resolve(paths.CredentialsFile)
	if err != nil {
		return nil, err
	}
	credentials, err := persistence.Load[persistence.Credentials](credentialsPath)
	if err != nil {
		return nil, err
	}

	internalPath, err := resolver.Resolve(paths.InternalFile)
	if err != nil {
		return nil, err
	}
	internal, err := persistence.Load[persistence.Internal](internalPath)
	if err != nil {
		return nil, err
	}

	return &Project{
		Resolver:    resolver,
		Config:      config,
		Credentials: credentials,
		Internal:    internal,
		root:        rootPath,
		toolVersion: toolVersion,
	}, nil
}

// Root returns the absolute project root.
func (p *Project) Root() string {
	return p.root
}

// Name returns the configured project name.
func (p *Project) Name() string {
	return p.Config.Data.Name
}

// ToolVersion returns the version the project was opened with.
func (p *Project) ToolVersion() string {
	return p.toolVersion
}

// RelPath returns the project root relative to base, or "." when equal.
func (p *Project) RelPath(base string) string {
	rel, err := filepath.Rel(base, p.root)
	if err != nil {
		return p.root
	}
	return rel
}

// Flush writes credentials and internal state. Configuration is never
// written back.
func (p *Project) Flush() error {
	if err := p.Credentials.Flush(); err != nil {
		return err
	}
	return p.Internal.Flush()
}

// SourceEntrypoint returns the absolute path of the source entrypoint.
func (p *Project) SourceEntrypoint() (string, error) {
	if ep := p.Config.Data.Entrypoint; ep != nil {
		return p.Resolver.Resolve(paths.File(ep.Source))
	}
	return p.Resolver.Resolve(paths.DefaultSourceEntrypoint)
}

// BuildEntrypoint returns the absolute path of the compiled entrypoint.
func (p *Project) BuildEntrypoint() (string, error) {
	if ep := p.Config.Data.Entrypoint; ep != nil {
		return p.Resolver.Resolve(paths.File(ep.Build))
	}
	return p.Resolver.Resolve(paths.DefaultBuildEntrypoint)
}

// HasSourceEntrypoint reports whether the source entrypoint file exists.
func (p *Project) HasSourceEntrypoint() (bool, error) {
	path, err := p.SourceEntrypoint()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errs.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// Clean forgets the source fingerprint and removes build output.
func (p *Project) Clean() error {
	p.Internal.Data.ResetFingerprint()
	if err := p.Flush(); err != nil {
		return err
	}
	for _, target := range []paths.Path{paths.BuildDir, paths.BuildInfo} {
		path, err := p.Resolver.Resolve(target)
		if err != nil {
			return err
		}
		if err := fileutil.RemoveIfExists(path); err != nil {
			return err
		}
	}
	return nil
}
