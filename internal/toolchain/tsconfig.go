package toolchain

import (
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
)

// ConfigOptions controls TypeScriptConfig.
type ConfigOptions struct {
	// ExcludeTests leaves __tests__ directories out of the program.
	ExcludeTests bool
	// Incremental records build info so later compiles can reuse it.
	Incremental bool
	// Subprojects are linked by name and referenced as composite projects.
	Subprojects []*project.Project
}

// TypeScriptConfig builds the tsconfig.json document for p.
func TypeScriptConfig(p *project.Project, opts ConfigOptions) (map[string]any, error) {
	sourceDir, err := p.Resolver.Resolve(paths.SourceDir)
	if err != nil {
		return nil, err
	}
	buildDir, err := p.Resolver.Resolve(paths.BuildDir)
	if err != nil {
		return nil, err
	}
	target := p.Config.Data.BuildTarget()

	pathMap := map[string]any{
		"@project/*": []string{"*"},
	}
	references := make([]map[string]string, 0, len(opts.Subprojects))
	for _, sub := range opts.Subprojects {
		pathMap[sub.Name()] = []string{sub.Root()}
		references = append(references, map[string]string{"path": sub.Root()})
	}

	compilerOptions := map[string]any{
		"allowJs":                false,
		"baseUrl":                sourceDir,
		"composite":              true,
		"declaration":            true,
		"declarationMap":         true,
		"esModuleInterop":        true,
		"emitDecoratorMetadata":  true,
		"experimentalDecorators": true,
		"lib":                    []string{target},
		"module":                 "commonjs",
		"moduleResolution":       "node",
		"noImplicitAny":          true,
		"noImplicitOverride":     p.Config.Data.Build.Features.RequireExplicitOverride,
		"noImplicitReturns":      true,
		"noImplicitThis":         true,
		"outDir":                 buildDir,
		"paths":                  pathMap,
		"preserveConstEnums":     true,
		"rootDir":                sourceDir,
		"skipLibCheck":           true,
		"sourceMap":              true,
		"strictBindCallApply":    true,
		"strictFunctionTypes":    true,
		"strictNullChecks":       true,
		"stripInternal":          true,
		"target":                 target,
	}
	if opts.Incremental {
		buildInfo, err := p.Resolver.Resolve(paths.BuildInfo)
		if err != nil {
			return nil, err
		}
		compilerOptions["incremental"] = true
		compilerOptions["tsBuildInfoFile"] = buildInfo
	}
	for key, value := range p.Config.Data.Overrides.TypeScript {
		compilerOptions[key] = value
	}

	exclude := []string{"node_modules"}
	if opts.ExcludeTests {
		exclude = append(exclude, "**/__tests__/*")
	}

	return map[string]any{
		"compilerOptions": compilerOptions,
		"include":         []string{sourceDir},
		"exclude":         exclude,
		"references":      references,
	}, nil
}
