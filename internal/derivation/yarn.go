package derivation

import (
	"bytes"
	"context"

	"github.com/richardkriesman/batterypack/internal/errs"
	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/richardkriesman/batterypack/internal/toolchain"
	"gopkg.in/yaml.v3"
)

const yarnHeader = `#
# STOP! This file is automatically generated.
#
# To add your own configuration options to .yarnrc.yml,
# add them to batterypack.yml, then run "batterypack sync".
#
`

// Yarn generates .yarnrc.yml, including registry scopes and their auth
// tokens.
type Yarn struct {
	Tokens toolchain.TokenSource
}

func (Yarn) ToolID() string   { return "yarn" }
func (Yarn) FilePath() string { return ".yarnrc.yml" }

type yarnScope struct {
	NpmRegistryServer  string `yaml:"npmRegistryServer"`
	NpmPublishRegistry string `yaml:"npmPublishRegistry"`
	NpmAlwaysAuth      bool   `yaml:"npmAlwaysAuth,omitempty"`
	NpmAuthToken       string `yaml:"npmAuthToken,omitempty"`
}

type yarnConfig struct {
	YarnPath   string               `yaml:"yarnPath"`
	NodeLinker string               `yaml:"nodeLinker"`
	NpmScopes  map[string]yarnScope `yaml:"npmScopes,omitempty"`
}

func (y Yarn) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	config := yarnConfig{
		YarnPath:   ".yarn/releases/yarn-berry.cjs",
		NodeLinker: "node-modules",
	}

	scopes := p.Config.Data.Scopes
	if len(scopes) > 0 {
		config.NpmScopes = make(map[string]yarnScope, len(scopes))
	}
	for _, name := range fileutil.MapKeysSorted(scopes) {
		scope := scopes[name]
		entry := yarnScope{
			NpmRegistryServer:  scope.Origin,
			NpmPublishRegistry: scope.Origin,
		}
		if scope.Credential != "" {
			cred, ok := p.Credentials.Data.Get(scope.Credential)
			if !ok {
				return nil, errs.Minimalf(errs.KindCredential,
					"No credential named %s exists in credentials.yml.", scope.Credential)
			}
			if y.Tokens == nil {
				return nil, errs.New(errs.KindCredential, "no token source configured for credential %s", scope.Credential)
			}
			token, err := y.Tokens.Token(ctx, scope.Credential, cred)
			if err != nil {
				return nil, err
			}
			entry.NpmAlwaysAuth = true
			entry.NpmAuthToken = token
		}
		config.NpmScopes[name] = entry
	}

	var buf bytes.Buffer
	buf.WriteString(yarnHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
