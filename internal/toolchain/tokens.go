package toolchain

import (
	"context"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
	"github.com/richardkriesman/batterypack/internal/persistence"
)

// TokenSource turns a stored credential into an npm auth token.
type TokenSource interface {
	Token(ctx context.Context, name string, cred persistence.Credential) (string, error)
}

// CredentialTokens returns static tokens as-is and asks the AWS CLI for
// CodeArtifact tokens. Fetched tokens are reused for the rest of the run.
type CredentialTokens struct {
	Settings Settings
	Runner   CommandRunner
	Dir      string

	fetched map[string]string
}

func (c *CredentialTokens) Token(ctx context.Context, name string, cred persistence.Credential) (string, error) {
	switch cred.Type {
	case persistence.CredentialStaticToken:
		return cred.Token, nil
	case persistence.CredentialCodeArtifact:
		if token, ok := c.fetched[name]; ok {
			return token, nil
		}
		run := runnerOrDefault(c.Runner)
		output, err := run(ctx, c.Dir, c.Settings.AWS,
			"codeartifact", "get-authorization-token",
			"--profile", cred.ProfileName,
			"--domain", cred.Domain,
			"--domain-owner", cred.DomainOwner,
			"--region", cred.Region,
			"--query", "authorizationToken",
			"--output", "text",
		)
		if err != nil {
			return "", errs.Wrap(commandFailure(c.Settings.AWS, output, err), errs.KindCredential,
				"failed to fetch CodeArtifact token for credential %s", name)
		}
		token := strings.TrimSpace(output)
		if c.fetched == nil {
			c.fetched = make(map[string]string)
		}
		c.fetched[name] = token
		return token, nil
	}
	return "", errs.Minimalf(errs.KindCredential, "Credential %s has unknown type %q.", name, cred.Type)
}
