package persistence

import (
	"fmt"
	"sort"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// Credential types.
const (
	CredentialCodeArtifact = "codeartifact"
	CredentialStaticToken  = "static-token"
)

// Credential is a tagged union keyed by Type. Only the fields belonging to
// Type are set.
type Credential struct {
	Type string `yaml:"type"`

	// codeartifact
	ProfileName string `yaml:"profileName,omitempty"`
	Domain      string `yaml:"domain,omitempty"`
	DomainOwner string `yaml:"domainOwner,omitempty"`
	Region      string `yaml:"region,omitempty"`

	// static-token
	Token string `yaml:"token,omitempty"`
}

// CodeArtifact builds a codeartifact credential.
func CodeArtifact(profile, domain, domainOwner, region string) Credential {
	return Credential{
		Type:        CredentialCodeArtifact,
		ProfileName: profile,
		Domain:      domain,
		DomainOwner: domainOwner,
		Region:      region,
	}
}

// StaticToken builds a static-token credential.
func StaticToken(token string) Credential {
	return Credential{Type: CredentialStaticToken, Token: token}
}

// Validate checks that the fields required by Type are present.
func (c Credential) Validate(name string) error {
	missing := make([]string, 0)
	switch c.Type {
	case CredentialCodeArtifact:
		for field, value := range map[string]string{
			"profileName": c.ProfileName,
			"domain":      c.Domain,
			"domainOwner": c.DomainOwner,
			"region":      c.Region,
		} {
			if value == "" {
				missing = append(missing, field)
			}
		}
	case CredentialStaticToken:
		if c.Token == "" {
			missing = append(missing, "token")
		}
	default:
		return errs.Minimalf(errs.KindCredential, "Credential %s has unknown type %q.", name, c.Type)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errs.Minimalf(errs.KindCredential, "Credential %s is missing %v.", name, missing)
	}
	return nil
}

// Credentials is the contents of credentials.yml.
type Credentials struct {
	Credentials map[string]Credential `yaml:"credentials"`
}

// Set stores c under name, replacing any previous credential.
func (c *Credentials) Set(name string, cred Credential) error {
	if name == "" {
		return fmt.Errorf("credential name is required")
	}
	if err := cred.Validate(name); err != nil {
		return err
	}
	if c.Credentials == nil {
		c.Credentials = make(map[string]Credential)
	}
	c.Credentials[name] = cred
	return nil
}

// Get returns the credential stored under name.
func (c *Credentials) Get(name string) (Credential, bool) {
	cred, ok := c.Credentials[name]
	return cred, ok
}

// Names returns the credential names in sorted order.
func (c *Credentials) Names() []string {
	names := make([]string, 0, len(c.Credentials))
	for name := range c.Credentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
