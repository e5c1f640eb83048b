package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/richardkriesman/batterypack/internal/persistence"
	"github.com/spf13/cobra"
)

func newCredentialsCommand(a *app) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage registry credentials",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE:  a.runCredentialsList,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Add or replace a credential",
	}

	codeArtifactCmd := &cobra.Command{
		Use:   "codeartifact",
		Short: "Store an AWS CodeArtifact credential",
		Args:  cobra.NoArgs,
		RunE:  a.runSetCodeArtifact,
	}
	codeArtifactCmd.Flags().StringP("name", "n", "", "Credential name")
	codeArtifactCmd.Flags().String("profile", "", "AWS profile")
	codeArtifactCmd.Flags().String("domain", "", "CodeArtifact domain")
	codeArtifactCmd.Flags().String("domain-owner", "", "AWS account that owns the domain")
	codeArtifactCmd.Flags().String("region", "", "AWS region")
	for _, name := range []string{"name", "profile", "domain", "domain-owner", "region"} {
		_ = codeArtifactCmd.MarkFlagRequired(name)
	}

	staticTokenCmd := &cobra.Command{
		Use:   "static-token",
		Short: "Store a static registry token",
		Args:  cobra.NoArgs,
		RunE:  a.runSetStaticToken,
	}
	staticTokenCmd.Flags().StringP("name", "n", "", "Credential name")
	staticTokenCmd.Flags().String("token", "", "Registry token")
	_ = staticTokenCmd.MarkFlagRequired("name")
	_ = staticTokenCmd.MarkFlagRequired("token")

	setCmd.AddCommand(codeArtifactCmd, staticTokenCmd)
	credentialsCmd.AddCommand(listCmd, setCmd)
	return credentialsCmd
}

func (a *app) runCredentialsList(cmd *cobra.Command, args []string) error {
	p, err := a.open(cmd)
	if err != nil {
		return err
	}
	names := p.Credentials.Data.Names()
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No credentials stored in %s\n", p.Credentials.Path())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE")
	for _, name := range names {
		cred, _ := p.Credentials.Data.Get(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, cred.Type)
	}
	return tw.Flush()
}

func (a *app) runSetCodeArtifact(cmd *cobra.Command, args []string) error {
	values, err := stringFlags(cmd, "name", "profile", "domain", "domain-owner", "region")
	if err != nil {
		return err
	}
	cred := persistence.CodeArtifact(values["profile"], values["domain"], values["domain-owner"], values["region"])
	return a.storeCredential(cmd, values["name"], cred)
}

func (a *app) runSetStaticToken(cmd *cobra.Command, args []string) error {
	values, err := stringFlags(cmd, "name", "token")
	if err != nil {
		return err
	}
	return a.storeCredential(cmd, values["name"], persistence.StaticToken(values["token"]))
}

func (a *app) storeCredential(cmd *cobra.Command, name string, cred persistence.Credential) error {
	p, err := a.open(cmd)
	if err != nil {
		return err
	}
	if err := p.Credentials.Data.Set(name, cred); err != nil {
		return err
	}
	if err := p.Credentials.Flush(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s credential %s in %s\n", cred.Type, name, p.Credentials.Path())
	return nil
}

func stringFlags(cmd *cobra.Command, names ...string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	for _, name := range names {
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read --%s flag: %w", name, err)
		}
		values[name] = strings.TrimSpace(value)
	}
	return values, nil
}
