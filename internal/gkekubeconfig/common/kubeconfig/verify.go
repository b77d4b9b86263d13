// internal/gkekubeconfig/common/kubeconfig/verify.go
package kubeconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// document mirrors the shape of the rendered kubeconfig for verification.
// Certificate data is kept as a string: client tooling base64-decodes it,
// but the builder passes the caller's value through untouched, so Verify
// must not re-encode or decode it.
type document struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Clusters   []struct {
		Name    string `yaml:"name"`
		Cluster struct {
			Server                   string `yaml:"server"`
			CertificateAuthorityData string `yaml:"certificate-authority-data"`
		} `yaml:"cluster"`
	} `yaml:"clusters"`
	Contexts []struct {
		Name    string `yaml:"name"`
		Context struct {
			Cluster string `yaml:"cluster"`
			User    string `yaml:"user"`
		} `yaml:"context"`
	} `yaml:"contexts"`
	CurrentContext string `yaml:"current-context"`
	Users          []struct {
		Name string `yaml:"name"`
	} `yaml:"users"`
}

// Verify checks that a rendered document parses as YAML and has the
// structure of a single-cluster kubeconfig with a resolvable
// current-context. It is a pure in-memory parse: no file access, no
// network, no mutation.
func Verify(doc string) error {
	var parsed document
	if err := yaml.Unmarshal([]byte(doc), &parsed); err != nil {
		return fmt.Errorf("document is not valid YAML: %w", err)
	}

	if parsed.Kind != "Config" || parsed.APIVersion != "v1" {
		return fmt.Errorf("document is not a v1 Config (kind=%q, apiVersion=%q)", parsed.Kind, parsed.APIVersion)
	}
	if len(parsed.Clusters) != 1 || len(parsed.Contexts) != 1 || len(parsed.Users) != 1 {
		return fmt.Errorf("document must contain exactly one cluster, context, and user")
	}
	if parsed.CurrentContext == "" {
		return fmt.Errorf("document has no current-context")
	}

	ctx := parsed.Contexts[0]
	if ctx.Name != parsed.CurrentContext {
		return fmt.Errorf("current-context %q has no matching context entry", parsed.CurrentContext)
	}
	if ctx.Context.Cluster != parsed.Clusters[0].Name {
		return fmt.Errorf("context %q references cluster %q, document defines %q",
			ctx.Name, ctx.Context.Cluster, parsed.Clusters[0].Name)
	}
	if ctx.Context.User != parsed.Users[0].Name {
		return fmt.Errorf("context %q references user %q, document defines %q",
			ctx.Name, ctx.Context.User, parsed.Users[0].Name)
	}

	return nil
}
