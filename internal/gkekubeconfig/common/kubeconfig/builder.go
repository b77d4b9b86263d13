// internal/gkekubeconfig/common/kubeconfig/builder.go
package kubeconfig

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ClusterIdentity holds the resolved connection attributes of a GKE cluster.
// All fields are plain strings: the data source layer is responsible for
// unwrapping framework values before calling Build, so the core stays
// testable without any plan/apply machinery.
type ClusterIdentity struct {
	// ClusterName is the logical cluster name. It becomes the cluster,
	// context, and user name inside the generated document.
	ClusterName string

	// ClusterEndpoint is the API server address as bare host[:port],
	// without a scheme.
	ClusterEndpoint string

	// ClusterCACertificate is the base64-encoded PEM CA bundle of the
	// cluster, inserted verbatim into certificate-authority-data.
	ClusterCACertificate string
}

// Attribute names as they appear in the data source schema. Validation
// messages use these so diagnostics line up with what the user wrote.
const (
	AttrClusterName          = "cluster_name"
	AttrClusterEndpoint      = "cluster_endpoint"
	AttrClusterCACertificate = "cluster_ca_certificate"
	AttrClusterMasterAuth    = "cluster_master_auth"
)

// RequiredAttributes returns the required attribute names in their fixed
// reporting order. When structuredAuth is true the credential is expected
// under cluster_master_auth instead of cluster_ca_certificate.
func RequiredAttributes(structuredAuth bool) []string {
	if structuredAuth {
		return []string{AttrClusterName, AttrClusterEndpoint, AttrClusterMasterAuth}
	}
	return []string{AttrClusterName, AttrClusterEndpoint, AttrClusterCACertificate}
}

// MissingAttributesError reports every absent required attribute in one shot
// so callers can fix their configuration in a single pass.
type MissingAttributesError struct {
	Missing  []string
	Required []string
}

func (e *MissingAttributesError) Error() string {
	return fmt.Sprintf("Missing required arguments for kubeconfig generation: %s. All of the following arguments are required: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "))
}

// NewMissingAttributesError builds the report-all error for the given mode.
// missing must be a subset of the required set, already in fixed order.
func NewMissingAttributesError(missing []string, structuredAuth bool) *MissingAttributesError {
	return &MissingAttributesError{Missing: missing, Required: RequiredAttributes(structuredAuth)}
}

// Build validates the identity and renders the kubeconfig document.
// Validation collects every missing attribute before failing, then checks
// each present value for characters that would corrupt the rendered YAML.
// On success the returned document is deterministic: identical identities
// always produce byte-identical output.
func Build(id ClusterIdentity) (string, error) {
	var missing []string
	if id.ClusterName == "" {
		missing = append(missing, AttrClusterName)
	}
	if id.ClusterEndpoint == "" {
		missing = append(missing, AttrClusterEndpoint)
	}
	if id.ClusterCACertificate == "" {
		missing = append(missing, AttrClusterCACertificate)
	}
	if len(missing) > 0 {
		return "", NewMissingAttributesError(missing, false)
	}

	if err := validateScalars(id); err != nil {
		return "", err
	}

	doc := render(id)

	// The template substitutes values verbatim, so even with the scalar
	// checks above, prove the document still loads as a kubeconfig before
	// publishing it.
	if err := Verify(doc); err != nil {
		return "", fmt.Errorf("rendered kubeconfig failed verification: %w", err)
	}

	return doc, nil
}

// validateScalars rejects values that would break unquoted YAML scalar
// syntax when substituted into the document template. The reference
// behavior passed such values through silently; here they fail up front
// with an attribute-specific message.
func validateScalars(id ClusterIdentity) error {
	if msgs := validation.IsDNS1123Subdomain(id.ClusterName); len(msgs) > 0 {
		return fmt.Errorf("%s %q is not a valid cluster name: %s",
			AttrClusterName, id.ClusterName, strings.Join(msgs, "; "))
	}

	if strings.Contains(id.ClusterEndpoint, "://") {
		return fmt.Errorf("%s %q must not include a scheme; provide the bare host or host:port (https:// is added automatically)",
			AttrClusterEndpoint, id.ClusterEndpoint)
	}
	if strings.ContainsAny(id.ClusterEndpoint, " \t\r\n") {
		return fmt.Errorf("%s %q must not contain whitespace", AttrClusterEndpoint, id.ClusterEndpoint)
	}

	if strings.ContainsAny(id.ClusterCACertificate, " \t\r\n") {
		return fmt.Errorf("%s must be a single-line base64 string without embedded whitespace", AttrClusterCACertificate)
	}

	return nil
}
