// internal/gkekubeconfig/common/kubeconfig/builder_test.go
package kubeconfig

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/tools/clientcmd"
)

const testCAPEM = `-----BEGIN CERTIFICATE-----
MIIBtest
-----END CERTIFICATE-----`

func validIdentity() ClusterIdentity {
	return ClusterIdentity{
		ClusterName:          "demo",
		ClusterEndpoint:      "10.0.0.1",
		ClusterCACertificate: "QkFTRTY0",
	}
}

func TestBuild_Success(t *testing.T) {
	doc, err := Build(validIdentity())
	require.NoError(t, err)

	// The name appears as cluster name, context cluster ref, context user
	// ref, context name, current-context, and user name.
	assert.Equal(t, 6, strings.Count(doc, "demo"))
	assert.Equal(t, 1, strings.Count(doc, "https://10.0.0.1"))
	assert.Contains(t, doc, "certificate-authority-data: QkFTRTY0")
	assert.Contains(t, doc, "command: gke-gcloud-auth-plugin")
}

func TestBuild_Idempotent(t *testing.T) {
	first, err := Build(validIdentity())
	require.NoError(t, err)

	second, err := Build(validIdentity())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_MissingAttributes(t *testing.T) {
	tests := []struct {
		name    string
		remove  []string
		missing string
	}{
		{
			name:    "missing name",
			remove:  []string{AttrClusterName},
			missing: "cluster_name",
		},
		{
			name:    "missing endpoint",
			remove:  []string{AttrClusterEndpoint},
			missing: "cluster_endpoint",
		},
		{
			name:    "missing certificate",
			remove:  []string{AttrClusterCACertificate},
			missing: "cluster_ca_certificate",
		},
		{
			name:    "missing endpoint and certificate",
			remove:  []string{AttrClusterEndpoint, AttrClusterCACertificate},
			missing: "cluster_endpoint, cluster_ca_certificate",
		},
		{
			name:    "missing name and certificate",
			remove:  []string{AttrClusterName, AttrClusterCACertificate},
			missing: "cluster_name, cluster_ca_certificate",
		},
		{
			name:    "missing name and endpoint",
			remove:  []string{AttrClusterName, AttrClusterEndpoint},
			missing: "cluster_name, cluster_endpoint",
		},
		{
			name:    "missing everything",
			remove:  []string{AttrClusterName, AttrClusterEndpoint, AttrClusterCACertificate},
			missing: "cluster_name, cluster_endpoint, cluster_ca_certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := validIdentity()
			for _, attr := range tt.remove {
				switch attr {
				case AttrClusterName:
					id.ClusterName = ""
				case AttrClusterEndpoint:
					id.ClusterEndpoint = ""
				case AttrClusterCACertificate:
					id.ClusterCACertificate = ""
				}
			}

			_, err := Build(id)
			require.Error(t, err)

			var missingErr *MissingAttributesError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.remove, missingErr.Missing)

			expected := fmt.Sprintf(
				"Missing required arguments for kubeconfig generation: %s. All of the following arguments are required: cluster_name, cluster_endpoint, cluster_ca_certificate",
				tt.missing)
			assert.Equal(t, expected, err.Error())
		})
	}
}

func TestBuild_RejectsMalformedScalars(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClusterIdentity)
		wantErr string
	}{
		{
			name:    "name with colon",
			mutate:  func(id *ClusterIdentity) { id.ClusterName = "a:b" },
			wantErr: "not a valid cluster name",
		},
		{
			name:    "name with newline",
			mutate:  func(id *ClusterIdentity) { id.ClusterName = "a\nb" },
			wantErr: "not a valid cluster name",
		},
		{
			name:    "uppercase name",
			mutate:  func(id *ClusterIdentity) { id.ClusterName = "Demo" },
			wantErr: "not a valid cluster name",
		},
		{
			name:    "endpoint with scheme",
			mutate:  func(id *ClusterIdentity) { id.ClusterEndpoint = "https://10.0.0.1" },
			wantErr: "must not include a scheme",
		},
		{
			name:    "endpoint with whitespace",
			mutate:  func(id *ClusterIdentity) { id.ClusterEndpoint = "10.0.0.1 " },
			wantErr: "must not contain whitespace",
		},
		{
			name:    "certificate with embedded newline",
			mutate:  func(id *ClusterIdentity) { id.ClusterCACertificate = "QkFT\nRTY0" },
			wantErr: "single-line base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := validIdentity()
			tt.mutate(&id)

			_, err := Build(id)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuild_EndpointWithPort(t *testing.T) {
	id := validIdentity()
	id.ClusterEndpoint = "10.0.0.1:6443"

	doc, err := Build(id)
	require.NoError(t, err)
	assert.Contains(t, doc, "server: https://10.0.0.1:6443\n")
}

func TestBuild_RoundTripYAML(t *testing.T) {
	doc, err := Build(validIdentity())
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &parsed))

	for _, key := range []string{"apiVersion", "clusters", "contexts", "current-context", "kind", "preferences", "users"} {
		assert.Contains(t, parsed, key)
	}
	assert.Equal(t, "demo", parsed["current-context"])

	clusters := parsed["clusters"].([]interface{})
	require.Len(t, clusters, 1)
	cluster := clusters[0].(map[string]interface{})["cluster"].(map[string]interface{})
	assert.Equal(t, "https://10.0.0.1", cluster["server"])
	assert.Equal(t, "QkFTRTY0", cluster["certificate-authority-data"])

	users := parsed["users"].([]interface{})
	require.Len(t, users, 1)
	user := users[0].(map[string]interface{})["user"].(map[string]interface{})
	exec := user["exec"].(map[string]interface{})
	assert.Equal(t, "client.authentication.k8s.io/v1beta1", exec["apiVersion"])
	assert.Equal(t, "gke-gcloud-auth-plugin", exec["command"])
	assert.Equal(t, "IfAvailable", exec["interactiveMode"])
	assert.Equal(t, true, exec["provideClusterInfo"])
	assert.Nil(t, exec["env"])

	// The two-line installHint folds into a single scalar joined by a space.
	assert.Equal(t,
		"Install gke-gcloud-auth-plugin for use with kubectl by following https://cloud.google.com/blog/products/containers-kubernetes/kubectl-auth-changes-in-gke",
		exec["installHint"])
}

// With a real base64-encoded PEM bundle the rendered document must load as
// a kubeconfig and produce a usable REST config.
func TestBuild_LoadableByClientGo(t *testing.T) {
	id := ClusterIdentity{
		ClusterName:          "prod-cluster",
		ClusterEndpoint:      "34.1.2.3",
		ClusterCACertificate: base64.StdEncoding.EncodeToString([]byte(testCAPEM)),
	}

	doc, err := Build(id)
	require.NoError(t, err)

	config, err := clientcmd.Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "prod-cluster", config.CurrentContext)

	cluster := config.Clusters["prod-cluster"]
	require.NotNil(t, cluster)
	assert.Equal(t, "https://34.1.2.3", cluster.Server)
	assert.Equal(t, []byte(testCAPEM), cluster.CertificateAuthorityData)

	restConfig, err := clientcmd.RESTConfigFromKubeConfig([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "https://34.1.2.3", restConfig.Host)
	require.NotNil(t, restConfig.ExecProvider)
	assert.Equal(t, "gke-gcloud-auth-plugin", restConfig.ExecProvider.Command)
	assert.True(t, restConfig.ExecProvider.ProvideClusterInfo)
}

func TestRequiredAttributes(t *testing.T) {
	assert.Equal(t,
		[]string{"cluster_name", "cluster_endpoint", "cluster_ca_certificate"},
		RequiredAttributes(false))
	assert.Equal(t,
		[]string{"cluster_name", "cluster_endpoint", "cluster_master_auth"},
		RequiredAttributes(true))
}
