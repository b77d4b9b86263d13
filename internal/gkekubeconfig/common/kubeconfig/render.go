// internal/gkekubeconfig/common/kubeconfig/render.go
package kubeconfig

import "fmt"

// The document layout is fixed. Indentation, key order, and the exec plugin
// stanza (including the folded installHint continuation line) must not
// change: consumers diff the rendered output and any formatting drift shows
// up as spurious changes in their state.
const documentTemplate = `apiVersion: v1
clusters:
- cluster:
    certificate-authority-data: %[3]s
    server: https://%[2]s
  name: %[1]s
contexts:
- context:
    cluster: %[1]s
    user: %[1]s
  name: %[1]s
current-context: %[1]s
kind: Config
preferences: {}
users:
- name: %[1]s
  user:
    exec:
      apiVersion: client.authentication.k8s.io/v1beta1
      command: gke-gcloud-auth-plugin
      env: null
      installHint: Install gke-gcloud-auth-plugin for use with kubectl by following
        https://cloud.google.com/blog/products/containers-kubernetes/kubectl-auth-changes-in-gke
      interactiveMode: IfAvailable
      provideClusterInfo: true
`

// render substitutes the identity into the document template. Values are
// inserted verbatim with no quoting or re-encoding; validateScalars has
// already rejected anything that would not survive as a plain YAML scalar.
func render(id ClusterIdentity) string {
	return fmt.Sprintf(documentTemplate, id.ClusterName, id.ClusterEndpoint, id.ClusterCACertificate)
}
