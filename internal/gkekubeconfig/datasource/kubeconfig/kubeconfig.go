// internal/gkekubeconfig/datasource/kubeconfig/kubeconfig.go
package kubeconfig

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/datasourcevalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	corekubeconfig "github.com/clusterkit/terraform-provider-gkekubeconfig/internal/gkekubeconfig/common/kubeconfig"
)

var _ datasource.DataSource = (*kubeconfigDataSource)(nil)
var _ datasource.DataSourceWithConfigValidators = (*kubeconfigDataSource)(nil)

type kubeconfigDataSource struct{}

type kubeconfigDataSourceModel struct {
	ID                   types.String     `tfsdk:"id"`
	ClusterName          types.String     `tfsdk:"cluster_name"`
	ClusterEndpoint      types.String     `tfsdk:"cluster_endpoint"`
	ClusterCACertificate types.String     `tfsdk:"cluster_ca_certificate"`
	ClusterMasterAuth    *masterAuthModel `tfsdk:"cluster_master_auth"`
	Kubeconfig           types.String     `tfsdk:"kubeconfig"`
}

// masterAuthModel mirrors the master_auth block of a google_container_cluster
// resource. Only the CA certificate is consumed; the block shape exists so
// the whole master_auth output can be wired through without restructuring.
type masterAuthModel struct {
	ClusterCACertificate types.String `tfsdk:"cluster_ca_certificate"`
}

func NewKubeconfigDataSource() datasource.DataSource {
	return &kubeconfigDataSource{}
}

func (d *kubeconfigDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_kubeconfig"
}

// ConfigValidators implements datasource.DataSourceWithConfigValidators
func (d *kubeconfigDataSource) ConfigValidators(ctx context.Context) []datasource.ConfigValidator {
	return []datasource.ConfigValidator{
		datasourcevalidator.Conflicting(
			path.MatchRoot("cluster_ca_certificate"),
			path.MatchRoot("cluster_master_auth"),
		),
		&requiredAttributesValidator{},
	}
}

// requiredAttributesValidator enforces the required attribute set for the
// active credential mode. Unlike marking attributes Required in the schema,
// this reports every missing attribute in a single diagnostic, so a user
// starting from an empty block sees the full contract at once instead of
// fixing one attribute per plan.
type requiredAttributesValidator struct{}

func (v *requiredAttributesValidator) Description(ctx context.Context) string {
	return "validates that cluster_name, cluster_endpoint, and a credential (cluster_ca_certificate or cluster_master_auth) are all specified, reporting every missing attribute together"
}

func (v *requiredAttributesValidator) MarkdownDescription(ctx context.Context) string {
	return "validates that `cluster_name`, `cluster_endpoint`, and a credential (`cluster_ca_certificate` or `cluster_master_auth`) are all specified, reporting every missing attribute together"
}

func (v *requiredAttributesValidator) ValidateDataSource(ctx context.Context, req datasource.ValidateConfigRequest, resp *datasource.ValidateConfigResponse) {
	var name, endpoint, caCert types.String
	var masterAuth types.Object

	resp.Diagnostics.Append(req.Config.GetAttribute(ctx, path.Root("cluster_name"), &name)...)
	resp.Diagnostics.Append(req.Config.GetAttribute(ctx, path.Root("cluster_endpoint"), &endpoint)...)
	resp.Diagnostics.Append(req.Config.GetAttribute(ctx, path.Root("cluster_ca_certificate"), &caCert)...)
	resp.Diagnostics.Append(req.Config.GetAttribute(ctx, path.Root("cluster_master_auth"), &masterAuth)...)

	if resp.Diagnostics.HasError() {
		return
	}

	// Unknown values resolve during apply; only definite nulls are missing.
	structured := !masterAuth.IsNull()

	var missing []string
	if name.IsNull() {
		missing = append(missing, corekubeconfig.AttrClusterName)
	}
	if endpoint.IsNull() {
		missing = append(missing, corekubeconfig.AttrClusterEndpoint)
	}
	// In structured mode the outer block satisfies the required set; its
	// nested certificate is checked separately below.
	if !structured && caCert.IsNull() {
		missing = append(missing, corekubeconfig.AttrClusterCACertificate)
	}

	if len(missing) > 0 {
		resp.Diagnostics.AddError(
			"Missing Required Attributes",
			corekubeconfig.NewMissingAttributesError(missing, structured).Error(),
		)
		return
	}

	if structured && !masterAuth.IsUnknown() {
		var auth masterAuthModel
		diags := masterAuth.As(ctx, &auth, basetypes.ObjectAsOptions{})
		resp.Diagnostics.Append(diags...)
		if resp.Diagnostics.HasError() {
			return
		}
		if auth.ClusterCACertificate.IsNull() {
			resp.Diagnostics.AddAttributeError(
				path.Root("cluster_master_auth").AtName("cluster_ca_certificate"),
				"Missing Nested Attribute",
				"cluster_master_auth was provided but does not contain cluster_ca_certificate. Pass the full master_auth output of the cluster, or use the top-level cluster_ca_certificate attribute instead.",
			)
		}
	}
}

func (d *kubeconfigDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Renders a kubeconfig for a GKE cluster from its name, endpoint, and CA certificate. Authentication is delegated to the gke-gcloud-auth-plugin exec plugin, so the generated document contains no long-lived credentials of its own.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:    true,
				Description: "Data source identifier derived from a hash of the resolved inputs.",
			},
			"cluster_name": schema.StringAttribute{
				Optional:    true,
				Description: "Name of the GKE cluster ('name' attribute of the google_container_cluster resource). Used as the cluster, context, and user name in the generated document.",
			},
			"cluster_endpoint": schema.StringAttribute{
				Optional:    true,
				Description: "Endpoint of the cluster API server as bare host or host:port, without a scheme ('endpoint' attribute of the google_container_cluster resource).",
			},
			"cluster_ca_certificate": schema.StringAttribute{
				Optional:    true,
				Sensitive:   true,
				Description: "Base64-encoded PEM CA certificate of the cluster ('master_auth[0].cluster_ca_certificate' attribute). Mutually exclusive with 'cluster_master_auth'.",
			},
			"cluster_master_auth": schema.SingleNestedAttribute{
				Optional:    true,
				Description: "The master_auth block of the cluster, passed through as a whole. Mutually exclusive with 'cluster_ca_certificate'.",
				Attributes: map[string]schema.Attribute{
					"cluster_ca_certificate": schema.StringAttribute{
						Optional:    true,
						Sensitive:   true,
						Description: "Base64-encoded PEM CA certificate of the cluster.",
					},
				},
			},
			"kubeconfig": schema.StringAttribute{
				Computed:    true,
				Sensitive:   true,
				Description: "Rendered kubeconfig document for the cluster, using exec-based authentication via gke-gcloud-auth-plugin.",
			},
		},
	}
}

func (d *kubeconfigDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data kubeconfigDataSourceModel

	diags := req.Config.Get(ctx, &data)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "rendering kubeconfig", map[string]interface{}{
		"cluster_name":     data.ClusterName.ValueString(),
		"cluster_endpoint": data.ClusterEndpoint.ValueString(),
	})

	identity, ok := d.resolveIdentity(&data, resp)
	if !ok {
		return
	}

	doc, err := corekubeconfig.Build(identity)
	if err != nil {
		var missingErr *corekubeconfig.MissingAttributesError
		if errors.As(err, &missingErr) {
			resp.Diagnostics.AddError("Missing Required Attributes", missingErr.Error())
		} else {
			resp.Diagnostics.AddError("Invalid Cluster Attributes", err.Error())
		}
		return
	}

	data.ID = types.StringValue(identityHash(identity))
	data.Kubeconfig = types.StringValue(doc)

	diags = resp.State.Set(ctx, &data)
	resp.Diagnostics.Append(diags...)
}

// resolveIdentity unwraps the config model into plain strings, selecting the
// CA certificate from whichever credential shape was configured. By the time
// Read runs every value is known; only nulls need handling here.
func (d *kubeconfigDataSource) resolveIdentity(data *kubeconfigDataSourceModel, resp *datasource.ReadResponse) (corekubeconfig.ClusterIdentity, bool) {
	identity := corekubeconfig.ClusterIdentity{
		ClusterName:     data.ClusterName.ValueString(),
		ClusterEndpoint: data.ClusterEndpoint.ValueString(),
	}

	if data.ClusterMasterAuth != nil {
		if data.ClusterMasterAuth.ClusterCACertificate.IsNull() {
			resp.Diagnostics.AddAttributeError(
				path.Root("cluster_master_auth").AtName("cluster_ca_certificate"),
				"Missing Nested Attribute",
				"cluster_master_auth was provided but does not contain cluster_ca_certificate. Pass the full master_auth output of the cluster, or use the top-level cluster_ca_certificate attribute instead.",
			)
			return identity, false
		}
		identity.ClusterCACertificate = data.ClusterMasterAuth.ClusterCACertificate.ValueString()
	} else {
		identity.ClusterCACertificate = data.ClusterCACertificate.ValueString()
	}

	return identity, true
}

// identityHash derives a stable ID from the resolved inputs so the ID only
// changes when the rendered document would.
func identityHash(id corekubeconfig.ClusterIdentity) string {
	h := sha256.Sum256([]byte(strings.Join([]string{
		id.ClusterName, id.ClusterEndpoint, id.ClusterCACertificate,
	}, "\x00")))
	return fmt.Sprintf("kubeconfig-%x", h[:6])
}
