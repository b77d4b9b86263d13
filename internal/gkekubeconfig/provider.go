package gkekubeconfig

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"

	kubeconfigds "github.com/clusterkit/terraform-provider-gkekubeconfig/internal/gkekubeconfig/datasource/kubeconfig"
)

// version is set by ldflags during build
var version string = "dev"

// Ensure we implement the provider interface
var _ provider.Provider = (*gkekubeconfigProvider)(nil)

// gkekubeconfigProviderModel describes the provider data model.
type gkekubeconfigProviderModel struct {
	// Empty - no provider configuration
}

// gkekubeconfigProvider serves the single kubeconfig data source. It holds
// no state of its own: every instantiation of the data source is an
// independent pure computation over its attributes.
type gkekubeconfigProvider struct{}

// New returns a factory for gkekubeconfigProvider
func New() provider.Provider {
	return &gkekubeconfigProvider{}
}

func (p *gkekubeconfigProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "gkekubeconfig"
	resp.Version = version
}

func (p *gkekubeconfigProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Generates kubeconfig documents for GKE clusters from their connection attributes, using exec-based authentication via gke-gcloud-auth-plugin.",
		Attributes:  map[string]schema.Attribute{},
	}
}

func (p *gkekubeconfigProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var config gkekubeconfigProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
}

func (p *gkekubeconfigProvider) Resources(ctx context.Context) []func() resource.Resource {
	return nil
}

func (p *gkekubeconfigProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		kubeconfigds.NewKubeconfigDataSource,
	}
}
