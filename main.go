// main.go
package main

import (
	"context"
	"flag"
	"log"

	"github.com/clusterkit/terraform-provider-gkekubeconfig/internal/gkekubeconfig"
	"github.com/hashicorp/terraform-plugin-framework/providerserver"
)

func main() {
	var debug bool

	flag.BoolVar(&debug, "debug", false, "set to true to run the provider with support for debuggers like delve")
	flag.Parse()

	opts := providerserver.ServeOpts{
		Address: "registry.terraform.io/clusterkit/gkekubeconfig",
		Debug:   debug,
	}

	err := providerserver.Serve(context.Background(), gkekubeconfig.New, opts)

	if err != nil {
		log.Fatal(err.Error())
	}
}
