// Command bspricer 以 HTTP 接口提供定点 Black-Scholes 报价。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wyfcoding/bsengine/app"
)

const serviceName = "bspricer"

var version = "dev"

func main() {
	confPath := flag.String("conf", "./configs/config.toml", "path to config file")
	flag.Parse()

	application, err := app.NewBuilder(serviceName).
		WithConfigPath(*confPath).
		WithVersion(version).
		Build(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}
