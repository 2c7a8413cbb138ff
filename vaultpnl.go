// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"vaultpnl/internal/cli"
	"vaultpnl/internal/config"
	"vaultpnl/internal/handler"
	"vaultpnl/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", config.DefaultPath, "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(*cfg)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
