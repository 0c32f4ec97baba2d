package main

import (
	"context"
	"convoease/app/client/groq"
	"convoease/app/config"
	"convoease/app/server"
	"convoease/app/service/mcpserver"
	"convoease/app/service/moderation"
	"convoease/app/service/panel"
	"convoease/app/service/rules"
	"convoease/app/service/session"
	"convoease/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, groq.NewClient)
	do.Provide(di, rules.New)
	do.Provide(di, session.New)
	do.Provide(di, moderation.New)
	do.Provide(di, panel.New)
	do.Provide(di, mcpserver.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	if cfg.MCP.Enabled {
		go do.MustInvoke[*mcpserver.Service](di).Run(appCtx)
	}

	go do.MustInvoke[*server.Service](di).Run(appCtx)

	<-appCtx.Done()
}
