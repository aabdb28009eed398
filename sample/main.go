// Command sample captures one fingerprint and prints the result document
// on stdout, or serves captures over HTTP with -serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jtejido/gbmscapture/config"
	"github.com/jtejido/gbmscapture/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	serve := fs.Bool("serve", false, "serve captures over HTTP instead of capturing once")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: sample [-config file.toml] [-serve] [timeout-seconds] [threshold] [mock] [verbose]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg.ApplyArgs(fs.Args())

	log, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(log)

	sdk, err := openSDK(cfg)
	if err != nil {
		log.Error("failed to open scanner", "error", err)
		return 1
	}
	s := newScanner(cfg, sdk, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		app := newApp(s)
		go func() {
			<-ctx.Done()
			_ = app.Shutdown()
		}()
		log.Warn("server starting", "addr", cfg.Server.Addr)
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Error("server stopped", "error", err)
			return 1
		}
		return 0
	}

	log.Info("starting fingerprint capture process")
	doc, ok := s.respond(s.capture(ctx, cfg.Capture.Timeout))
	if err := writeResult(os.Stdout, doc); err != nil {
		log.Error("failed to write result", "error", err)
		return 1
	}
	log.Info("fingerprint capture process finished", "ok", ok)
	return exitCode(ok)
}
