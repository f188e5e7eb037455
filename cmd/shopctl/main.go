// Command shopctl drives the cart, wishlist and checkout against a running
// store from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/session"
)

const usage = `usage: shopctl <command> [flags]

commands:
  register, login, logout, me
  products, product <id>
  cart, add, qty, size, remove, clear
  wishlist [add|remove <id>]
  quote, checkout
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.ClientFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.LogLevel, "shopctl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			logger.Fatal("locate config dir", zap.Error(err))
		}
		tokenFile = filepath.Join(dir, "shopctl", "token")
	}

	sh, err := newShell(cfg, session.NewFileStore(tokenFile), logger, os.Stdout, os.Stderr)
	if err != nil {
		logger.Fatal("init client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sh.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
