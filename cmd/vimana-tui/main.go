package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"vimana/internal/content"
	"vimana/internal/engineconfig"
	"vimana/internal/env"
	"vimana/internal/game"
	"vimana/internal/logger"
	"vimana/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := env.Load(".env"); err != nil {
		return err
	}
	prefs, err := engineconfig.Load(".")
	if err != nil {
		return err
	}
	// the screen owns stdout, so logs only go to the file
	log, err := logger.New(logger.Options{Level: prefs.LogLevel, Path: logger.LogFilePath})
	if err != nil {
		return err
	}
	defer log.Close()

	cat, err := content.Default()
	if err != nil {
		return err
	}
	opts := game.OptionsFromPrefs(prefs)
	opts.Headless = true
	session, err := game.New(cat, opts, log.Zerolog())
	if err != nil {
		return err
	}
	defer session.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := tui.New(session, cat, tui.DefaultOptions(), log.With("tui"))
	if err := app.Run(ctx, screen); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
