package main

import (
	"fmt"
	"os"
	"time"

	"vimana/internal/commands"
	"vimana/internal/content"
	"vimana/internal/debug"
	"vimana/internal/engineconfig"
	"vimana/internal/env"
	"vimana/internal/game"
	"vimana/internal/graphics"
	"vimana/internal/hud"
	"vimana/internal/logger"
	"vimana/internal/scene"
	"vimana/internal/terminal"
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
	log, err := logger.New(logger.Options{Level: prefs.LogLevel, Console: prefs.LogToConsole, Path: logger.LogFilePath})
	if err != nil {
		return err
	}
	defer log.Close()

	cat, err := content.Default()
	if err != nil {
		return err
	}
	session, err := game.New(cat, game.OptionsFromPrefs(prefs), log.Zerolog())
	if err != nil {
		return err
	}
	defer session.Close()

	scn := scene.New(prefs.Debug.GridVisible)
	dbg := debug.New()
	dbg.SetShowFPS(prefs.Debug.ShowFPS)
	dbg.SetShowMemAlloc(prefs.Debug.ShowMemAlloc)

	persist := func(edit func(*engineconfig.DebugPrefs)) {
		edit(&prefs.Debug)
		if err := engineconfig.Save(".", prefs); err != nil {
			log.Log("save preferences: " + err.Error())
		}
	}
	reg := commands.NewRegistry()
	commands.RegisterGame(reg, session, commands.Hooks{
		ShowFPS: func(v bool) {
			dbg.SetShowFPS(v)
			persist(func(d *engineconfig.DebugPrefs) { d.ShowFPS = v })
		},
		ShowMemAlloc: func(v bool) {
			dbg.SetShowMemAlloc(v)
			persist(func(d *engineconfig.DebugPrefs) { d.ShowMemAlloc = v })
		},
		ShowGrid: func(v bool) {
			scn.SetGridVisible(v)
			persist(func(d *engineconfig.DebugPrefs) { d.GridVisible = v })
		},
	}, log.Log)

	kb := graphics.NewKeyboard(session.Input)
	term := terminal.New(log, reg)
	term.OnToggle = func(open bool) {
		if open {
			kb.Suspend()
		} else {
			kb.Resume()
		}
	}

	update := func(dt time.Duration) {
		kb.Poll()
		term.Update()
		session.Frame(dt)
		scn.Update(session)
	}
	draw := func() {
		scn.Draw(session)
		dbg.Draw(hud.Build(session.Store.Snapshot(), cat, session.World.Field.TransitionProgress()))
		term.Draw()
	}
	graphics.Run(prefs.Window, update, draw)
	return nil
}
