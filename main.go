// Package main provides the entry point for the balloon annotator.
package main

import (
	"flag"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/app"
	"balloon-annotator/internal/config"
	"balloon-annotator/internal/docsource"
	"balloon-annotator/internal/store"
	"balloon-annotator/internal/version"
	"balloon-annotator/ui/mainwindow"
	"balloon-annotator/ui/prefs"
)

func main() {
	inspectionID := flag.String("inspection", "", "inspection id to open")
	itemID := flag.String("item", "", "inspection item id to open")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	initLogging(cfg.LogLevel)

	log.Info().
		Str("version", version.Version).
		Str("commit", version.GitCommit).
		Msg("starting balloon annotator")

	cache, err := store.NewCache(cfg.CacheDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.CacheDir).Msg("annotation cache unavailable")
	}

	docs := docsource.NewClient(cfg.DocumentURL, cfg.RequestTimeout)
	remote := store.NewHTTPRemote(cfg.ReportURL, cfg.RequestTimeout)

	state := app.NewState()
	syncer := store.NewSyncer(remote, cache, cfg.SyncDebounce, state.Snapshot)
	syncer.OnResult(func(err error) {
		state.Emit(app.EventSyncStateChanged, err)
	})

	state.Balloons.OnChange(func(balloons []annotation.Balloon) {
		syncer.NoteChange(balloons)
		state.Emit(app.EventBalloonsChanged, nil)
	})
	state.Balloons.OnFlush(func(balloons []annotation.Balloon) {
		syncer.Flush()
	})

	appPrefs := prefs.Load()

	fa := fyneapp.NewWithID("balloon-annotator")
	win := mainwindow.New(fa, state, appPrefs, docs, remote, cache, syncer)

	// Fall back to the last opened item when none is given.
	insp, item := *inspectionID, *itemID
	if insp == "" && item == "" {
		insp = appPrefs.String(prefs.KeyLastInspectionID)
		item = appPrefs.String(prefs.KeyLastItemID)
	}
	if item != "" {
		win.OpenItem(insp, item)
	}

	win.ShowAndRun()
}

func initLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
