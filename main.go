package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/feed"
	"github.com/llehouerou/reel/internal/locator"
	"github.com/llehouerou/reel/internal/logger"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/viewer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "extra config file (overrides the defaults)")
		feedPath   = flag.String("feed", "", "feed file to import (overrides the config)")
		startStory = flag.IntP("story", "s", -1, "open the viewer at this story index")
	)
	flag.Parse()

	var extra []string
	if *configPath != "" {
		extra = append(extra, *configPath)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if *feedPath != "" {
		cfg.Feed = *feedPath
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
	}
	log, closer, err := logger.Open(logPath, cfg.Log.Level)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
	}
	defer closer.Close()

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreOpen, err))
	}
	store, err := feed.OpenStore(dbPath)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreOpen, err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var importer app.Importer
	var src *feed.FileSource
	if cfg.HasFeed() {
		src = feed.NewFileSource(cfg.Feed, log)
		importer = func(ctx context.Context) (int, error) {
			return feed.Import(ctx, src, store)
		}
		if n, err := importer(ctx); err != nil {
			// keep whatever the store already has
			log.Warn("initial import", "path", cfg.Feed, "err", err)
		} else {
			log.Info("imported feed", "path", cfg.Feed, "snaps", n)
		}
	}

	rewriter := locator.Rewriter{Platform: cfg.PlatformValue()}
	photoW := uint(cfg.PhotoWidth)
	manager := media.NewManager(
		media.NewStreamDecoder(nil),
		media.WithPhotos(media.NewPhotoCache(nil, photoW, photoW*2)),
		media.WithRewrite(rewriter.Rewrite),
		media.WithLogger(log.With("component", "media")),
	)
	defer manager.Close()

	engine := playback.New(manager, playback.WithLogger(log.With("component", "playback")))
	defer engine.Close()

	model := app.New(store, viewer.New(engine, manager),
		app.WithImporter(importer),
		app.WithLogger(log),
		app.WithInitialStory(*startStory),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if src != nil {
		watch(ctx, src, store, p, log)
	}

	if _, err := p.Run(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}

// watch re-imports the feed file whenever it changes and tells the program.
func watch(ctx context.Context, src *feed.FileSource, store *feed.Store, p *tea.Program, log *slog.Logger) {
	err := src.Watch(ctx, func(c story.Collection, err error) {
		if err == nil {
			err = store.Replace(ctx, c)
		}
		if err != nil {
			log.Warn("feed update", "path", src.Path(), "err", err)
		}
		p.Send(app.FeedChangedMsg{Err: err})
	})
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpFeedWatch, err))
	}
}
