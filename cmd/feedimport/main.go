// Command feedimport loads a feed file into the story database without
// starting the viewer, and reports what the store holds afterwards.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/feed"
	"github.com/llehouerou/reel/internal/logger"
)

var (
	configPath = flag.String("config", "", "extra config file")
	feedPath   = flag.String("feed", "", "feed file (defaults to the configured one)")
	dbPath     = flag.String("db", "", "database path (defaults to the configured one)")
	prune      = flag.Bool("prune", true, "delete expired snaps after importing")
	dryRun     = flag.Bool("dry-run", false, "parse and validate the feed only")
)

var errNoFeed = errors.New("no feed file: set feed in the config or pass --feed")

func main() {
	flag.Parse()
	log := logger.NewConsole(os.Stderr, slog.LevelInfo)
	if err := run(log); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
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
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if !cfg.HasFeed() {
		return errNoFeed
	}

	// record the import in the application log too
	if logPath, err := cfg.LogPath(); err == nil {
		if fileLog, closer, err := logger.Open(logPath, cfg.Log.Level); err == nil {
			defer closer.Close()
			log = logger.Fanout(log, fileLog.With("component", "feedimport"))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := feed.NewFileSource(cfg.Feed, log).Load(ctx)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpFeedLoad, err))
	}
	now := time.Now()
	fmt.Printf("%s: %d stories, %d snaps (%d active)\n",
		cfg.Feed, len(c), c.TotalSnaps(), c.Active(now).TotalSnaps())
	if *dryRun {
		return nil
	}

	path, err := cfg.DatabasePath()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreOpen, err))
	}
	store, err := feed.OpenStore(path)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreOpen, err))
	}
	defer store.Close()

	if err := store.Replace(ctx, c); err != nil {
		return errors.New(errmsg.Format(errmsg.OpFeedImport, err))
	}
	log.Info("imported feed", "path", cfg.Feed, "snaps", c.TotalSnaps())

	if *prune {
		n, err := store.PruneExpired(ctx, now)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpFeedPrune, err))
		}
		fmt.Printf("pruned %s expired snaps\n", humanize.Comma(n))
	}

	stories, snaps, err := store.Counts(ctx)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreLoad, err))
	}
	playable, err := feed.StoreSource{Store: store}.Load(ctx)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStoreLoad, err))
	}
	size := "?"
	if fi, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Printf("%s: %d stories, %d snaps (%d playable), %s\n",
		path, stories, snaps, playable.TotalSnaps(), size)
	return nil
}
