// Command datasetgen writes a synthetic coach export in the tabular format
// read by the bulk loader.
package main

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/biruk-1/Health-coach-sub000/internal/config"
	"github.com/biruk-1/Health-coach-sub000/internal/events"
	"github.com/biruk-1/Health-coach-sub000/internal/synthetic"
	"github.com/biruk-1/Health-coach-sub000/internal/tabular"
	pkglog "github.com/biruk-1/Health-coach-sub000/pkg/log"
	"github.com/biruk-1/Health-coach-sub000/pkg/pubsub"
	"github.com/biruk-1/Health-coach-sub000/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	count := pflag.IntP("count", "n", cfg.Directory.SyntheticSize, "number of records to generate")
	seed := pflag.Int64("seed", cfg.Directory.Seed, "generator seed")
	key := pflag.String("key", cfg.Tabular.Key, "storage key of the export")
	notify := pflag.Bool("notify", cfg.Redis.Enabled, "publish a directory invalidation after writing")
	pflag.Parse()

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      true,
		ServiceName: "datasetgen",
	})
	logger := pkglog.L()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage.Driver, cfg.Storage.Local, cfg.Storage.S3)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	records := synthetic.New(*seed).Generate(*count)

	var buf bytes.Buffer
	if err := tabular.Write(&buf, records); err != nil {
		logger.Fatal().Err(err).Msg("failed to encode export")
	}
	size := int64(buf.Len())
	if err := store.Write(ctx, *key, &buf, size, "text/csv"); err != nil {
		logger.Fatal().Err(err).Str("key", *key).Msg("failed to write export")
	}
	logger.Info().
		Int(pkglog.FieldCount, len(records)).
		Int64("seed", *seed).
		Str("key", *key).
		Int64("bytes", size).
		Msg("export written")

	if !*notify {
		return
	}

	psCfg := pubsub.DefaultConfig()
	psCfg.Redis.Address = cfg.Redis.Address
	psCfg.Redis.Password = cfg.Redis.Password
	psCfg.Redis.DB = cfg.Redis.DB

	bus, err := pubsub.NewPubSub(psCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("event bus unavailable, directories will refresh on TTL")
	}
	defer bus.Close()

	if err := events.PublishInvalidated(ctx, bus, cfg.Events.Channel, "export rewritten"); err != nil {
		logger.Error().Err(err).Msg("failed to publish invalidation")
		return
	}
	logger.Info().Str("channel", cfg.Events.Channel).Msg("invalidation published")
}
