// Command warmcache pre-populates the image suggestion cache for every
// catalog record that lacks a photo. It drives the same suggestion service
// as the API, sequentially, so provider rate limits stay respected.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"smoothie-catalog/internal/core/dataset"
	"smoothie-catalog/internal/core/suggest"
	"smoothie-catalog/internal/infrastructure/config"
	"smoothie-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	maxRecords := flag.Int("max", 0, "stop after this many records (0 = all)")
	limit := flag.Int("limit", 8, "suggestions to fetch per record")
	force := flag.Bool("force", false, "refresh entries even when a live cache hit exists")
	pause := flag.Duration("pause", 300*time.Millisecond, "pause between provider fetches")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	catalog, err := dataset.NewProvider(cfg.Dataset.Path).Get()
	if err != nil {
		common.LogFatal("Failed to load dataset", zap.Error(err))
	}

	store := suggest.NewStore(cfg.Images.CachePath, cfg.Images.SeedCachePath)
	service := suggest.NewService(cfg, store)

	var processed, hits, fetched, failed int
	for _, s := range catalog.Smoothies {
		if s.HasImage {
			continue
		}
		if *maxRecords > 0 && processed >= *maxRecords {
			break
		}
		processed++

		res, err := service.Suggest(context.Background(), suggest.Request{
			Title:        s.Title,
			Tags:         s.Ingredients,
			Limit:        *limit,
			ForceRefresh: *force,
		})
		if err != nil {
			failed++
			common.LogWarn("suggestion failed",
				zap.String("id", s.ID),
				zap.Error(err),
			)
			continue
		}
		if res.FromCache {
			hits++
			continue
		}
		fetched++
		time.Sleep(*pause)
	}

	if err := store.Persist(); err != nil {
		common.LogWarn("final cache persist failed", zap.Error(err))
	}

	common.LogInfo("warm-up completed",
		zap.Int("processed", processed),
		zap.Int("cache_hits", hits),
		zap.Int("fetched", fetched),
		zap.Int("failed", failed),
		zap.Int("cache_entries", store.Len()),
	)
}
