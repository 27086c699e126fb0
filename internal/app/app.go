// Package app wires configuration into a ready-to-use sync engine: local
// cache, remote tiers, identity resolver, store, and photo uploader.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/garciabuilder/profilesync/internal/config"
	"github.com/garciabuilder/profilesync/internal/identity"
	"github.com/garciabuilder/profilesync/internal/logging"
	"github.com/garciabuilder/profilesync/internal/profile"
	"github.com/garciabuilder/profilesync/internal/tiers"
	"github.com/garciabuilder/profilesync/internal/tiers/localcache"
	"github.com/garciabuilder/profilesync/internal/tiers/remotemeta"
	"github.com/garciabuilder/profilesync/internal/tiers/remotetable"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	cache    *localcache.Cache
	table    *remotetable.Adapter
	Store    *profile.Store
	Uploader *profile.Uploader
}

// New builds the engine. The local cache must open; an unreachable database
// only costs the relational tier, the engine still runs against the
// metadata tier and the cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault(slog.LevelInfo)

	cache, err := localcache.OpenFile(ctx, cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("local cache init error: %w", err)
	}

	var remotes []tiers.Tier

	table, err := remotetable.Open(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		log.Warn(ctx, "relational tier unavailable, continuing without it", "error", err)
	} else {
		remotes = append(remotes, table)
	}

	meta := remotemeta.New(cfg.AuthBaseURL, cfg.AuthAPIKey, cfg.AuthServiceToken, cfg.RequestTimeout, log)
	remotes = append(remotes, meta)

	resolver := identity.NewResolver(cache, log)
	store := profile.NewStore(remotes, cache, resolver, log, profile.Options{
		WeightHistoryCap: cfg.WeightHistoryCap,
	})

	uploader := profile.NewUploader(profile.S3Settings{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})

	return &App{
		config:   cfg,
		log:      log,
		cache:    cache,
		table:    table,
		Store:    store,
		Uploader: uploader,
	}, nil
}

// Run loads the profile for the session described by the environment
// (PROFILE_USER_ID, PROFILE_ACCESS_TOKEN, PROFILE_EMAIL, PROFILE_NAME) and
// prints the merged snapshot.
func (a *App) Run(ctx context.Context, out io.Writer) error {
	sess := &identity.Session{
		UserID:      os.Getenv("PROFILE_USER_ID"),
		AccessToken: os.Getenv("PROFILE_ACCESS_TOKEN"),
		Email:       os.Getenv("PROFILE_EMAIL"),
		FullName:    os.Getenv("PROFILE_NAME"),
	}

	snap, err := a.Store.Load(ctx, sess)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (a *App) Close() {
	if a.table != nil {
		if err := a.table.Close(); err != nil {
			a.log.Warn(context.Background(), "failed to close relational tier", "error", err)
		}
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close local cache", "error", err)
	}
}
