package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/mailpage/internal/adapters/driven/attachments"
	"github.com/custodia-labs/mailpage/internal/adapters/driven/config/file"
	"github.com/custodia-labs/mailpage/internal/adapters/driven/notion"
	"github.com/custodia-labs/mailpage/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/mailpage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/mailpage/internal/adapters/driving/cli"
	"github.com/custodia-labs/mailpage/internal/catalog"
	"github.com/custodia-labs/mailpage/internal/connectors/eml"
	"github.com/custodia-labs/mailpage/internal/connectors/google"
	"github.com/custodia-labs/mailpage/internal/connectors/google/gmail"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/services"
	"github.com/custodia-labs/mailpage/internal/logger"
	"github.com/custodia-labs/mailpage/internal/properties"
	"github.com/custodia-labs/mailpage/internal/relation"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

// connectTimeout bounds startup calls to external services.
const connectTimeout = 5 * time.Second

// app holds the wired services and the resources they own.
type app struct {
	services cli.Services
	closers  []func() error
}

// newApp wires every adapter. home overrides ~/.mailpage when set.
func newApp(home string) (*app, error) {
	a := &app{}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	dataDir := ""
	if home != "" {
		dataDir = filepath.Join(home, "data")
	}
	store, err := sqlite.NewStore(dataDir, sqlite.WithWriteLogTTL(settings.WriteLog.TTL))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	fieldCatalog := catalog.New()
	transformations := transforms.New()
	factory := notion.NewFactory()
	apiKey := func() string {
		s, err := settingsService.Get()
		if err != nil {
			return ""
		}
		return s.Notion.APIKey
	}

	files := eml.NewSource()
	var messages driven.MessageSource
	fetchers := attachments.Chain{files}
	var uploader attachments.Uploader
	if src, up := a.connectGoogle(settings); src != nil {
		messages = src
		fetchers = append(fetchers, src)
		uploader = up
	}

	resolver := relation.NewResolver(factory, relation.NewCache(settings.Relation.CacheTTL),
		transformations, relation.WithTimeout(settings.Relation.Timeout))
	registry, err := properties.NewRegistry(properties.Deps{
		Catalog:     fieldCatalog,
		Transforms:  transformations,
		Directory:   notion.NewDirectory(factory, apiKey),
		Attachments: attachments.NewService(fetchers, uploader),
		Resolver:    resolver,
		APIKey:      apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("build property handlers: %w", err)
	}
	engine := services.NewMappingService(registry)

	a.services = cli.Services{
		Settings:        settingsService,
		Configuration:   services.NewConfigurationService(settingsService, factory, store.MappingStore(), engine, fieldCatalog),
		Writer:          services.NewPageWriter(settingsService, factory, store.MappingStore(), engine, a.writeLog(settings, store)),
		Fields:          fieldCatalog,
		Transformations: transformations,
		Gmail:           messages,
		Files:           files,
	}
	return a, nil
}

// connectGoogle builds the Gmail source and Drive uploader when Gmail
// credentials are configured. Failures leave Gmail unavailable.
func (a *app) connectGoogle(settings *domain.AppSettings) (*gmail.Source, attachments.Uploader) {
	if !settings.Gmail.IsConfigured() {
		return nil, nil
	}
	ctx := context.Background()
	ts, err := google.NewTokenSource(ctx, settings.Gmail)
	if err != nil {
		logger.Warn("gmail unavailable", "error", err)
		return nil, nil
	}
	gmailSvc, err := google.NewGmailService(ctx, ts)
	if err != nil {
		logger.Warn("gmail unavailable", "error", err)
		return nil, nil
	}
	src := gmail.NewSource(gmailSvc, settings.Gmail.User)

	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		logger.Warn("drive unavailable, attachments will be linked", "error", err)
		return src, nil
	}
	return src, attachments.NewDriveUploader(driveSvc, settings.Attachments.DriveFolderID)
}

// writeLog selects the duplicate write guard. A Redis backend that cannot
// be reached falls back to the local store.
func (a *app) writeLog(settings *domain.AppSettings, store *sqlite.Store) driven.WriteLog {
	switch settings.WriteLog.Backend {
	case services.WriteLogNone:
		return nil
	case services.WriteLogRedis:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		rdb, err := redis.Connect(ctx, settings.WriteLog.RedisURL)
		if err != nil {
			logger.Warn("redis write log unavailable, using local store", "error", err)
			return store.WriteLog()
		}
		a.closers = append(a.closers, rdb.Close)
		return redis.NewWriteLog(rdb, settings.WriteLog.TTL)
	default:
		return store.WriteLog()
	}
}

// Services returns the services for the CLI.
func (a *app) Services() cli.Services {
	return a.services
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}
