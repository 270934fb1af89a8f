package cmd

import (
	"example.com/fieldtrack/agent/config"
	"example.com/fieldtrack/agent/internal/client"
	"example.com/fieldtrack/agent/internal/kvstore"
	"example.com/fieldtrack/agent/internal/repository"
	"example.com/fieldtrack/agent/internal/service"
	"example.com/fieldtrack/agent/internal/storage"
)

// buildService wires the reconciliation layer for a command invocation. The
// returned cleanup closes the local database.
func buildService(camera storage.Camera) (*service.Service, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := kvstore.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Error closing local database")
		}
	}

	media, err := storage.NewMediaStore(storage.MediaConfig{
		DataDir:        cfg.Storage.MediaDir,
		GalleryDir:     cfg.Storage.GalleryDir,
		GalleryEnabled: cfg.Storage.GalleryEnabled,
		Logger:         log,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	remote := client.New(client.Config{
		BaseURL:      cfg.Remote.BaseURL,
		ShortTimeout: cfg.Remote.ShortTimeout,
		BulkTimeout:  cfg.Remote.BulkTimeout,
	}, log)

	dirty := repository.NewDirtyFlag(store)

	svc, err := service.NewService(service.ServiceConfig{
		Records:     repository.NewRecordStore(store, dirty, log),
		Attachments: repository.NewAttachmentStore(store, cfg.Attachments.MaxPerInstitution, log),
		Staging:     repository.NewStagingStore(store, cfg.Attachments.MaxPerInstitution, log),
		Dirty:       dirty,
		Session:     repository.NewSessionStore(store),
		Remote:      remote,
		Media:       media,
		Camera:      camera,
		Logger:      log,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return svc, cfg, cleanup, nil
}
