package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	grantservice "repogrant/contexts/access-grant/grant-service"
	"repogrant/contexts/access-grant/grant-service/adapters/assetstore"
	"repogrant/contexts/access-grant/grant-service/adapters/gitlab"
	"repogrant/contexts/access-grant/grant-service/adapters/memory"
	postgresadapter "repogrant/contexts/access-grant/grant-service/adapters/postgres"
	"repogrant/contexts/access-grant/grant-service/adapters/recaptcha"
	"repogrant/contexts/access-grant/grant-service/application"
	"repogrant/contexts/access-grant/grant-service/domain/entities"
	"repogrant/contexts/access-grant/grant-service/ports"
	"repogrant/internal/platform/config"
	"repogrant/internal/platform/db"
	"repogrant/internal/platform/httpserver"
	"repogrant/internal/platform/messaging"
)

// Package bootstrap is the composition root. Keep construction/wiring here
// so service code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	mapping, err := entities.NewAssetRepoMapping(cfg.ProductIDs, cfg.ResourceIDs)
	if err != nil {
		return nil, fmt.Errorf("asset/repo mapping: %w", err)
	}

	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}
	purchases := assetstore.NewClient(cfg.PurchaseAPIURL, cfg.PurchaseAPIKey, upstream, logger)
	membership := gitlab.NewClient(cfg.MembershipAPIURL, cfg.MembershipToken, upstream, logger)

	var challenge ports.ChallengeVerifier
	if strings.TrimSpace(cfg.ChallengeSecret) != "" {
		challenge = recaptcha.NewVerifier(cfg.ChallengeVerifyURL, cfg.ChallengeSecret, upstream, logger)
	}

	var store ports.GrantStore
	var pg *db.Postgres
	if cfg.GrantStore == "memory" {
		store = memory.NewStore()
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.Migrate(); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrate grants table: %w", err)
		}
		store = repo
	}

	module := grantservice.NewModule(grantservice.Dependencies{
		Store:      store,
		Purchases:  purchases,
		Identities: membership,
		Membership: membership,
		Challenge:  challenge,
		Events:     messaging.NewBus(logger),
		Clock:      postgresadapter.SystemClock{},
		IDs:        postgresadapter.UUIDGenerator{},
		Mapping:    mapping,
		Policy: application.Policy{
			AllowEditAndDelete: cfg.AllowEditAndDelete,
			AllowRefunded:      cfg.AllowRefunded,
			AllowFree:          cfg.AllowFree,
		},
		AccessLevel: cfg.MembershipAccessLevel,
		Logger:      logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort), httpserver.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RedirectURL:    cfg.SuccessRedirectURL,
	})

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

func normalizeAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
