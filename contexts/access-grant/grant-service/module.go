package grantservice

import (
	"log/slog"

	httpadapter "repogrant/contexts/access-grant/grant-service/adapters/http"
	"repogrant/contexts/access-grant/grant-service/adapters/memory"
	"repogrant/contexts/access-grant/grant-service/application"
	"repogrant/contexts/access-grant/grant-service/domain/entities"
	"repogrant/contexts/access-grant/grant-service/ports"
)

// Module is the grant-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   ports.GrantStore
}

// Dependencies captures all runtime ports and policy required by NewModule.
// Challenge and Events may be nil when the deployment does not configure
// them.
type Dependencies struct {
	Store       ports.GrantStore
	Purchases   ports.PurchaseVerifier
	Identities  ports.IdentityDirectory
	Membership  ports.MembershipClient
	Challenge   ports.ChallengeVerifier
	Events      ports.EventPublisher
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Mapping     entities.AssetRepoMapping
	Policy      application.Policy
	AccessLevel int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Store:       deps.Store,
		Purchases:   deps.Purchases,
		Identities:  deps.Identities,
		Membership:  deps.Membership,
		Challenge:   deps.Challenge,
		Events:      deps.Events,
		Clock:       deps.Clock,
		IDs:         deps.IDs,
		Mapping:     deps.Mapping,
		Policy:      deps.Policy,
		AccessLevel: deps.AccessLevel,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Store:   deps.Store,
	}
}

// NewInMemoryModule wires the module over the in-memory store. Upstream
// collaborators still come from deps; only the grant store is substituted.
func NewInMemoryModule(deps Dependencies, logger *slog.Logger) Module {
	deps.Store = memory.NewStore()
	deps.Logger = logger
	return NewModule(deps)
}
