package router

import (
	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/container"
	esinfra "github.com/oksasatya/stands-ims/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/stands-ims/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/stands-ims/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
	"github.com/oksasatya/stands-ims/internal/router/modules"
)

// Services are the application services built from the container.
type Services struct {
	Accounts    *application.AccountService
	Permissions *application.PermissionService
	People      *application.PersonService
	Records     *application.RecordService
	Listing     *application.ListingService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	accounts := pginfra.NewAccountRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	people := pginfra.NewPersonRepository(pool)
	records := pginfra.NewTemperatureRecordRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	tx := pginfra.NewTxManager(pool)

	// optional infrastructure stays a nil interface when absent
	var mail application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}
	var avatars application.AvatarStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = gcsinfra.NewAvatarStore(gcs, cfg.GCSBucket)
	}
	var index application.PersonIndex
	if es := container.GetES(); es != nil {
		index = esinfra.NewPeopleIndex(es, cfg.ESPeopleIndex)
	}

	return Services{
		Accounts:    application.NewAccountService(accounts, profiles, tx, container.GetJWT(), rdb, mail, avatars, cfg, logger),
		Permissions: application.NewPermissionService(accounts, roles, tx, rdb, cfg.PermissionCacheTTL, logger),
		People:      application.NewPersonService(people, index, cfg.Listing().Location, logger),
		Records:     application.NewRecordService(people, records, cfg.TemperatureBounds(), logger),
		Listing:     application.NewListingService(people, records, cfg.Listing()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildServices()

	guard := modules.Guard{
		Auth:  middleware.Auth(container.GetRedis(), container.GetJWT(), cfg.LoginURL),
		Perms: svc.Permissions,
		RDB:   container.GetRedis(),
	}

	var mail application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(svc.Accounts, logger, cfg.CookieDomain, cfg.CookieSecure), guard))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Accounts, logger), guard))
	r.Add(modules.NewPeopleModule(handlers.NewPersonHandler(svc.People, svc.Listing, logger), guard))
	r.Add(modules.NewRecordsModule(handlers.NewRecordHandler(svc.Records, svc.Listing, cfg.RecordSuccessURL, logger), guard))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Permissions, cfg.PageSize, logger), guard))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(mail, logger, cfg), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(guard))
	}
}
