package container

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-ddd-storefront/config"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/auth"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/firestore"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/go-ddd-storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
	"github.com/oksasatya/go-ddd-storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-storefront/pkg/mailer/templates"
)

// Closer releases what a builder opened.
type Closer func()

// BuildStore opens the document store named by cfg.StoreBackend and records
// the underlying client in the container.
func BuildStore(ctx context.Context, c *config.Config) (repository.Store, Closer, error) {
	switch c.StoreBackend {
	case "memory":
		return memory.NewStore(), func() {}, nil

	case "redis":
		rdb := GetRedis()
		if rdb == nil {
			return nil, nil, fmt.Errorf("STORE_BACKEND=redis needs REDIS_ADDR")
		}
		return redisstore.NewStore(rdb, redisstore.DefaultPrefix), func() {}, nil

	case "postgres":
		if err := pginfra.RunMigrations(c.PostgresDSN(), c.MigrationsDir, logger); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, c.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    c.DBMaxConns,
			MinConns:    c.DBMinConns,
			MaxConnLife: c.DBMaxConnLife,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		SetPGPool(pool)
		return pginfra.NewDocumentStore(pool), pool.Close, nil

	case "firestore":
		app, err := firebaseAppFor(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		fs, err := firestore.NewStore(ctx, app)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { _ = fs.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
}

// BuildAuthenticator returns the authenticator named by cfg.AuthBackend.
// The local one keeps its accounts in store.
func BuildAuthenticator(ctx context.Context, c *config.Config, store repository.Store) (service.Authenticator, error) {
	switch c.AuthBackend {
	case "local":
		return auth.NewLocal(store), nil
	case "firebase":
		app, err := firebaseAppFor(ctx, c)
		if err != nil {
			return nil, err
		}
		admin, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		return auth.NewFirebase(ctx, admin, option.WithAPIKey(c.FirebaseAPIKey))
	}
	return nil, fmt.Errorf("unknown AUTH_BACKEND %q", c.AuthBackend)
}

// BuildNotifier returns the contact message sender for cfg.MailDelivery.
func BuildNotifier(c *config.Config) (service.Notifier, Closer, error) {
	if !c.MailSendEnabled {
		return &notify.Disabled{Logger: logger}, func() {}, nil
	}
	env := notify.Envelope{
		Inbox: c.ContactInbox,
		Branding: mailtpl.Branding{
			AppName:        c.AppName,
			CompanyName:    c.CompanyName,
			CompanyAddress: c.CompanyAddress,
			LogoURL:        c.LogoURL,
			SupportURL:     c.SupportURL,
		},
	}
	switch c.MailDelivery {
	case "direct":
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			return nil, nil, fmt.Errorf("mailgun not configured")
		}
		mg := mailer.NewMailgun(c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender)
		mg.Timeout = c.RemoteCallTimeout
		SetMailgun(mg)
		return &notify.Direct{Sender: mg, Envelope: env}, func() {}, nil
	case "queue":
		pub, err := helpers.NewRabbitPublisher(c.RabbitMQURL, c.RabbitMQEmailQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		SetRabbitPub(pub)
		return &notify.Queued{Publisher: pub, Envelope: env}, pub.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown MAIL_DELIVERY %q", c.MailDelivery)
}

func firebaseAppFor(ctx context.Context, c *config.Config) (*firebase.App, error) {
	if app := GetFirebase(); app != nil {
		return app, nil
	}
	app, err := helpers.NewFirebaseApp(ctx, c.FirebaseProjectID, c.FirebaseCredentialsPath)
	if err != nil {
		return nil, err
	}
	SetFirebase(app)
	return app, nil
}
