package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-storefront/config"
	"github.com/oksasatya/go-ddd-storefront/internal/container"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/infrastructure/document"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

// seed creates the demo account with an empty profile and uploads the
// catalog images to the asset bucket.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	container.SetConfig(cfg)
	container.SetLogger(logger)
	ctx := context.Background()

	if cfg.StoreBackend == "memory" {
		log.Fatal("STORE_BACKEND=memory keeps nothing between runs; pick redis, postgres or firestore")
	}
	if cfg.StoreBackend == "redis" {
		container.SetRedis(helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}

	store, closeStore, err := container.BuildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	authenticator, err := container.BuildAuthenticator(ctx, cfg, store)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	uid, err := authenticator.SignUp(ctx, cfg.SeedEmail, cfg.SeedPassword)
	switch {
	case errors.Is(err, apperr.ErrDuplicateAccount):
		fmt.Printf("demo account already exists: email=%s\n", cfg.SeedEmail)
	case err != nil:
		log.Fatalf("failed to seed account: %v", err)
	default:
		profiles := document.NewProfileRepository(store)
		if err := profiles.Save(ctx, uid, cfg.SeedEmail, &entity.Profile{
			ContactDetails: entity.ContactDetails{Name: "Cliente Demo"},
		}); err != nil {
			log.Fatalf("failed to seed profile: %v", err)
		}
		fmt.Printf("seeded account: id=%s email=%s password=%s\n", uid, cfg.SeedEmail, cfg.SeedPassword)
	}

	if cfg.GCSBucket == "" {
		fmt.Println("GCS_BUCKET not set; skipping catalog images")
		return
	}
	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcs.Close() }()

	for _, asset := range catalog.Assets() {
		f, err := os.Open(filepath.Join(cfg.AssetsDir, asset))
		if err != nil {
			logger.WithError(err).WithField("asset", asset).Warn("catalog image missing; skipped")
			continue
		}
		url, err := helpers.UploadObject(ctx, gcs, cfg.GCSBucket, helpers.CatalogImagePath(asset), mime.TypeByExtension(filepath.Ext(asset)), f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("upload %s: %v", asset, err)
		}
		fmt.Printf("uploaded %s -> %s\n", asset, url)
	}
}
