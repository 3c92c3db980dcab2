// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/option"

	mongoout "storefront/internal/adapters/out/mongo"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
	"storefront/internal/infra/logging"
	"storefront/internal/infra/secret"
)

// Infra owns the process-wide external clients. Each client is created once,
// only when the configured backends need it, and released by Close.
//
// Infra must NOT depend on routers, handlers or usecases.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Mongo         *mongo.Client
	MongoDB       *mongo.Database
	Postgres      *database.DB

	log zerolog.Logger
}

// NewInfra initializes shared infra for cfg.
// Backend clients are strict (return error). Firebase Auth is best-effort:
// without it the cart routes answer 503.
func NewInfra(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: strings.TrimSpace(cfg.GetFirestoreProjectID()),
		log:       logging.Component("shared.infra"),
	}

	clientOpts := inf.clientOptions()

	// 1) Secret Manager, only when a DSN is an sm:// reference
	if secret.IsRef(cfg.MongoURI) || secret.IsRef(cfg.PostgresDSN) {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("shared.infra: secretmanager.NewClient failed: %w", err)
		}
		inf.SecretManager = sm

		if err := secret.NewResolver(sm, inf.ProjectID).ResolveAll(ctx, &cfg.MongoURI, &cfg.PostgresDSN); err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: resolve secrets: %w", err)
		}
		inf.log.Info().Msg("secret references resolved")
	}

	// 2) Firestore
	if cfg.UsesBackend(appcfg.BackendFirestore) {
		fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
		}
		inf.Firestore = fsClient
		inf.log.Info().Str("project", inf.ProjectID).Msg("firestore connected")
	}

	// 3) MongoDB
	if cfg.UsesBackend(appcfg.BackendMongo) {
		mc, err := mongoout.Connect(ctx, cfg.MongoURI)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.Mongo = mc
		inf.MongoDB = mc.Database(cfg.MongoDatabase)
		inf.log.Info().Str("database", cfg.MongoDatabase).Msg("mongodb connected")
	}

	// 4) PostgreSQL (catalog only)
	if cfg.CatalogBackend == appcfg.BackendPostgres {
		db, err := database.NewConnection(ctx, cfg.PostgresDSN)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.Postgres = db
	}

	// 5) GCS, for signed product image URLs
	if cfg.ProductImageSigning {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		inf.GCS = gcsClient
		inf.log.Info().Msg("gcs storage client initialized")
	}

	// 6) Firebase App/Auth (best-effort)
	inf.initFirebase(ctx, clientOpts)

	return inf, nil
}

func (i *Infra) clientOptions() []option.ClientOption {
	credFile := strings.TrimSpace(i.Config.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(i.Config.GCPCreds)
	}
	if credFile == "" {
		i.log.Info().Msg("using application default credentials")
		return nil
	}
	i.log.Info().Str("credentials", redactPath(credFile)).Msg("using credentials file for GCP clients")
	return []option.ClientOption{option.WithCredentialsFile(credFile)}
}

func (i *Infra) initFirebase(ctx context.Context, opts []option.ClientOption) {
	fbCfg := &firebase.Config{ProjectID: strings.TrimSpace(i.Config.GetFirebaseProjectID())}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		i.log.Warn().Err(err).Msg("firebase app init failed; cart routes will answer 503")
		return
	}
	i.FirebaseApp = app

	authClient, err := app.Auth(ctx)
	if err != nil {
		i.log.Warn().Err(err).Msg("firebase auth init failed; cart routes will answer 503")
		return
	}
	i.FirebaseAuth = authClient
	i.log.Info().Msg("firebase auth initialized")
}

// Close releases every client that was opened. Safe on a partially built Infra.
func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.Firestore != nil {
		errs = append(errs, i.Firestore.Close())
	}
	if i.GCS != nil {
		errs = append(errs, i.GCS.Close())
	}
	if i.SecretManager != nil {
		errs = append(errs, i.SecretManager.Close())
	}
	if i.Mongo != nil {
		errs = append(errs, i.Mongo.Disconnect(context.Background()))
	}
	if i.Postgres != nil {
		errs = append(errs, i.Postgres.Close())
	}
	return errors.Join(errs...)
}

// redactPath keeps only the last path segment.
func redactPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
