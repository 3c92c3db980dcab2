// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Config holds the process settings. Environment variables win over the
// optional YAML file named by APP_CONFIG_FILE, which wins over defaults.
type Config struct {
	Port   string
	AppEnv string

	LogLevel  string
	LogFormat string

	// STORE_BACKEND selects the cart store, CATALOG_BACKEND the product catalog.
	StoreBackend   string
	CatalogBackend string

	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	MongoURI      string
	MongoDatabase string

	PostgresDSN string

	CORSAllowedOrigins []string

	ProductImageSigning bool
	ProductImageURLTTL  time.Duration

	ShutdownTimeout time.Duration
}

// source resolves a key: env first, then the file overlay.
type source struct {
	file map[string]string
}

// Load reads the environment (and APP_CONFIG_FILE if set) and returns a validated Config.
func Load() (*Config, error) {
	src := source{file: map[string]string{}}
	if path := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); path != "" {
		m, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = m
	}
	return src.load()
}

func (s source) load() (*Config, error) {
	// base GCP project id
	defaultProject := s.getDefault("GCP_PROJECT_ID", s.getDefault("GOOGLE_CLOUD_PROJECT", ""))

	store := strings.ToLower(s.getDefault("STORE_BACKEND", BackendFirestore))

	cfg := &Config{
		Port:   s.getDefault("PORT", "8080"),
		AppEnv: s.getDefault("APP_ENV", "development"),

		LogLevel:  strings.ToLower(s.getDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(s.getDefault("LOG_FORMAT", "json")),

		StoreBackend:   store,
		CatalogBackend: strings.ToLower(s.getDefault("CATALOG_BACKEND", store)),

		GCPCreds:                 s.getDefault("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirestoreProjectID:       s.getDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: s.getDefault("FIRESTORE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:        s.getDefault("FIREBASE_PROJECT_ID", defaultProject),

		MongoURI:      s.getDefault("MONGO_URI", ""),
		MongoDatabase: s.getDefault("MONGO_DATABASE", "storefront"),

		PostgresDSN: s.getDefault("POSTGRES_DSN", ""),

		CORSAllowedOrigins: splitList(s.getDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.ProductImageSigning, err = s.getBool("PRODUCT_IMAGE_SIGNING", false); err != nil {
		return nil, err
	}
	if cfg.ProductImageURLTTL, err = s.getDuration("PRODUCT_IMAGE_URL_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = s.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendFirestore, BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("config: STORE_BACKEND %q is not one of firestore|mongo|memory", c.StoreBackend))
	}
	switch c.CatalogBackend {
	case BackendFirestore, BackendMongo, BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("config: CATALOG_BACKEND %q is not one of firestore|mongo|postgres|memory", c.CatalogBackend))
	}

	if c.UsesBackend(BackendFirestore) && c.FirestoreProjectID == "" {
		errs = append(errs, errors.New("config: FIRESTORE_PROJECT_ID (or GCP_PROJECT_ID) is required for the firestore backend"))
	}
	if c.UsesBackend(BackendMongo) && c.MongoURI == "" {
		errs = append(errs, errors.New("config: MONGO_URI is required for the mongo backend"))
	}
	if c.CatalogBackend == BackendPostgres && c.PostgresDSN == "" {
		errs = append(errs, errors.New("config: POSTGRES_DSN is required for the postgres catalog"))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("config: LOG_FORMAT %q is not one of json|console", c.LogFormat))
	}

	return errors.Join(errs...)
}

// UsesBackend reports whether either the store or the catalog runs on backend.
func (c *Config) UsesBackend(backend string) bool {
	return c.StoreBackend == backend || c.CatalogBackend == backend
}

// GetFirestoreProjectID returns the Firestore/GCP project id.
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// ------------------------------------------------------------
// lookup helpers
// ------------------------------------------------------------

func (s source) getDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.file[key]); v != "" {
		return v
	}
	return def
}

func (s source) getBool(key string, def bool) (bool, error) {
	v := s.getDefault(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func (s source) getDuration(key string, def time.Duration) (time.Duration, error) {
	v := s.getDefault(key, "")
	if v == "" {
		return def, nil
	}
	// bare integers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// readFile loads a flat YAML mapping of KEY: value using the environment variable names.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToUpper(strings.TrimSpace(k))
		switch x := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(x))
			for _, p := range x {
				parts = append(parts, fmt.Sprint(p))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(x)
		}
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
