// internal/adapters/out/gcs/image_signer.go
package gcs

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	productdom "storefront/internal/domain/product"
)

const defaultImageURLTTL = 15 * time.Minute

// SignFunc issues a signed GET URL for bucket/object.
type SignFunc func(bucket, object string, expires time.Time) (string, error)

// StorageSigner signs with the client's credentials (service account key or IAM signBlob).
func StorageSigner(client *storage.Client) SignFunc {
	return func(bucket, object string, expires time.Time) (string, error) {
		// GET: no ContentType, so a plain <img> fetch matches the signature
		return client.Bucket(bucket).SignedURL(object, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  "GET",
			Expires: expires,
		})
	}
}

// SignedImageCatalog decorates a catalog so product imageUrl values of the form
// gs://bucket/object come back as short-lived signed URLs. Other URLs pass through.
type SignedImageCatalog struct {
	next productdom.Catalog
	sign SignFunc
	ttl  time.Duration
	now  func() time.Time
}

func NewSignedImageCatalog(next productdom.Catalog, sign SignFunc, ttl time.Duration) *SignedImageCatalog {
	if ttl <= 0 {
		ttl = defaultImageURLTTL
	}
	return &SignedImageCatalog{
		next: next,
		sign: sign,
		ttl:  ttl,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

var _ productdom.Catalog = (*SignedImageCatalog)(nil)

func (c *SignedImageCatalog) Exists(ctx context.Context, id string) (bool, error) {
	return c.next.Exists(ctx, id)
}

func (c *SignedImageCatalog) FindByID(ctx context.Context, id string) (productdom.Product, bool, error) {
	p, ok, err := c.next.FindByID(ctx, id)
	if err != nil || !ok {
		return p, ok, err
	}
	return c.resolve(ctx, p), true, nil
}

func (c *SignedImageCatalog) FindMany(ctx context.Context, ids []string) (map[string]productdom.Product, error) {
	m, err := c.next.FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, p := range m {
		m[id] = c.resolve(ctx, p)
	}
	return m, nil
}

func (c *SignedImageCatalog) List(ctx context.Context, f productdom.Filter, p productdom.Page) ([]productdom.Product, error) {
	items, err := c.next.List(ctx, f, p)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = c.resolve(ctx, items[i])
	}
	return items, nil
}

// resolve never fails the read: a signing error leaves the gs:// reference in place.
func (c *SignedImageCatalog) resolve(ctx context.Context, p productdom.Product) productdom.Product {
	bucket, object, ok := ParseGSURL(p.ImageURL)
	if !ok || c.sign == nil {
		return p
	}

	u, err := c.sign(bucket, object, c.now().Add(c.ttl))
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("component", "gcs").
			Str("product_id", p.ID).
			Str("bucket", bucket).
			Msg("sign product image url failed")
		return p
	}
	p.ImageURL = strings.TrimSpace(u)
	return p
}

// ParseGSURL splits "gs://bucket/path/to/object".
func ParseGSURL(raw string) (bucket, object string, ok bool) {
	s := strings.TrimSpace(raw)
	rest, found := strings.CutPrefix(s, "gs://")
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || strings.Trim(object, "/") == "" {
		return "", "", false
	}
	return bucket, object, true
}
