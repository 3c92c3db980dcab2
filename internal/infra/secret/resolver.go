// internal/infra/secret/resolver.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

// Scheme marks a config value that must be fetched from Secret Manager:
//
//	sm://db-dsn            -> projects/<project>/secrets/db-dsn/versions/latest
//	sm://db-dsn#3          -> .../versions/3
//	sm://projects/p/secrets/db-dsn#latest
const Scheme = "sm://"

var ErrNotConfigured = errors.New("secret: resolver not configured")

// Accessor is the subset of *secretmanager.Client the resolver needs.
type Accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type Resolver struct {
	sm        Accessor
	projectID string
}

func NewResolver(sm Accessor, projectID string) *Resolver {
	return &Resolver{sm: sm, projectID: strings.TrimSpace(projectID)}
}

// IsRef reports whether v is an sm:// reference.
func IsRef(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), Scheme)
}

// Resolve returns v unchanged unless it is an sm:// reference, in which case
// the secret payload (trimmed) is returned.
func (r *Resolver) Resolve(ctx context.Context, v string) (string, error) {
	if !IsRef(v) {
		return v, nil
	}
	if r == nil || r.sm == nil {
		return "", ErrNotConfigured
	}

	name, err := r.versionName(v)
	if err != nil {
		return "", err
	}

	resp, err := r.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secret: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secret: empty payload (%s)", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

// ResolveAll resolves each pointed-to value in place.
func (r *Resolver) ResolveAll(ctx context.Context, values ...*string) error {
	for _, p := range values {
		if p == nil || !IsRef(*p) {
			continue
		}
		v, err := r.Resolve(ctx, *p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func (r *Resolver) versionName(ref string) (string, error) {
	body := strings.TrimPrefix(strings.TrimSpace(ref), Scheme)
	body, version, _ := strings.Cut(body, "#")
	body = strings.Trim(body, "/")
	version = strings.TrimSpace(version)
	if version == "" {
		version = "latest"
	}
	if body == "" {
		return "", fmt.Errorf("secret: empty reference %q", ref)
	}

	if strings.HasPrefix(body, "projects/") {
		return body + "/versions/" + version, nil
	}
	if strings.Contains(body, "/") {
		return "", fmt.Errorf("secret: malformed reference %q", ref)
	}
	if r.projectID == "" {
		return "", fmt.Errorf("secret: project id required to resolve %q", ref)
	}
	return "projects/" + r.projectID + "/secrets/" + body + "/versions/" + version, nil
}
