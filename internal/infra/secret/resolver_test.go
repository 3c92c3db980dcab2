package secret

import (
	"context"
	"errors"
	"testing"

	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSM struct {
	data  map[string]string
	names []string
}

func (f *fakeSM) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.names = append(f.names, req.GetName())
	v, ok := f.data[req.GetName()]
	if !ok {
		return nil, errors.New("not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Name:    req.GetName(),
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(v + "\n")},
	}, nil
}

func TestResolve(t *testing.T) {
	sm := &fakeSM{data: map[string]string{
		"projects/shop/secrets/mongo-uri/versions/latest": "mongodb://user:pw@db:27017",
		"projects/shop/secrets/pg-dsn/versions/2":         "postgres://pg/shop",
		"projects/other/secrets/x/versions/latest":        "x-value",
	}}
	r := NewResolver(sm, "shop")
	ctx := context.Background()

	v, err := r.Resolve(ctx, "sm://mongo-uri")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://user:pw@db:27017", v)

	v, err = r.Resolve(ctx, "sm://pg-dsn#2")
	require.NoError(t, err)
	assert.Equal(t, "postgres://pg/shop", v)

	v, err = r.Resolve(ctx, "sm://projects/other/secrets/x")
	require.NoError(t, err)
	assert.Equal(t, "x-value", v)

	v, err = r.Resolve(ctx, "postgres://plain")
	require.NoError(t, err)
	assert.Equal(t, "postgres://plain", v)

	_, err = r.Resolve(ctx, "sm://missing")
	assert.ErrorContains(t, err, "projects/shop/secrets/missing/versions/latest")

	_, err = r.Resolve(ctx, "sm://a/b")
	assert.Error(t, err)
}

func TestResolveAll(t *testing.T) {
	sm := &fakeSM{data: map[string]string{"projects/shop/secrets/dsn/versions/latest": "resolved"}}
	r := NewResolver(sm, "shop")

	a, b := "sm://dsn", "plain"
	require.NoError(t, r.ResolveAll(context.Background(), &a, &b, nil))
	assert.Equal(t, "resolved", a)
	assert.Equal(t, "plain", b)
	assert.Len(t, sm.names, 1)
}

func TestResolveWithoutClient(t *testing.T) {
	var r *Resolver
	_, err := r.Resolve(context.Background(), "sm://dsn")
	assert.ErrorIs(t, err, ErrNotConfigured)

	v, err := r.Resolve(context.Background(), "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)
}
