package di

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/application/dto"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
)

type tokenMap map[string]string

func (m tokenMap) VerifyIDToken(_ context.Context, tok string) (*fbauth.Token, error) {
	if uid, ok := m[tok]; ok {
		return &fbauth.Token{UID: uid}, nil
	}
	return nil, errors.New("invalid")
}

func memoryInfra() *shared.Infra {
	return &shared.Infra{Config: &appcfg.Config{
		StoreBackend:       appcfg.BackendMemory,
		CatalogBackend:     appcfg.BackendMemory,
		CORSAllowedOrigins: []string{"*"},
	}}
}

func TestMemoryContainerServesSeededCatalog(t *testing.T) {
	cont, err := NewContainer(context.Background(), memoryInfra())
	require.NoError(t, err)
	cont.Verifier = tokenMap{"tok": "u1"}

	srv := httptest.NewServer(cont.Router(zerolog.Nop()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/products?category=Books")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var books []dto.ProductDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	require.Len(t, books, 2)
	assert.Equal(t, "JavaScript: The Good Parts", books[0].Name)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/cart/add",
		strings.NewReader(`{"productId":"`+books[1].ID+`","quantity":2}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	addResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer addResp.Body.Close()
	assert.Equal(t, http.StatusOK, addResp.StatusCode)
}

func TestContainerWithoutAuthAnswers503(t *testing.T) {
	cont, err := NewContainer(context.Background(), memoryInfra())
	require.NoError(t, err)
	assert.Nil(t, cont.Verifier)

	rec := httptest.NewRecorder()
	cont.Router(zerolog.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContainerRejectsMissingClients(t *testing.T) {
	ctx := context.Background()

	_, err := NewContainer(ctx, nil)
	assert.Error(t, err)

	inf := memoryInfra()
	inf.Config.StoreBackend = appcfg.BackendFirestore
	_, err = NewContainer(ctx, inf)
	assert.ErrorContains(t, err, "firestore client is nil")

	inf = memoryInfra()
	inf.Config.CatalogBackend = appcfg.BackendPostgres
	_, err = NewContainer(ctx, inf)
	assert.ErrorContains(t, err, "postgres connection is nil")

	inf = memoryInfra()
	inf.Config.ProductImageSigning = true
	_, err = NewContainer(ctx, inf)
	assert.ErrorContains(t, err, "GCS client is nil")
}
