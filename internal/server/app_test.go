package server

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("chatty"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestNewBlobStore(t *testing.T) {
	ctx := context.Background()
	google := services.NewGoogleService(nil, nil, services.NewGoogleOAuthConfig("id", "secret", "http://cb"), logging.Nop{})

	base := func(backend string) *config.Config {
		c := &config.Config{}
		c.LoadDefaults()
		c.BlobBackend = backend
		c.AzureServiceURL = "https://acct.blob.core.windows.net/?sv=2024-01-01&sig=abc"
		return c
	}

	s, err := newBlobStore(ctx, base(config.BackendMemory), google)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, s)

	s, err = newBlobStore(ctx, base(config.BackendS3), google)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.S3Store{}, s)

	s, err = newBlobStore(ctx, base(config.BackendAzure), google)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.AzureStore{}, s)

	s, err = newBlobStore(ctx, base(config.BackendDrive), google)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.DriveStore{}, s)

	_, err = newBlobStore(ctx, base("ftp"), google)
	assert.ErrorContains(t, err, `unknown blob backend "ftp"`)
}

func TestMintToken(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.AccessTokenValidityDuration = time.Minute

	tok, err := MintToken(c, "u1")
	require.NoError(t, err)

	id, err := auth.GetUserIDFromToken(tok, []byte(c.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = MintToken(c, "")
	assert.Error(t, err)
}
