package simpleblog_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	memorystorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/memory"
)

func TestNewObjectKeyLayout(t *testing.T) {
	key := simpleblog.NewObjectKey(42, simpleblog.AssetAvatar, "My Face.PNG")

	assert.True(t, strings.HasPrefix(key, "assets/42/avatar/"))
	assert.True(t, strings.HasSuffix(key, "_My_Face.PNG"))

	parts := strings.Split(key, "/")
	require.Len(t, parts, 5)
	assert.Len(t, parts[3], 2, "shard is two hex characters")
}

func TestNewObjectKeyUnique(t *testing.T) {
	a := simpleblog.NewObjectKey(1, simpleblog.AssetImage, "pic.png")
	b := simpleblog.NewObjectKey(1, simpleblog.AssetImage, "pic.png")
	assert.NotEqual(t, a, b)
}

func TestNewObjectKeyDropsDirectoryComponents(t *testing.T) {
	key := simpleblog.NewObjectKey(1, simpleblog.AssetCover, "../../etc/passwd")
	assert.NotContains(t, key, "..")
	assert.True(t, strings.HasSuffix(key, "_passwd"))
}

func TestAssetStoreRoundTrip(t *testing.T) {
	assets := simpleblog.NewAssetStore(memorystorage.New())
	ctx := context.Background()

	key, url, err := assets.Upload(ctx, 7, simpleblog.AssetLogo, "logo.svg", strings.NewReader("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, "memory://"+key, url)

	reader, err := assets.Open(ctx, key)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	require.NoError(t, assets.Delete(ctx, key))
	_, err = assets.Open(ctx, key)
	assert.ErrorIs(t, err, simpleblog.ErrObjectNotFound)
}
