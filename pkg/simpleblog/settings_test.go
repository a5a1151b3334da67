package simpleblog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestSettingsDefaults(t *testing.T) {
	svc := newTestService(t)

	settings := svc.Settings()
	assert.Equal(t, simpleblog.DefaultBlogTitle, settings.Title)
	assert.Equal(t, simpleblog.DefaultTheme, settings.Theme)
	assert.Equal(t, simpleblog.DefaultPageSize, settings.ItemsPerPage)
	assert.Equal(t, int64(1), settings.Version)
}

func TestReloadSettingsPicksUpFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldBlogTitle, "Engineering Notes"))
	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldBlogTheme, "dark"))
	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldItemsPerPage, "20"))

	// The snapshot stays stale until an explicit reload.
	assert.Equal(t, simpleblog.DefaultBlogTitle, svc.Settings().Title)

	require.NoError(t, svc.ReloadSettings(ctx))

	settings := svc.Settings()
	assert.Equal(t, "Engineering Notes", settings.Title)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, 20, settings.ItemsPerPage)
	assert.Equal(t, int64(2), settings.Version)
}

func TestReloadSettingsIgnoresInvalidPageSize(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldItemsPerPage, "garbage"))
	require.NoError(t, svc.ReloadSettings(ctx))
	assert.Equal(t, simpleblog.DefaultPageSize, svc.Settings().ItemsPerPage)

	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldItemsPerPage, "-3"))
	require.NoError(t, svc.ReloadSettings(ctx))
	assert.Equal(t, simpleblog.DefaultPageSize, svc.Settings().ItemsPerPage)
}

func TestReloadSettingsBumpsVersionEachTime(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReloadSettings(ctx))
	require.NoError(t, svc.ReloadSettings(ctx))

	assert.Equal(t, int64(3), svc.Settings().Version)
}
