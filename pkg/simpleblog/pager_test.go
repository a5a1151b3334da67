package simpleblog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestNewPagerSanitizesInput(t *testing.T) {
	p := simpleblog.NewPager(0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, simpleblog.DefaultPageSize, p.ItemsPerPage)

	p = simpleblog.NewPager(-5, -1)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, simpleblog.DefaultPageSize, p.ItemsPerPage)

	p = simpleblog.NewPager(3, 25)
	assert.Equal(t, 3, p.CurrentPage)
	assert.Equal(t, 25, p.ItemsPerPage)
}

func TestPagerConfigure(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		total     int
		wantPages int
	}{
		{"exact multiple", 10, 100, 10},
		{"remainder rounds up", 10, 95, 10},
		{"single partial page", 10, 3, 1},
		{"empty result still has a page", 10, 0, 1},
		{"negative total clamps to zero", 10, -4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := simpleblog.NewPager(1, tt.size)
			p.Configure(tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.GreaterOrEqual(t, p.Total, 0)
		})
	}
}

func TestPagerOffset(t *testing.T) {
	assert.Equal(t, 0, simpleblog.NewPager(1, 10).Offset())
	assert.Equal(t, 10, simpleblog.NewPager(2, 10).Offset())
	assert.Equal(t, 50, simpleblog.NewPager(6, 10).Offset())
}
