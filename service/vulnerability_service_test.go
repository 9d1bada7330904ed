package service

import (
	"context"
	"testing"
	"time"

	"cvedex/core"
	"cvedex/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVulnerabilityService_List(t *testing.T) {
	svc := NewVulnerabilityService(newTestStore(t), testLogger(t))
	ctx := context.Background()

	page, err := svc.List(ctx, PageRequest{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 6, Page: 2, Limit: 4, TotalPages: 2}, page.Pagination)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "CVE-2021-44228", page.Items[1].CVEID)

	page, err = svc.List(ctx, PageRequest{SortBy: "cvssScore", SortOrder: "asc", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "CVE-2023-0003", page.Items[0].CVEID)
	assert.Equal(t, core.SeverityNone, page.Items[0].Severity)

	_, err = svc.List(ctx, PageRequest{SortBy: "raw_data"})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestVulnerabilityService_Get(t *testing.T) {
	store := storage.NewCachedStore(newTestStore(t), 16, time.Minute)
	svc := NewVulnerabilityService(store, testLogger(t))
	ctx := context.Background()

	v, err := svc.Get(ctx, "CVE-2023-1001")
	require.NoError(t, err)
	assert.Equal(t, core.SeverityCritical, v.Severity)
	require.Len(t, v.AffectedProducts, 1)
	detail := v.AffectedProducts[0].ProductDetail
	require.NotNil(t, detail)
	assert.Equal(t, "Windows 10", detail.Name)
	assert.Len(t, detail.Versions, 3)

	// A second read through the cache gets the same joined view.
	again, err := svc.Get(ctx, "CVE-2023-1001")
	require.NoError(t, err)
	assert.Equal(t, v, again)

	_, err = svc.Get(ctx, "CVE-1999-0000")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVulnerabilityService_BySeverity(t *testing.T) {
	svc := NewVulnerabilityService(newTestStore(t), testLogger(t))
	ctx := context.Background()

	tests := []struct {
		label string
		want  []string
	}{
		{"critical", []string{"CVE-2021-44228", "CVE-2023-1001"}},
		{"HIGH", []string{"CVE-2024-0005", "CVE-2024-1002"}},
		{"MEDIUM", []string{"CVE-2023-0004"}},
		{"LOW", nil},
		{"8", []string{"CVE-2021-44228", "CVE-2023-1001", "CVE-2024-0005"}},
		{"whatever", []string{"CVE-2021-44228", "CVE-2023-1001", "CVE-2024-0005", "CVE-2024-1002", "CVE-2023-0004", "CVE-2023-0003"}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			page, err := svc.BySeverity(ctx, tt.label, 1, 20)
			require.NoError(t, err)
			var ids []string
			for _, v := range page.Items {
				ids = append(ids, v.CVEID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, int64(len(tt.want)), page.Pagination.Total)
		})
	}
}

func TestVulnerabilityService_ByReference(t *testing.T) {
	svc := NewVulnerabilityService(newTestStore(t), testLogger(t))
	ctx := context.Background()

	page, err := svc.ByVendor(ctx, "v1", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "CVE-2024-1002", page.Items[0].CVEID)

	page, err = svc.ByProduct(ctx, "p3", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = svc.ByProduct(ctx, "nope", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, Pagination{Page: 1, Limit: 20}, page.Pagination)
}

func TestVulnerabilityService_Search(t *testing.T) {
	svc := NewVulnerabilityService(newTestStore(t), testLogger(t))
	ctx := context.Background()

	page, err := svc.Search(ctx, "log4shell", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CVE-2021-44228", page.Items[0].CVEID)

	page, err = svc.Search(ctx, "CVE-2023", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	_, err = svc.Search(ctx, "", 1, 20)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestVulnerabilityService_Summary(t *testing.T) {
	svc := NewVulnerabilityService(newTestStore(t), testLogger(t))
	svc.now = func() time.Time { return fixedNow }

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), sum.Total)
	assert.Equal(t, map[string]int64{"CRITICAL": 2, "HIGH": 2, "MEDIUM": 1}, sum.BySeverity)
	assert.Equal(t, int64(1), sum.RecentCount)
}
