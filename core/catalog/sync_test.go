package catalog_test

import (
	"context"
	"errors"
	"testing"

	"rules-service/core/catalog"
	"rules-service/core/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fetchOf(items ...dataset.Item) catalog.FetchFunc {
	return func(context.Context, *zap.Logger) ([]dataset.Item, error) {
		return items, nil
	}
}

func TestSyncAppliesFetchedItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(dataset.KindRules)
	core, logs := observer.New(zap.InfoLevel)

	result, err := svc.Sync(ctx, zap.New(core), fetchOf(dataset.NewItem("A", "DE", "1", "a")), catalog.SyncOptions{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Plan.Summary.Inserted)
	assert.True(t, result.SnapshotChanged)
	assert.Equal(t, 1, logs.FilterMessage("Download finished").Len())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSyncSkipsEmptyFetch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(dataset.KindRules)
	_, err := svc.Update(ctx, []dataset.Item{dataset.NewItem("A", "DE", "1", "a")})
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	result, err := svc.Sync(ctx, zap.New(core), fetchOf(), catalog.SyncOptions{})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, logs.FilterMessage("Upstream returned no items, skipping update").Len())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSyncAllowEmptyWipes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(dataset.KindRules)
	_, err := svc.Update(ctx, []dataset.Item{dataset.NewItem("A", "DE", "1", "a")})
	require.NoError(t, err)

	result, err := svc.Sync(ctx, zap.NewNop(), fetchOf(), catalog.SyncOptions{AllowEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Plan.Summary.Deleted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSyncDryRunLeavesStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(dataset.KindValueSets)

	result, err := svc.Sync(ctx, zap.NewNop(), fetchOf(dataset.NewItem("vs", "", "", "{}")), catalog.SyncOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Plan.Summary.Inserted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSyncJobReportsFetchFailure(t *testing.T) {
	svc, _ := newService(dataset.KindRules)
	boom := errors.New("gateway down")

	run := svc.SyncJob(func(context.Context, *zap.Logger) ([]dataset.Item, error) {
		return nil, boom
	}, catalog.SyncOptions{})

	err := run(context.Background(), zap.NewNop())
	assert.ErrorIs(t, err, boom)
}
