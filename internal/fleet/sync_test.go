package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moontigerdev/server-inventory-manager/internal/models"
	"github.com/moontigerdev/server-inventory-manager/internal/tenantos"
)

type fakeAPI struct {
	servers []tenantos.ServerRecord
	listErr error

	inventory map[int64][]tenantos.InventoryItem
	invErr    map[int64]error
}

func (f *fakeAPI) ListServers(context.Context) ([]tenantos.ServerRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.servers, nil
}

func (f *fakeAPI) FetchInventory(_ context.Context, serverID int64) ([]tenantos.InventoryItem, error) {
	if err := f.invErr[serverID]; err != nil {
		return nil, err
	}
	return f.inventory[serverID], nil
}

func TestSyncServers(t *testing.T) {
	repo, d := newTestRepo(t)
	api := &fakeAPI{servers: []tenantos.ServerRecord{
		record(1, "alpha"),
		record(2, "beta"),
	}}

	count, err := NewSyncer(api, repo).SyncServers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var rows int64
	require.NoError(t, d.Model(&models.Server{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestSyncServersFetchFailure(t *testing.T) {
	repo, d := newTestRepo(t)
	api := &fakeAPI{listErr: errors.New("connection refused")}

	count, err := NewSyncer(api, repo).SyncServers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 0, count)

	var rows int64
	require.NoError(t, d.Model(&models.Server{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestSyncServersRerunIsIdempotent(t *testing.T) {
	repo, d := newTestRepo(t)
	api := &fakeAPI{servers: []tenantos.ServerRecord{record(1, "alpha")}}
	syncer := NewSyncer(api, repo)

	for i := 0; i < 2; i++ {
		count, err := syncer.SyncServers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}

	var rows int64
	require.NoError(t, d.Model(&models.Server{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestSyncInventoryIsolatesFailures(t *testing.T) {
	repo, d := newTestRepo(t)
	require.NoError(t, repo.UpsertServer(record(1, "alpha")))
	require.NoError(t, repo.UpsertServer(record(2, "bravo")))
	require.NoError(t, repo.UpsertServer(record(3, "charlie")))

	bios := []tenantos.InventoryItem{
		{Model: "AMI", Value: "2.4", RootComponent: &tenantos.RootComponent{Description: "BIOS"}},
	}
	api := &fakeAPI{
		inventory: map[int64][]tenantos.InventoryItem{1: bios, 3: bios},
		invErr:    map[int64]error{2: errors.New("timeout")},
	}

	count, syncErrs, err := NewSyncer(api, repo).SyncInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"bravo: timeout"}, syncErrs)

	// the failing server did not block the others
	var rows int64
	require.NoError(t, d.Model(&models.ServerBIOS{}).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestSyncInventoryNoServers(t *testing.T) {
	repo, _ := newTestRepo(t)
	api := &fakeAPI{}

	count, syncErrs, err := NewSyncer(api, repo).SyncInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, syncErrs)
}
