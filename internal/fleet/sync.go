package fleet

import (
	"context"
	"fmt"

	"github.com/moontigerdev/server-inventory-manager/internal/logs"
	"github.com/moontigerdev/server-inventory-manager/internal/tenantos"
)

// FleetAPI is the slice of the remote adapter the sync engine needs.
type FleetAPI interface {
	ListServers(ctx context.Context) ([]tenantos.ServerRecord, error)
	FetchInventory(ctx context.Context, serverID int64) ([]tenantos.InventoryItem, error)
}

// Syncer reconciles the remote fleet into the local mirror. Both entry
// points are idempotent and safe to re-run; concurrent runs are not
// coordinated (last delete+insert wins), acceptable for a single-operator
// deployment.
type Syncer struct {
	api  FleetAPI
	repo *Repo
}

func NewSyncer(api FleetAPI, repo *Repo) *Syncer {
	return &Syncer{api: api, repo: repo}
}

// SyncServers fetches the whole remote listing and upserts every record in
// fetch order. The operation is fail-fast: a fetch error or any single
// upsert error aborts the rest of the batch (records committed before the
// failure stay committed). Returns the number of servers upserted.
func (s *Syncer) SyncServers(ctx context.Context) (int, error) {
	records, err := s.api.ListServers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list servers: %w", err)
	}

	count := 0
	for _, rec := range records {
		if err := s.repo.UpsertServer(rec); err != nil {
			return count, fmt.Errorf("upsert server %d: %w", rec.ID, err)
		}
		count++
	}

	logs.Logger.Infof("server sync: %d servers upserted", count)
	return count, nil
}

// SyncInventory refreshes BIOS/BMC records for every locally known server,
// one remote call per server. Unlike SyncServers, failures are isolated per
// server: an unreachable box lands in the returned error list as
// "hostname: message" and the loop continues. Only a failure to list the
// local servers fails the whole call.
func (s *Syncer) SyncInventory(ctx context.Context) (int, []string, error) {
	servers, err := s.repo.ListServerRefs()
	if err != nil {
		return 0, nil, fmt.Errorf("list local servers: %w", err)
	}

	count := 0
	var errs []string
	for _, srv := range servers {
		items, err := s.api.FetchInventory(ctx, srv.ID)
		if err != nil {
			logs.Logger.Warnf("inventory sync: %s: %v", srv.Hostname, err)
			errs = append(errs, fmt.Sprintf("%s: %s", srv.Hostname, err))
			continue
		}
		if err := s.repo.UpsertInventory(srv.ID, items); err != nil {
			logs.Logger.Warnf("inventory sync: %s: %v", srv.Hostname, err)
			errs = append(errs, fmt.Sprintf("%s: %s", srv.Hostname, err))
			continue
		}
		count++
	}

	logs.Logger.Infof("inventory sync: %d of %d servers refreshed", count, len(servers))
	return count, errs, nil
}
