package fleet

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/moontigerdev/server-inventory-manager/internal/models"
)

// ServerSummary is the list view of one server: the row itself, the hardware
// summary columns from the LEFT JOIN (null when never probed), and the full
// IP set.
type ServerSummary struct {
	ID             int64     `json:"id"`
	Hostname       string    `json:"hostname"`
	Servername     string    `json:"servername"`
	OS             string    `json:"os"`
	PrimaryIP      string    `json:"primary_ip"`
	PowerStatus    string    `json:"power_status"`
	ServerType     string    `json:"server_type"`
	Tags           []string  `json:"tags"`
	Description    string    `json:"description"`
	AssignmentDate string    `json:"assignment_date"`
	LastUpdated    time.Time `json:"last_updated"`

	HardwareSummary

	IPAddresses []IPAddress `json:"ip_addresses"`
}

type HardwareSummary struct {
	CPUModel         *string  `gorm:"column:cpu_model" json:"cpu_model"`
	CPUCount         *int     `gorm:"column:cpu_count" json:"cpu_count"`
	CPUCores         *int     `gorm:"column:cpu_cores" json:"cpu_cores"`
	CPUThreads       *int     `gorm:"column:cpu_threads" json:"cpu_threads"`
	CPUMhz           *string  `gorm:"column:cpu_mhz" json:"cpu_mhz"`
	CPUMhzTurbo      *string  `gorm:"column:cpu_mhz_turbo" json:"cpu_mhz_turbo"`
	MemoryTotalMB    *int     `gorm:"column:memory_total_mb" json:"memory_total_mb"`
	MemoryCount      *int     `gorm:"column:memory_count" json:"memory_count"`
	DiskTotalMiB     *float64 `gorm:"column:disk_total_mib" json:"disk_total_mib"`
	DiskCount        *int     `gorm:"column:disk_count" json:"disk_count"`
	MainboardModel   *string  `gorm:"column:mainboard_model" json:"mainboard_model"`
	MainboardVersion *string  `gorm:"column:mainboard_version" json:"mainboard_version"`
}

// ServerDetail adds the opaque hardware detail blobs to the summary. The
// blobs round-trip the remote payload verbatim; they are never validated
// beyond being well-formed JSON.
type ServerDetail struct {
	ServerSummary
	MemoryDetails json.RawMessage `json:"memory_details"`
	DiskDetails   json.RawMessage `json:"disk_details"`
}

type IPAddress struct {
	ID          uint      `json:"id"`
	ServerID    int64     `json:"server_id"`
	IPAddress   string    `json:"ip_address"`
	IsPrimary   bool      `json:"is_primary"`
	IsIPv4      bool      `json:"is_ipv4"`
	IsIPv6      bool      `json:"is_ipv6"`
	Subnet      string    `json:"subnet"`
	Netmask     string    `json:"netmask"`
	Gateway     string    `json:"gateway"`
	LastUpdated time.Time `json:"last_updated"`
}

// InventoryRow is one server×record pair of the BIOS or BMC listing. Servers
// without a matching record appear once with null inventory fields.
type InventoryRow struct {
	ServerID    int64      `gorm:"column:id" json:"id"`
	Hostname    string     `gorm:"column:hostname" json:"hostname"`
	Servername  string     `gorm:"column:servername" json:"servername"`
	PrimaryIP   string     `gorm:"column:primary_ip" json:"primary_ip"`
	Model       *string    `gorm:"column:model" json:"model"`
	Value       *string    `gorm:"column:value" json:"value"`
	Serial      *string    `gorm:"column:serial" json:"serial"`
	LastUpdated *time.Time `gorm:"column:last_updated" json:"last_updated"`
}

// ServerRef is the minimal handle the inventory sync fans out over.
type ServerRef struct {
	ID       int64
	Hostname string
}

// serverRow is the scan target for the servers×hardware join.
type serverRow struct {
	ID             int64     `gorm:"column:id"`
	Hostname       string    `gorm:"column:hostname"`
	Servername     string    `gorm:"column:servername"`
	OS             string    `gorm:"column:os"`
	PrimaryIP      string    `gorm:"column:primary_ip"`
	PowerStatus    string    `gorm:"column:power_status"`
	ServerType     string    `gorm:"column:server_type"`
	Tags           string    `gorm:"column:tags"`
	Description    string    `gorm:"column:description"`
	AssignmentDate string    `gorm:"column:assignment_date"`
	LastUpdated    time.Time `gorm:"column:last_updated"`

	HardwareSummary

	MemoryDetails *string `gorm:"column:memory_details"`
	DiskDetails   *string `gorm:"column:disk_details"`
}

const summaryCols = `s.id, s.hostname, s.servername, s.os, s.primary_ip, s.power_status,
	s.server_type, s.tags, s.description, s.assignment_date, s.last_updated,
	sh.cpu_model, sh.cpu_count, sh.cpu_cores, sh.cpu_threads, sh.cpu_mhz, sh.cpu_mhz_turbo,
	sh.memory_total_mb, sh.memory_count, sh.disk_total_mib, sh.disk_count,
	sh.mainboard_model, sh.mainboard_version`

// ListServers returns all mirrored servers, hostname ascending, each with its
// hardware summary and IP list.
func (r *Repo) ListServers() ([]ServerSummary, error) {
	var rows []serverRow
	err := r.db.Table("servers AS s").
		Select(summaryCols).
		Joins("LEFT JOIN server_hardware sh ON sh.server_id = s.id").
		Order("s.hostname ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ServerSummary, 0, len(rows))
	for _, row := range rows {
		sum := row.summary()
		ips, err := r.serverIPs(row.ID)
		if err != nil {
			return nil, err
		}
		sum.IPAddresses = ips
		out = append(out, sum)
	}
	return out, nil
}

// GetServer returns one server with full hardware detail and IP list, or
// ErrServerNotFound.
func (r *Repo) GetServer(id int64) (*ServerDetail, error) {
	var row serverRow
	tx := r.db.Table("servers AS s").
		Select(summaryCols+", sh.memory_details, sh.disk_details").
		Joins("LEFT JOIN server_hardware sh ON sh.server_id = s.id").
		Where("s.id = ?", id).
		Limit(1).
		Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrServerNotFound
	}

	detail := ServerDetail{
		ServerSummary: row.summary(),
		MemoryDetails: detailBlob(row.MemoryDetails),
		DiskDetails:   detailBlob(row.DiskDetails),
	}
	ips, err := r.serverIPs(id)
	if err != nil {
		return nil, err
	}
	detail.IPAddresses = ips
	return &detail, nil
}

// ListBIOS returns the server×BIOS-record join, hostname ascending.
func (r *Repo) ListBIOS() ([]InventoryRow, error) { return r.listInventory("server_bios") }

// ListBMC returns the server×BMC-record join, hostname ascending.
func (r *Repo) ListBMC() ([]InventoryRow, error) { return r.listInventory("server_bmc") }

func (r *Repo) listInventory(table string) ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.db.Table("servers AS s").
		Select("s.id, s.hostname, s.servername, s.primary_ip, inv.model, inv.value, inv.serial, inv.last_updated").
		Joins(fmt.Sprintf("LEFT JOIN %s inv ON inv.server_id = s.id", table)).
		Order("s.hostname ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []InventoryRow{}
	}
	return rows, nil
}

// ListServerRefs lists the locally known servers, hostname ascending. The
// inventory sync iterates this.
func (r *Repo) ListServerRefs() ([]ServerRef, error) {
	var refs []ServerRef
	err := r.db.Model(&models.Server{}).
		Select("id, hostname").
		Order("hostname ASC").
		Scan(&refs).Error
	return refs, err
}

func (r *Repo) serverIPs(serverID int64) ([]IPAddress, error) {
	var recs []models.ServerIP
	if err := r.db.Where("server_id = ?", serverID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]IPAddress, 0, len(recs))
	for _, rec := range recs {
		out = append(out, IPAddress{
			ID:          rec.ID,
			ServerID:    rec.ServerID,
			IPAddress:   rec.IPAddress,
			IsPrimary:   rec.IsPrimary,
			IsIPv4:      rec.IsIPv4,
			IsIPv6:      rec.IsIPv6,
			Subnet:      rec.Subnet,
			Netmask:     rec.Netmask,
			Gateway:     rec.Gateway,
			LastUpdated: rec.LastUpdated,
		})
	}
	return out, nil
}

func (row serverRow) summary() ServerSummary {
	var tags []string
	if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil || tags == nil {
		tags = []string{}
	}
	return ServerSummary{
		ID:              row.ID,
		Hostname:        row.Hostname,
		Servername:      row.Servername,
		OS:              row.OS,
		PrimaryIP:       row.PrimaryIP,
		PowerStatus:     row.PowerStatus,
		ServerType:      row.ServerType,
		Tags:            tags,
		Description:     row.Description,
		AssignmentDate:  row.AssignmentDate,
		LastUpdated:     row.LastUpdated,
		HardwareSummary: row.HardwareSummary,
	}
}

// detailBlob passes a stored detail blob through if it is valid JSON, and
// degrades to an empty list otherwise (missing hardware row included).
func detailBlob(s *string) json.RawMessage {
	if s == nil || *s == "" || !json.Valid([]byte(*s)) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(*s)
}
