package models

import "time"

// Server mirrors one record of the remote fleet API. The primary key is
// assigned by the remote system and stays stable across syncs, so the column
// must not autoincrement.
type Server struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false"`
	Hostname       string    `gorm:"index"`
	Servername     string    `gorm:"column:servername"`
	OS             string    `gorm:"column:os"`
	PrimaryIP      string    `gorm:"column:primary_ip"`
	PowerStatus    string    `gorm:"column:power_status"`
	ServerType     string    `gorm:"column:server_type"`
	Tags           string    `gorm:"column:tags"` // JSON-encoded list of strings
	Description    string    `gorm:"column:description"`
	AssignmentDate string    `gorm:"column:assignment_date"`
	LastUpdated    time.Time `gorm:"column:last_updated"`
}

func (Server) TableName() string { return "servers" }

// ServerHardware holds the hardware profile probed for a server. At most one
// row per server; replaced wholesale whenever a sync carries hardware data.
type ServerHardware struct {
	ID               uint      `gorm:"primaryKey"`
	ServerID         int64     `gorm:"column:server_id;index;not null"`
	Server           *Server   `gorm:"constraint:OnDelete:CASCADE"`
	CPUModel         string    `gorm:"column:cpu_model"`
	CPUCount         int       `gorm:"column:cpu_count"`
	CPUCores         int       `gorm:"column:cpu_cores"`
	CPUThreads       int       `gorm:"column:cpu_threads"`
	CPUMhz           string    `gorm:"column:cpu_mhz"`
	CPUMhzTurbo      string    `gorm:"column:cpu_mhz_turbo"`
	MemoryTotalMB    int       `gorm:"column:memory_total_mb"`
	MemoryCount      int       `gorm:"column:memory_count"`
	MemoryDetails    string    `gorm:"column:memory_details"` // opaque JSON blob, stored verbatim
	DiskTotalMiB     float64   `gorm:"column:disk_total_mib"`
	DiskCount        int       `gorm:"column:disk_count"`
	DiskDetails      string    `gorm:"column:disk_details"` // opaque JSON blob
	MainboardModel   string    `gorm:"column:mainboard_model"`
	MainboardVersion string    `gorm:"column:mainboard_version"`
	LastUpdated      time.Time `gorm:"column:last_updated"`
}

func (ServerHardware) TableName() string { return "server_hardware" }

// ServerIP is one address assigned to a server. The full set for a server is
// replaced on every sync, never merged.
type ServerIP struct {
	ID          uint      `gorm:"primaryKey"`
	ServerID    int64     `gorm:"column:server_id;index;not null"`
	Server      *Server   `gorm:"constraint:OnDelete:CASCADE"`
	IPAddress   string    `gorm:"column:ip_address;not null"`
	IsPrimary   bool      `gorm:"column:is_primary"`
	IsIPv4      bool      `gorm:"column:is_ipv4"`
	IsIPv6      bool      `gorm:"column:is_ipv6"`
	Subnet      string    `gorm:"column:subnet"`
	Netmask     string    `gorm:"column:netmask"`
	Gateway     string    `gorm:"column:gateway"`
	LastUpdated time.Time `gorm:"column:last_updated"`
}

func (ServerIP) TableName() string { return "server_ips" }

// ServerBIOS is one BIOS inventory record for a server.
type ServerBIOS struct {
	ID          uint      `gorm:"primaryKey"`
	ServerID    int64     `gorm:"column:server_id;index;not null"`
	Server      *Server   `gorm:"constraint:OnDelete:CASCADE"`
	Model       string    `gorm:"column:model"`
	Value       string    `gorm:"column:value"`
	Serial      string    `gorm:"column:serial"`
	LastUpdated time.Time `gorm:"column:last_updated"`
}

func (ServerBIOS) TableName() string { return "server_bios" }

// ServerBMC is one BMC inventory record for a server.
type ServerBMC struct {
	ID          uint      `gorm:"primaryKey"`
	ServerID    int64     `gorm:"column:server_id;index;not null"`
	Server      *Server   `gorm:"constraint:OnDelete:CASCADE"`
	Model       string    `gorm:"column:model"`
	Value       string    `gorm:"column:value"`
	Serial      string    `gorm:"column:serial"`
	LastUpdated time.Time `gorm:"column:last_updated"`
}

func (ServerBMC) TableName() string { return "server_bmc" }
