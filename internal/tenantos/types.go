package tenantos

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ServerRecord is one entry of the remote /servers listing. Field tags track
// the remote JSON names; optional sub-objects stay nil when absent.
type ServerRecord struct {
	ID             int64          `json:"id"`
	Hostname       string         `json:"hostname"`
	Servername     string         `json:"servername"`
	OS             string         `json:"os"`
	PrimaryIP      string         `json:"primaryip"`
	PowerStatus    string         `json:"cachedPowerstatus"`
	ServerType     string         `json:"typeOfServer"`
	Tags           []string       `json:"tags"`
	Description    string         `json:"description"`
	AssignmentDate string         `json:"assignmentDate"`
	Hardware       *HardwareInfo  `json:"detailedHardwareInformation"`
	IPAssignments  []IPAssignment `json:"ipassignments"`
}

type HardwareInfo struct {
	CPU       *CPUInfo       `json:"cpu"`
	Memory    *MemoryInfo    `json:"memory"`
	Disk      *DiskInfo      `json:"disk"`
	Mainboard *MainboardInfo `json:"mainboard"`
}

// Empty reports whether the remote sent a bare {} hardware object. Such a
// record must not clobber a previously probed profile.
func (h *HardwareInfo) Empty() bool {
	return h == nil || (h.CPU == nil && h.Memory == nil && h.Disk == nil && h.Mainboard == nil)
}

type CPUInfo struct {
	Model    string `json:"model"`
	Count    int    `json:"count"`
	Cores    int    `json:"cores"`
	Threads  int    `json:"threads"`
	Value    any    `json:"value"`    // clock, free-form (number or string)
	MhzTurbo any    `json:"mhzTurbo"` // same
}

type MemoryInfo struct {
	Value   int             `json:"value"` // total MB
	Count   int             `json:"count"`
	Details json.RawMessage `json:"details"` // opaque, persisted verbatim
}

type DiskInfo struct {
	Value   float64         `json:"value"` // total MiB
	Count   int             `json:"count"`
	Details json.RawMessage `json:"details"` // opaque
}

type MainboardInfo struct {
	Model string `json:"model"`
	Value string `json:"value"` // board version
}

type IPAssignment struct {
	IP         string        `json:"ip"`
	Primary    Flag          `json:"primary_ip"`
	Attributes *IPAttributes `json:"ipAttributes"`
	Subnet     *SubnetInfo   `json:"subnetinformation"`
}

type IPAttributes struct {
	IsIPv4 Flag `json:"isIpv4"`
	IsIPv6 Flag `json:"isIpv6"`
}

type SubnetInfo struct {
	Subnet  string `json:"subnet"`
	Netmask string `json:"netmask"`
	Gateway string `json:"gw"`
}

// InventoryItem is one raw component record from /servers/{id}/inventory.
type InventoryItem struct {
	Model         string         `json:"model"`
	Value         string         `json:"value"`
	Serial        string         `json:"serial"`
	RootComponent *RootComponent `json:"root_component"`
}

// ComponentDescription returns the root component description, or "" when the
// item has none. The sync layer classifies on this value.
func (i InventoryItem) ComponentDescription() string {
	if i.RootComponent == nil {
		return ""
	}
	return i.RootComponent.Description
}

type RootComponent struct {
	Description string `json:"description"`
}

// Flag is a boolean the remote serializes inconsistently: true/false, 0/1 or
// null have all been observed.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "null", "false", "0", `""`:
		*f = false
	case "true", "1":
		*f = true
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("flag value %s: %w", b, err)
		}
		*f = n != 0
	}
	return nil
}
