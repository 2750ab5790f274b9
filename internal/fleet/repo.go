// Package fleet owns the local mirror of the remote server fleet: the upsert
// and reconciliation logic, the read projections and the HTTP surface over
// both.
package fleet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moontigerdev/server-inventory-manager/internal/models"
	"github.com/moontigerdev/server-inventory-manager/internal/tenantos"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// UpsertServer reconciles one raw remote record into the store. The server
// row and both child passes run in a single transaction, so a failed record
// never leaves a half-written server behind.
//
// Child semantics are deliberately asymmetric: the hardware profile is only
// replaced when the record actually carries hardware data (probes are rare),
// while the IP set is always replaced, even by an empty list.
func (r *Repo) UpsertServer(rec tenantos.ServerRecord) error {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		srv := models.Server{
			ID:             rec.ID,
			Hostname:       rec.Hostname,
			Servername:     rec.Servername,
			OS:             rec.OS,
			PrimaryIP:      rec.PrimaryIP,
			PowerStatus:    rec.PowerStatus,
			ServerType:     rec.ServerType,
			Tags:           string(tagsJSON),
			Description:    rec.Description,
			AssignmentDate: rec.AssignmentDate,
			LastUpdated:    now,
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&srv).Error; err != nil {
			return err
		}

		if !rec.Hardware.Empty() {
			if err := tx.Where("server_id = ?", rec.ID).Delete(&models.ServerHardware{}).Error; err != nil {
				return err
			}
			hw := buildHardware(rec.ID, rec.Hardware, now)
			if err := tx.Create(&hw).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("server_id = ?", rec.ID).Delete(&models.ServerIP{}).Error; err != nil {
			return err
		}
		for _, a := range rec.IPAssignments {
			ip := models.ServerIP{
				ServerID:    rec.ID,
				IPAddress:   a.IP,
				IsPrimary:   bool(a.Primary),
				LastUpdated: now,
			}
			if a.Attributes != nil {
				ip.IsIPv4 = bool(a.Attributes.IsIPv4)
				ip.IsIPv6 = bool(a.Attributes.IsIPv6)
			}
			if a.Subnet != nil {
				ip.Subnet = a.Subnet.Subnet
				ip.Netmask = a.Subnet.Netmask
				ip.Gateway = a.Subnet.Gateway
			}
			if err := tx.Create(&ip).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func buildHardware(serverID int64, h *tenantos.HardwareInfo, now time.Time) models.ServerHardware {
	hw := models.ServerHardware{
		ServerID:      serverID,
		MemoryDetails: "[]",
		DiskDetails:   "[]",
		LastUpdated:   now,
	}
	if c := h.CPU; c != nil {
		hw.CPUModel = c.Model
		hw.CPUCount = c.Count
		hw.CPUCores = c.Cores
		hw.CPUThreads = c.Threads
		hw.CPUMhz = scalarString(c.Value)
		hw.CPUMhzTurbo = scalarString(c.MhzTurbo)
	}
	if m := h.Memory; m != nil {
		hw.MemoryTotalMB = m.Value
		hw.MemoryCount = m.Count
		if len(m.Details) > 0 {
			hw.MemoryDetails = string(m.Details)
		}
	}
	if d := h.Disk; d != nil {
		hw.DiskTotalMiB = d.Value
		hw.DiskCount = d.Count
		if len(d.Details) > 0 {
			hw.DiskDetails = string(d.Details)
		}
	}
	if mb := h.Mainboard; mb != nil {
		hw.MainboardModel = mb.Model
		hw.MainboardVersion = mb.Value
	}
	return hw
}

// scalarString renders a loosely typed remote scalar as text. Numbers come
// back from JSON as float64; keep 3800 as "3800", not "3800.000000".
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// UpsertInventory replaces the BIOS and BMC record sets of a server with the
// classification of the given raw items. Items whose root component is
// neither "BIOS" nor "BMC Version" are ignored; duplicates are retained.
func (r *Repo) UpsertInventory(serverID int64, items []tenantos.InventoryItem) error {
	now := time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("server_id = ?", serverID).Delete(&models.ServerBIOS{}).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", serverID).Delete(&models.ServerBMC{}).Error; err != nil {
			return err
		}

		for _, item := range items {
			switch item.ComponentDescription() {
			case "BIOS":
				rec := models.ServerBIOS{
					ServerID:    serverID,
					Model:       item.Model,
					Value:       item.Value,
					Serial:      item.Serial,
					LastUpdated: now,
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
			case "BMC Version":
				rec := models.ServerBMC{
					ServerID:    serverID,
					Model:       item.Model,
					Value:       item.Value,
					Serial:      item.Serial,
					LastUpdated: now,
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
