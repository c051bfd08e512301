// Package store is the persistence layer over GORM. Host and VM writes are
// insert-or-replace by identity; audit events and action log entries are
// pure appends.
package store

import (
	"github.com/esxi-monitor/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertHost creates or fully overwrites the row for host.Hostname. No
// partial merge: every column is replaced.
func (s *Store) UpsertHost(host models.Host) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hostname"}},
		UpdateAll: true,
	}).Create(&host).Error
}

// UpsertVM creates or fully overwrites the row for vm.ID.
func (s *Store) UpsertVM(vm models.VM) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&vm).Error
}

func (s *Store) AppendAuditEvent(ev models.AuditEvent) error {
	return s.db.Create(&ev).Error
}

func (s *Store) AppendActionLog(entry models.ActionLog) error {
	return s.db.Create(&entry).Error
}

func (s *Store) AppendMetric(m models.Metric) error {
	return s.db.Create(&m).Error
}
