package model

// AuditEntry rows are append-only; nothing updates or deletes them
// individually. The foreign key cascades so deleting a record takes
// its trail with it.
type AuditEntry struct {
	EntryID   uint64  `gorm:"column:entry_id;primaryKey;autoIncrement"`
	RecordID  uint64  `gorm:"column:record_id;not null;index;constraint:OnDelete:CASCADE"`
	Action    string  `gorm:"column:action;type:text;not null"`
	Actor     *string `gorm:"column:actor;type:text"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null;index"`

	Record *Nonconformity `gorm:"belongsTo;foreignKey:RecordID;references:RecordID;constraint:OnDelete:CASCADE"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
