package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SystemLogRecord is the persisted mirror of an in-memory audit entry.
type SystemLogRecord struct {
	gorm.Model
	LogID           string    `json:"log_id" gorm:"column:log_id;type:varchar(64);uniqueIndex"`
	Timestamp       time.Time `json:"timestamp" gorm:"column:timestamp;index"`
	UserName        string    `json:"user_name" gorm:"column:user_name;type:varchar(191)"`
	UserID          string    `json:"user_id" gorm:"column:user_id;type:varchar(64);index"`
	AccessLevel     string    `json:"access_level" gorm:"column:access_level;type:varchar(16)"`
	Action          string    `json:"action" gorm:"column:action;type:varchar(191);index"`
	Details         string    `json:"details" gorm:"column:details;type:text"`
	Module          string    `json:"module" gorm:"column:module;type:varchar(64)"`
	IP              string    `json:"ip" gorm:"column:ip;type:varchar(45)"`
	Result          string    `json:"result" gorm:"column:result;type:varchar(16)"`
	InteractionType string    `json:"interaction_type" gorm:"column:interaction_type;type:varchar(32)"`
	// Location stores city and country in the format "City/Country" when available.
	Location    string         `json:"location" gorm:"column:location;type:varchar(255);index"`
	Origin      datatypes.JSON `json:"origin" gorm:"column:origin;type:json"`
	Session     datatypes.JSON `json:"session" gorm:"column:session;type:json"`
	ElementInfo datatypes.JSON `json:"element_info" gorm:"column:element_info;type:json"`
}

func (SystemLogRecord) TableName() string {
	return "system_logs"
}
