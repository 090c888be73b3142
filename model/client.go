package model

import "gorm.io/gorm"

// Client is a coffee producer or buyer registered by the brokerage.
type Client struct {
	gorm.Model
	Name             string   `json:"name" gorm:"type:varchar(255);not null"`
	CPF              string   `json:"cpf" gorm:"column:cpf;type:varchar(14);uniqueIndex;not null"`
	BankInfo         BankInfo `json:"bankInfo" gorm:"embedded;embeddedPrefix:bank_"`
	WarehouseAddress Address  `json:"warehouseAddress" gorm:"embedded;embeddedPrefix:warehouse_"`
}
