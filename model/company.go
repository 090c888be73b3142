package model

import "gorm.io/gorm"

// Company is the brokerage's own profile. Only one row is expected.
type Company struct {
	gorm.Model
	Name     string   `json:"name" gorm:"type:varchar(255);not null"`
	CNPJ     string   `json:"cnpj" gorm:"column:cnpj;type:varchar(18)"`
	Address  Address  `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	BankInfo BankInfo `json:"bankInfo" gorm:"embedded;embeddedPrefix:bank_"`
}
