package model

import (
	"time"

	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
)

// Valid reports whether s is one of the known contract states.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPending, ContractActive, ContractCompleted, ContractCancelled:
		return true
	}
	return false
}

// Contract is a sale of coffee sacks between two clients, brokered by the company.
type Contract struct {
	gorm.Model
	SellerID        uint           `json:"sellerId" gorm:"index;not null"`
	Seller          Client         `json:"seller" gorm:"foreignKey:SellerID"`
	BuyerID         uint           `json:"buyerId" gorm:"index;not null"`
	Buyer           Client         `json:"buyer" gorm:"foreignKey:BuyerID"`
	DeliveryAddress Address        `json:"deliveryAddress" gorm:"embedded;embeddedPrefix:delivery_"`
	Quantity        int            `json:"quantity"`
	Price           float64        `json:"price"`
	Date            time.Time      `json:"date"`
	Status          ContractStatus `json:"status" gorm:"type:varchar(16);index;default:pending"`
}

// Total is the contract value: quantity in sacks times unit price.
func (c Contract) Total() float64 {
	return float64(c.Quantity) * c.Price
}
