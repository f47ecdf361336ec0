package models

import "tbs/src/types"

type Shop struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `json:"name,omitempty"`
	OwnerID uint   `json:"owner_id,omitempty"`

	Owner *User `gorm:"foreignKey:owner_id" json:"owner,omitempty"`

	types.Timestamps
}

type Product struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	ShopID uint   `json:"shop_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Price  int64  `json:"price"`
	Stock  int64  `json:"stock"`

	Shop *Shop `json:"shop,omitempty"`

	types.Timestamps
}
