package models

import "tbs/src/types"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	UID   string `gorm:"unique" json:"-"`
	Name  string `json:"name,omitempty"`
	Email string `gorm:"unique" json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	types.Timestamps
}
