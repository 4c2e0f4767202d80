package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buyer of grain
type Customer struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Location string    `gorm:"column:location;type:varchar(200);not null" json:"location"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

// BeforeCreate assigns an identifier when the caller omitted one.
func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
