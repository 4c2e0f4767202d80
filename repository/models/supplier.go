package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a source of grain
type Supplier struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Location string    `gorm:"column:location;type:varchar(200);not null" json:"location"`

	// Relationships
	OrdersFulfilled []Order `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"ordersFulfilled,omitempty"`
}

// BeforeCreate assigns an identifier when the caller omitted one.
func (s *Supplier) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
