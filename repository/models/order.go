package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order represents a brokered grain delivery from a Supplier to a Customer.
// PurchaseOrder is an opaque reference carried for the customer's paperwork,
// not a foreign key.
type Order struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderDate     TimeOfDay `gorm:"column:order_date;type:bigint" json:"orderDate"`
	PurchaseOrder uuid.UUID `gorm:"column:purchase_order;type:uuid" json:"purchaseOrder"`

	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;index;not null" json:"supplierId"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"-"`

	OrderReqAmtTon int      `gorm:"column:order_req_amt_ton;not null" json:"orderReqAmtTon"`
	SuppliedAmtTon int      `gorm:"column:supplied_amt_ton;not null" json:"suppliedAmtTon"`
	CostOfDelivery Decimal2 `gorm:"column:cost_of_delivery;type:decimal(18,2)" json:"costOfDelivery"`
}

// TableName keeps the historical table name from the first schema revision.
func (Order) TableName() string { return "grain_orders" }

// BeforeCreate assigns an identifier when the caller omitted one.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
