package models

import "time"

// Cart is created on the first add and kept, empty, after checkout.
type Cart struct {
	ID        int        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int        `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is unique per (cart, product); adds for an existing pair merge
// into the existing row.
type CartItem struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int       `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID int       `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
