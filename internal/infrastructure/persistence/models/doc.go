// Package models contains the GORM models behind the storefront tables.
// They carry the ORM tags so the domain types stay free of them; each model
// converts with ToDomain and FromDomain.
package models

// All lists every model for AutoMigrate, parents before children
func All() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ChatSessionModel{},
		&ChatMessageModel{},
	}
}
