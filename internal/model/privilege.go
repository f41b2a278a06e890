package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "order:review"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	// Stock management
	{Code: "stock:view", Name: "View Stock"},
	{Code: "stock:edit", Name: "Edit Stock"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "movement:view", Name: "View Stock Movements"},
	// Donations
	{Code: "donation:create", Name: "Register Donation"},
	{Code: "donation:view", Name: "View Donation"},
	// Workflow reviews
	{Code: "order:review", Name: "Review Order"},
	{Code: "delivery:review", Name: "Review Delivery"},
	{Code: "candidature:review", Name: "Review Candidature"},
	// Urgent walk-ins (MASTER_ADMIN only by default)
	{Code: "urgent:create", Name: "Create Urgent Delivery"},
}
