package model

import "time"

// DonationBatch is one incoming dated quantity inside a donation line.
type DonationBatch struct {
	Quantity int        `json:"quantity"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// DonationLine groups the incoming batches for one product name. Category and
// image ride along and are applied last-write-wins when non-empty.
type DonationLine struct {
	ProductName string          `json:"product_name"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
	Batches     []DonationBatch `json:"batches"`
}

// Donation records an intake. DonorName is blank when Anonymous is set.
type Donation struct {
	BaseModel
	DonorName  string         `gorm:"type:varchar(255)" json:"donor_name,omitempty"`
	Anonymous  bool           `gorm:"default:false" json:"anonymous"`
	Lines      []DonationLine `gorm:"type:jsonb;serializer:json" json:"lines"`
	CampaignID *string        `gorm:"type:varchar(64);index" json:"campaign_id,omitempty"`
	DonatedAt  time.Time      `json:"donated_at"`
}

// Campaign keeps the idempotent set of donation ids attributed to it.
type Campaign struct {
	BaseModel
	Name        string   `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	DonationIDs []string `gorm:"type:jsonb;serializer:json" json:"donation_ids"`
	Version     int64    `gorm:"not null;default:0" json:"-"`
}
