package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

// DonationLineInput is one product entry on the donation form.
type DonationLineInput struct {
	ProductName string       `json:"product_name" validate:"required"`
	Category    string       `json:"category"`
	Image       string       `json:"image"`
	Batches     []BatchInput `json:"batches" validate:"required,min=1,dive"`
}

type DonationRequest struct {
	DonorName  string              `json:"donor_name"`
	Anonymous  bool                `json:"anonymous"`
	CampaignID *string             `json:"campaign_id,omitempty"`
	Lines      []DonationLineInput `json:"lines" validate:"required,min=1,dive"`
}

type DonationService interface {
	Register(ctx context.Context, req *DonationRequest, actorID string) (*model.Donation, error)
	List() ([]model.Donation, error)
	CreateCampaign(ctx context.Context, name, actorID string) (*model.Campaign, error)
	ListCampaigns() ([]model.Campaign, error)
}

type donationService struct {
	donations repository.DonationRepository
	campaigns repository.CampaignRepository
	products  repository.ProductRepository
	movements repository.MovementRepository
	atomic    *repository.Atomic
	publisher ws.Publisher
	cache     cache.StockCache
}

func NewDonationService(donations repository.DonationRepository, campaigns repository.CampaignRepository, products repository.ProductRepository, movements repository.MovementRepository, atomic *repository.Atomic, publisher ws.Publisher, stockCache cache.StockCache) DonationService {
	return &donationService{
		donations: donations,
		campaigns: campaigns,
		products:  products,
		movements: movements,
		atomic:    atomic,
		publisher: publisher,
		cache:     stockCache,
	}
}

func (s *donationService) Register(ctx context.Context, req *DonationRequest, actorID string) (*model.Donation, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !req.Anonymous && req.DonorName == "" {
		return nil, apperr.Validation("donor_name", "required unless the donation is anonymous")
	}

	// A donation may list the same product twice; consolidate before merging
	// so each product gets exactly one ledger update.
	groups := groupLines(req.Lines)

	donation := &model.Donation{
		DonorName:  req.DonorName,
		Anonymous:  req.Anonymous,
		CampaignID: req.CampaignID,
		Lines:      toDonationLines(req.Lines),
		DonatedAt:  time.Now(),
	}
	if donation.Anonymous {
		donation.DonorName = ""
	}
	donation.CreatedBy = actorID
	donation.UpdatedBy = actorID

	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		donation.ID = uuid.Nil // fresh id if a previous attempt rolled back
		if err := s.donations.Create(tx, donation); err != nil {
			return err
		}
		for _, group := range groups {
			if _, err := mergeIntoLedger(tx, s.products, s.movements, group, actorID, "donation", donation.ID.String()); err != nil {
				return err
			}
		}
		if req.CampaignID != nil && *req.CampaignID != "" {
			if err := s.attachToCampaign(tx, *req.CampaignID, donation.ID.String(), actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, stockCacheKey(time.Now()))
	s.publisher.Publish(ws.Event{
		Type:   "stock_update",
		Entity: "donation",
		Action: "donation_registered",
		Payload: map[string]interface{}{
			"id":    donation.ID,
			"lines": len(donation.Lines),
		},
	})
	return donation, nil
}

// attachToCampaign appends the donation id to the campaign's id set. The
// union is idempotent so a retried transaction cannot double-count.
func (s *donationService) attachToCampaign(tx *gorm.DB, campaignID, donationID, actorID string) error {
	id, err := uuid.Parse(campaignID)
	if err != nil {
		return apperr.Validation("campaign_id", "must be a valid id")
	}
	campaign, err := s.campaigns.FindByID(tx, id)
	if err != nil {
		return err
	}
	for _, existing := range campaign.DonationIDs {
		if existing == donationID {
			return nil
		}
	}
	campaign.DonationIDs = append(campaign.DonationIDs, donationID)
	campaign.UpdatedBy = actorID
	return s.campaigns.Save(tx, campaign)
}

func (s *donationService) List() ([]model.Donation, error) {
	return s.donations.FindAll()
}

func (s *donationService) CreateCampaign(ctx context.Context, name, actorID string) (*model.Campaign, error) {
	if name == "" {
		return nil, apperr.Validation("name", "must not be blank")
	}
	campaign := &model.Campaign{Name: name, DonationIDs: []string{}}
	campaign.CreatedBy = actorID
	campaign.UpdatedBy = actorID
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		return s.campaigns.Create(tx, campaign)
	})
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *donationService) ListCampaigns() ([]model.Campaign, error) {
	return s.campaigns.FindAll()
}

// groupLines folds the request lines by normalized product name, preserving
// first-seen order. Later non-empty category/image values win.
func groupLines(lines []DonationLineInput) []MergeInput {
	index := make(map[string]int)
	grouped := make([]MergeInput, 0, len(lines))
	for _, line := range lines {
		key := model.NormalizeName(line.ProductName)
		if pos, ok := index[key]; ok {
			grouped[pos].Batches = append(grouped[pos].Batches, toBatches(line.Batches)...)
			if line.Category != "" {
				grouped[pos].Category = line.Category
			}
			if line.Image != "" {
				grouped[pos].Image = line.Image
			}
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, MergeInput{
			Name:     line.ProductName,
			Category: line.Category,
			Image:    line.Image,
			Batches:  toBatches(line.Batches),
		})
	}
	return grouped
}

func toDonationLines(lines []DonationLineInput) []model.DonationLine {
	out := make([]model.DonationLine, 0, len(lines))
	for _, line := range lines {
		batches := make([]model.DonationBatch, 0, len(line.Batches))
		for _, b := range line.Batches {
			batches = append(batches, model.DonationBatch{Quantity: b.Quantity, Expiry: b.Expiry})
		}
		out = append(out, model.DonationLine{
			ProductName: line.ProductName,
			Category:    line.Category,
			Image:       line.Image,
			Batches:     batches,
		})
	}
	return out
}
