package service

import (
	"context"
	"fmt"
	"strings"

	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/util"

	"go.uber.org/zap"
)

// BannerService serves promotional hero banners.
type BannerService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewBannerService creates a new banner service
func NewBannerService(cat *catalog.Catalog) *BannerService {
	return &BannerService{
		catalog: cat,
		logger:  util.NamedLogger("banner"),
	}
}

// BannerRequest creates or replaces a hero banner.
type BannerRequest struct {
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Discount    string `json:"discount"`
	Price       string `json:"price"`
	ButtonText  string `json:"buttonText"`
	Image       string `json:"image"`
	BgColor     string `json:"bgColor"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
	Locale      string `json:"locale"`
}

func (r *BannerRequest) toBanner() *models.HeroBanner {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.HeroBanner{
		Title:       strings.TrimSpace(r.Title),
		Subtitle:    r.Subtitle,
		Description: r.Description,
		Discount:    r.Discount,
		Price:       r.Price,
		ButtonText:  r.ButtonText,
		Image:       r.Image,
		BgColor:     r.BgColor,
		IsActive:    &active,
		SortOrder:   r.SortOrder,
		Locale:      r.Locale,
	}
}

// GetActiveBanners returns banners visible to storefront clients,
// ordered by sortOrder. Locale is optional.
func (s *BannerService) GetActiveBanners(ctx context.Context, locale string) ([]models.HeroBanner, error) {
	banners, err := s.catalog.FindActiveBanners(ctx, locale)
	return banners, translate(err)
}

// GetAllBanners returns every banner, for admin screens.
func (s *BannerService) GetAllBanners(ctx context.Context) ([]models.HeroBanner, error) {
	banners, err := s.catalog.FindAllBanners(ctx)
	return banners, translate(err)
}

// GetBanner returns one banner by ID.
func (s *BannerService) GetBanner(ctx context.Context, id string) (*models.HeroBanner, error) {
	b, err := s.catalog.FindBannerByID(ctx, id)
	return b, translate(err)
}

// CreateBanner stores a new banner.
func (s *BannerService) CreateBanner(ctx context.Context, req *BannerRequest) (*models.HeroBanner, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be blank", ErrValidation)
	}

	b := req.toBanner()
	if err := s.catalog.InsertBanner(ctx, b); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Hero banner created",
		zap.String("banner_id", b.ID.Hex()),
		zap.String("title", b.Title))
	return b, nil
}

// UpdateBanner replaces a banner by ID.
func (s *BannerService) UpdateBanner(ctx context.Context, id string, req *BannerRequest) (*models.HeroBanner, error) {
	existing, err := s.catalog.FindBannerByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	b := req.toBanner()
	b.CreatedAt = existing.CreatedAt
	if err := s.catalog.ReplaceBanner(ctx, id, b); err != nil {
		return nil, translate(err)
	}
	return b, nil
}

// DeleteBanner removes a banner by ID.
func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	return translate(s.catalog.DeleteBanner(ctx, id))
}
