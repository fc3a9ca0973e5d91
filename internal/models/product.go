package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog document. Older documents may carry facet values
// only in the top-level fields while newer ones use the Attributes map;
// the filter builder checks both locations.
type Product struct {
	ID                primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	SKU               string                `bson:"sku" json:"sku"`
	Name              string                `bson:"name" json:"name"`
	Description       string                `bson:"description,omitempty" json:"description,omitempty"`
	Category          string                `bson:"category" json:"category"`
	SubCategory       string                `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Brand             string                `bson:"brand,omitempty" json:"brand,omitempty"`
	Price             decimal.Decimal       `bson:"price" json:"price"`
	Currency          string                `bson:"currency,omitempty" json:"currency,omitempty"`
	StockQuantity     int                   `bson:"stockQuantity" json:"stockQuantity"`
	Images            []string              `bson:"images,omitempty" json:"images,omitempty"`
	Specifications    ProductSpecifications `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Attributes        map[string]any        `bson:"attributes,omitempty" json:"attributes,omitempty"`
	Variations        []ProductVariation    `bson:"variations,omitempty" json:"variations,omitempty"`
	Reviews           []ProductReview       `bson:"reviews,omitempty" json:"reviews,omitempty"`
	SpecialProperties SpecialProperties     `bson:"specialProperties,omitempty" json:"specialProperties,omitempty"`
	IsActive          *bool                 `bson:"isActive,omitempty" json:"isActive"`
	CreatedAt         time.Time             `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time             `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Active treats a missing isActive flag as active for backward
// compatibility with pre-flag documents.
func (p *Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// TotalStock is the product's own stock plus the stock of every active
// variation. Derived on read, never stored.
func (p *Product) TotalStock() int {
	total := p.StockQuantity
	for _, v := range p.Variations {
		if v.Active() {
			total += v.StockQuantity
		}
	}
	return total
}

// AverageRating is the mean rating over approved reviews, 0 when there
// are none. Derived on read, never stored.
func (p *Product) AverageRating() float64 {
	sum, n := 0, 0
	for _, r := range p.Reviews {
		if r.IsApproved {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// TotalReviews counts approved reviews only.
func (p *Product) TotalReviews() int {
	n := 0
	for _, r := range p.Reviews {
		if r.IsApproved {
			n++
		}
	}
	return n
}

// FindVariation returns the variation with the given SKU, or nil.
func (p *Product) FindVariation(sku string) *ProductVariation {
	for i := range p.Variations {
		if p.Variations[i].SKU == sku {
			return &p.Variations[i]
		}
	}
	return nil
}

// ImageURL returns the first catalog image, if any.
func (p *Product) ImageURL() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// ProductVariation is a purchasable sub-unit with its own price and stock.
type ProductVariation struct {
	SKU           string          `bson:"sku" json:"sku"`
	Color         string          `bson:"color,omitempty" json:"color,omitempty"`
	Size          string          `bson:"size,omitempty" json:"size,omitempty"`
	Price         decimal.Decimal `bson:"price" json:"price"`
	StockQuantity int             `bson:"stockQuantity" json:"stockQuantity"`
	ImageURL      string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsActive      *bool           `bson:"isActive,omitempty" json:"isActive"`
}

func (v *ProductVariation) Active() bool {
	return v.IsActive == nil || *v.IsActive
}

// ProductSpecifications holds the structured spec sheet plus an
// open-ended map for anything the schema doesn't name.
type ProductSpecifications struct {
	Connectivity      string         `bson:"connectivity,omitempty" json:"connectivity,omitempty"`
	BatteryLifeHours  int            `bson:"batteryLifeHours,omitempty" json:"batteryLifeHours,omitempty"`
	NoiseCancellation bool           `bson:"noiseCancellation,omitempty" json:"noiseCancellation,omitempty"`
	ColorOptions      []string       `bson:"colorOptions,omitempty" json:"colorOptions,omitempty"`
	Weight            string         `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions        string         `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Warranty          string         `bson:"warranty,omitempty" json:"warranty,omitempty"`
	Material          string         `bson:"material,omitempty" json:"material,omitempty"`
	AdditionalSpecs   map[string]any `bson:"additionalSpecs,omitempty" json:"additionalSpecs,omitempty"`
}

// ProductReview is an embedded customer review.
type ProductReview struct {
	UserID             int64     `bson:"userId" json:"userId"`
	Rating             int       `bson:"rating" json:"rating"`
	Comment            string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Date               time.Time `bson:"date" json:"date"`
	IsVerifiedPurchase bool      `bson:"isVerifiedPurchase" json:"isVerifiedPurchase"`
	IsApproved         bool      `bson:"isApproved" json:"isApproved"`
}

// SpecialProperties flags products for merchandising views.
type SpecialProperties struct {
	NewArrival bool `bson:"newArrival,omitempty" json:"newArrival"`
	HasOffer   bool `bson:"hasOffer,omitempty" json:"hasOffer"`
	BestSeller bool `bson:"bestSeller,omitempty" json:"bestSeller"`
}

func (s SpecialProperties) Any() bool {
	return s.NewArrival || s.HasOffer || s.BestSeller
}

// CategoryFilter is the declarative facet schema for one category.
type CategoryFilter struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category string             `bson:"category" json:"category"`
	Filters  []FilterOption     `bson:"filters" json:"filters"`
}

// Filter option types
const (
	FilterTypeString = "string"
	FilterTypeRange  = "range"
)

// FilterOption defines one facet: either an enumerated string filter or
// a numeric range filter.
type FilterOption struct {
	Name     string   `bson:"name" json:"name"`
	Type     string   `bson:"type" json:"type"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	MinValue *float64 `bson:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue *float64 `bson:"maxValue,omitempty" json:"maxValue,omitempty"`
	Unit     string   `bson:"unit,omitempty" json:"unit,omitempty"`
}

// HeroBanner is a promotional banner document.
type HeroBanner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Subtitle    string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Discount    string             `bson:"discount,omitempty" json:"discount,omitempty"`
	Price       string             `bson:"price,omitempty" json:"price,omitempty"`
	ButtonText  string             `bson:"buttonText,omitempty" json:"buttonText,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	BgColor     string             `bson:"bgColor,omitempty" json:"bgColor,omitempty"`
	IsActive    *bool              `bson:"isActive,omitempty" json:"isActive"`
	SortOrder   int                `bson:"sortOrder,omitempty" json:"sortOrder"`
	Locale      string             `bson:"locale,omitempty" json:"locale,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}
