// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Category identifies one of the nine fixed listing boards.
type Category string

const (
	CategoryRecruitment    Category = "RECRUITMENT"
	CategoryResume         Category = "RESUME"
	CategoryParttime       Category = "PARTTIME"
	CategoryBusiness       Category = "BUSINESS"
	CategoryPromo          Category = "PROMO"
	CategoryRealEstate     Category = "REAL_ESTATE"
	CategoryCommunityPhoto Category = "COMMUNITY_PHOTO"
	CategoryCommunityUsed  Category = "COMMUNITY_USED"
	CategoryPartnership    Category = "PARTNERSHIP"
)

// Categories lists every valid category in tab order.
var Categories = []Category{
	CategoryRecruitment,
	CategoryResume,
	CategoryParttime,
	CategoryBusiness,
	CategoryPromo,
	CategoryRealEstate,
	CategoryCommunityPhoto,
	CategoryCommunityUsed,
	CategoryPartnership,
}

// Valid reports whether c is one of the nine known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusPending  PostStatus = "pending"
	PostStatusRejected PostStatus = "rejected"
	PostStatusBanned   PostStatus = "banned"
	PostStatusHidden   PostStatus = "hidden"
	PostStatusDeleted  PostStatus = "deleted"
)

// Post is a single classified listing. Category-specific attributes are
// nullable columns on the one wide record; presence depends on the
// category but is not enforced by the schema.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Category      Category   `gorm:"not null;index" json:"category"`
	TitleKR       string     `gorm:"not null" json:"title_kr"`
	TitleCN       string     `gorm:"not null" json:"title_cn"`
	CategoryLabel string     `json:"category_label"`
	Location      string     `gorm:"index" json:"location"`
	DescriptionKR string     `gorm:"type:text" json:"description_kr"`
	DescriptionCN string     `gorm:"type:text" json:"description_cn"`
	PhoneNumber   string     `gorm:"not null" json:"phone_number"`
	WechatID      string     `json:"wechat_id,omitempty"`

	// Category-specific optional attributes.
	Salary           string     `json:"salary,omitempty"`
	Price            string     `json:"price,omitempty"`
	Area             string     `json:"area,omitempty"`
	ShopName         string     `json:"shop_name,omitempty"`
	Address          string     `json:"address,omitempty"`
	OpenHours        string     `json:"open_hours,omitempty"`
	Tags             StringList `gorm:"type:text" json:"tags,omitempty"`
	DealType         string     `json:"deal_type,omitempty"`
	EstateType       string     `json:"estate_type,omitempty"`
	Floor            string     `json:"floor,omitempty"`
	MoveInDate       string     `json:"move_in_date,omitempty"`
	StartDate        string     `json:"start_date,omitempty"`
	EndDate          string     `json:"end_date,omitempty"`
	PromoType        string     `json:"promo_type,omitempty"`
	Photos           StringList `gorm:"type:text" json:"photos,omitempty"`
	IsKoreanRequired bool       `json:"is_korean_required,omitempty"`
	HasDormitory     bool       `json:"has_dormitory,omitempty"`

	Status       PostStatus `gorm:"not null;default:active;index" json:"status"`
	ReportCount  int        `gorm:"not null;default:0" json:"report_count"`
	Likes        int        `gorm:"not null;default:0" json:"likes"`
	Dislikes     int        `gorm:"not null;default:0" json:"dislikes"`
	Views        int        `gorm:"not null;default:0" json:"views"`
	IsUrgent     bool       `gorm:"not null;default:false" json:"is_urgent"`
	IsPremium    bool       `gorm:"not null;default:false;index" json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
	IsAd         bool       `gorm:"not null;default:false" json:"is_ad"`

	// VisibleCommentsCount excludes hidden comments; computed at query time.
	VisibleCommentsCount int `gorm:"->" json:"comments_count"`

	Comments  []Comment        `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Inquiries []InquiryMessage `gorm:"foreignKey:PostID" json:"inquiries,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
