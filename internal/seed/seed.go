// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"yanjihub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options control demo data volume.
type Options struct {
	PostsPerCategory int
	CommentsPerPost  int
	MaxDays          int
}

// Locations are the region values used across seeded listings.
var Locations = []string{
	"연길 (延吉)",
	"훈춘 (珲春)",
	"도문 (图们)",
	"백두산",
	"두만강",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.PostsPerCategory <= 0 {
		opts.PostsPerCategory = 3
	}
	if opts.CommentsPerPost < 0 {
		opts.CommentsPerPost = 0
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// titles holds bilingual title pairs per category so seeded boards read
// like the real portal rather than lorem ipsum.
var titles = map[models.Category][2]string{
	models.CategoryRecruitment:    {"식당 주방 보조 구합니다", "招聘餐厅后厨帮工"},
	models.CategoryResume:         {"한중 통역 가능, 일자리 찾습니다", "中韩互译, 求职中"},
	models.CategoryParttime:       {"주말 전단지 알바 모집", "周末传单兼职招募"},
	models.CategoryBusiness:       {"연길 양꼬치 전문점", "延吉烤串专门店"},
	models.CategoryPromo:          {"개업 이벤트 전품목 20% 할인", "开业活动全场8折"},
	models.CategoryRealEstate:     {"시내 원룸 월세", "市内单间月租"},
	models.CategoryCommunityPhoto: {"두만강 일출 사진", "图们江日出照片"},
	models.CategoryCommunityUsed:  {"중고 전기자전거 팝니다", "出售二手电动车"},
	models.CategoryPartnership:    {"식자재 공동구매 파트너 모집", "食材团购合作伙伴招募"},
}

// BuildPost constructs a post for the category without persisting it.
func (f *Factory) BuildPost(category models.Category, overrides ...func(*models.Post)) *models.Post {
	pair := titles[category]
	post := &models.Post{
		Category:      category,
		TitleKR:       pair[0],
		TitleCN:       pair[1],
		Location:      Locations[f.rng.Intn(len(Locations))],
		DescriptionKR: gofakeit.Paragraph(1, 2, 8, "\n"),
		DescriptionCN: gofakeit.Paragraph(1, 2, 8, "\n"),
		PhoneNumber:   fmt.Sprintf("010-%04d-%04d", f.rng.Intn(10000), f.rng.Intn(10000)),
		WechatID:      gofakeit.Username(),
		Status:        models.PostStatusActive,
		Views:         f.rng.Intn(500),
		Likes:         f.rng.Intn(40),
		Dislikes:      f.rng.Intn(5),
	}

	switch category {
	case models.CategoryRecruitment, models.CategoryParttime:
		post.Salary = fmt.Sprintf("월 %d만원", 180+f.rng.Intn(120))
		post.IsKoreanRequired = f.rng.Intn(2) == 0
		post.HasDormitory = f.rng.Intn(3) == 0
	case models.CategoryBusiness:
		post.ShopName = gofakeit.Company()
		post.Address = gofakeit.Street()
		post.OpenHours = "10:00-22:00"
		post.Tags = models.StringList{"맛집", "烤串"}
	case models.CategoryPromo:
		post.PromoType = "opening"
		post.StartDate = time.Now().Format("2006-01-02")
		post.EndDate = time.Now().Add(14 * 24 * time.Hour).Format("2006-01-02")
	case models.CategoryRealEstate:
		post.DealType = "monthly"
		post.EstateType = "oneroom"
		post.Price = fmt.Sprintf("%d만원", 30+f.rng.Intn(40))
		post.Area = fmt.Sprintf("%d평", 8+f.rng.Intn(20))
		post.Floor = fmt.Sprintf("%d층", 1+f.rng.Intn(15))
	case models.CategoryCommunityUsed:
		post.Price = fmt.Sprintf("%d원", (5+f.rng.Intn(50))*10000)
	case models.CategoryCommunityPhoto:
		post.Photos = models.StringList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		}
	case models.CategoryPartnership:
		post.Status = models.PostStatusPending
	}

	// realistic created_at spread
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	post.ExpiresAt = post.CreatedAt.Add(30 * 24 * time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// Run populates every category with demo listings and comments.
func (f *Factory) Run() error {
	for _, category := range models.Categories {
		for i := 0; i < f.opts.PostsPerCategory; i++ {
			post := f.BuildPost(category)
			if i == 0 && category != models.CategoryPartnership {
				post.IsPremium = true
				until := time.Now().Add(7 * 24 * time.Hour)
				post.PremiumUntil = &until
			}
			if err := f.db.Create(post).Error; err != nil {
				return fmt.Errorf("seed post (%s): %w", category, err)
			}

			if post.Status != models.PostStatusActive {
				continue
			}
			for j := 0; j < f.opts.CommentsPerPost; j++ {
				comment := &models.Comment{
					PostID:   post.ID,
					Nickname: gofakeit.Username(),
					Content:  gofakeit.Sentence(8),
					Likes:    f.rng.Intn(10),
					Status:   models.CommentStatusActive,
				}
				if err := f.db.Create(comment).Error; err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}
	}

	// One partnership inquiry so the admin view is not empty.
	var partnership models.Post
	if err := f.db.Where("category = ?", models.CategoryPartnership).First(&partnership).Error; err == nil {
		inquiry := &models.InquiryMessage{
			PostID:     partnership.ID,
			SenderName: gofakeit.Name(),
			Message:    gofakeit.Sentence(12),
		}
		if err := f.db.Create(inquiry).Error; err != nil {
			return fmt.Errorf("seed inquiry: %w", err)
		}
	}

	return nil
}
