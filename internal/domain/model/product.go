package model

import "time"

type Category string

// カテゴリは閉じた集合（これ以外は登録不可）
const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeKitchen Category = "Home & Kitchen"
	CategorySports      Category = "Sports"
	CategoryToys        Category = "Toys"
	CategoryBeauty      Category = "Beauty"
	CategoryOther       Category = "Other"
)

var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHomeKitchen,
	CategorySports,
	CategoryToys,
	CategoryBeauty,
	CategoryOther,
}

func IsValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// 商品。削除は is_deleted フラグのみ（物理削除しない）
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Category    Category  `gorm:"type:varchar(50);not null;index" json:"category"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	Weight      float64   `gorm:"not null;default:0" json:"weight"`
	Images      []string  `gorm:"serializer:json" json:"images"`
	Rating      float64   `gorm:"not null;default:0" json:"rating"`
	NumReviews  int64     `gorm:"not null;default:0" json:"numReviews"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 先頭画像（無ければ空文字）。注文スナップショットで使う
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
