package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups transactions of one type (income or expense). Name is
// unique per user within a type. IsActive is a soft hide flag: inactive
// categories are excluded from selection but remain valid targets for
// historical transactions. Deletion is hard and performs no referential
// cleanup; a dangling CategoryID on old transactions is expected and
// resolved to an "Uncategorized" fallback at display time.
type Category struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	UserID    uint           `json:"-" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"size:50;not null"`
	Icon      string         `json:"icon" gorm:"size:10"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"`
	Type      string         `json:"type" gorm:"size:10;not null;index"`
	IsActive  bool           `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the category set seeded for every new user.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Alimentação", Icon: "🍔", Color: "#ff6b6b", Type: TypeExpense, IsActive: true},
		{Name: "Moradia", Icon: "🏠", Color: "#4ecdc4", Type: TypeExpense, IsActive: true},
		{Name: "Transporte", Icon: "🚗", Color: "#45b7d1", Type: TypeExpense, IsActive: true},
		{Name: "Saúde", Icon: "💊", Color: "#e17055", Type: TypeExpense, IsActive: true},
		{Name: "Lazer", Icon: "🎮", Color: "#a29bfe", Type: TypeExpense, IsActive: true},
		{Name: "Educação", Icon: "📚", Color: "#fdcb6e", Type: TypeExpense, IsActive: true},
		{Name: "Compras", Icon: "🛍️", Color: "#fd79a8", Type: TypeExpense, IsActive: true},
		{Name: "Contas", Icon: "📄", Color: "#636e72", Type: TypeExpense, IsActive: true},
		{Name: "Salário", Icon: "💰", Color: "#00b894", Type: TypeIncome, IsActive: true},
		{Name: "Freelance", Icon: "💻", Color: "#0984e3", Type: TypeIncome, IsActive: true},
		{Name: "Investimentos", Icon: "📈", Color: "#6c5ce7", Type: TypeIncome, IsActive: true},
		{Name: "Outros", Icon: "📦", Color: "#b2bec3", Type: TypeIncome, IsActive: true},
	}
}
