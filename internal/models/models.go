package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"           json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"               json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"               json:"email"`
	PasswordHash string    `gorm:"not null"                           json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	Address      string    `json:"address"`
	Products     []Product `gorm:"foreignKey:OwnerID"                 json:"products,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"     json:"name"`
	Products  []Product `gorm:"foreignKey:CategoryID"    json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"     json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string    `gorm:"uniqueIndex;not null"        json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Price       float64   `gorm:"not null"                    json:"price"`
	Stock       uint      `gorm:"not null;default:0"          json:"stock"`
	OwnerID     *uint     `gorm:"index"                       json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	CategoryID  *uint     `gorm:"index"                       json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Tags        []Tag     `gorm:"many2many:product_tags"      json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// All returns every model in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Tag{}, &Product{}}
}
