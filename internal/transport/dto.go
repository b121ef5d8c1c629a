package transport

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Address  string `json:"address"  validate:"max=255"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Address  string `json:"address"  validate:"max=255"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32,alphanum"`
	Email    *string `json:"email"    validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Address  *string `json:"address"  validate:"omitempty,max=255"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// NameRequest creates or renames a category or a tag.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=128"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       uint    `json:"stock"`
	TagIDs      []uint  `json:"tag_ids"     validate:"omitempty,dive,gt=0"`
	CategoryID  *uint   `json:"category_id" validate:"omitempty,gt=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=128"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Stock       *uint    `json:"stock"`
}

// ReplaceTagsRequest sets the full tag set; an empty list clears it.
type ReplaceTagsRequest struct {
	TagIDs []uint `json:"tag_ids" validate:"required,dive,gt=0"`
}

type TagDeltaRequest struct {
	TagIDs []uint `json:"tag_ids" validate:"required,min=1,dive,gt=0"`
}

// SetCategoryRequest assigns a category; null clears it.
type SetCategoryRequest struct {
	CategoryID *uint `json:"category_id" validate:"omitempty,gt=0"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"access_token"`
	ExpiresAt int64  `json:"expires_at"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
