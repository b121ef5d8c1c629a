package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "long enough"}))
	assert.Nil(t, Validate(UpdateProductRequest{}))
	assert.Nil(t, Validate(ReplaceTagsRequest{TagIDs: []uint{}}))
	assert.Nil(t, Validate(SetCategoryRequest{}))
	assert.Nil(t, Validate(CreateProductRequest{Name: "lamp", TagIDs: []uint{1, 2}, CategoryID: ptr(uint(3))}))
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   any
		field string
		rule  string
	}{
		{name: "missing username", req: RegisterRequest{Email: "a@b.co", Password: "12345678"}, field: "username", rule: "required"},
		{name: "bad email", req: RegisterRequest{Username: "alice", Email: "nope", Password: "12345678"}, field: "email", rule: "email"},
		{name: "short password", req: RegisterRequest{Username: "alice", Email: "a@b.co", Password: "123"}, field: "password", rule: "min"},
		{name: "bad role", req: CreateUserRequest{Username: "alice", Email: "a@b.co", Password: "12345678", Role: "root"}, field: "role", rule: "oneof"},
		{name: "negative price", req: CreateProductRequest{Name: "x", Price: -1}, field: "price", rule: "gte"},
		{name: "zero tag id", req: CreateProductRequest{Name: "x", TagIDs: []uint{1, 0}}, field: "tag_ids[1]", rule: "gt"},
		{name: "empty delta", req: TagDeltaRequest{TagIDs: []uint{}}, field: "tag_ids", rule: "min"},
		{name: "missing replace list", req: ReplaceTagsRequest{}, field: "tag_ids", rule: "required"},
		{name: "empty name", req: NameRequest{}, field: "name", rule: "required"},
		{name: "patch negative price", req: UpdateProductRequest{Price: ptr(-2.0)}, field: "price", rule: "gte"},
		{name: "zero category", req: SetCategoryRequest{CategoryID: ptr(uint(0))}, field: "category_id", rule: "gt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.req)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.NotEmpty(t, errs[0].Message)
			assert.Contains(t, errs.Error(), tt.field)
		})
	}
}
