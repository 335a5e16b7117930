package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Page(t *testing.T) {
	f := &Filter{}
	f.EqIfSet("status", "pending").EqIfSet("flag_type", "").Eq("user_id", 7)

	query, args := f.Page("SELECT * FROM appeals", "created_at DESC", 20, 40)

	assert.Equal(t, "SELECT * FROM appeals WHERE status = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4", query)
	assert.Equal(t, []interface{}{"pending", 7, 20, 40}, args)
}

func TestFilter_Empty(t *testing.T) {
	f := &Filter{}
	query, args := f.Page("SELECT * FROM reports", "created_at DESC", 10, 0)

	assert.Equal(t, "SELECT * FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2", query)
	assert.Equal(t, []interface{}{10, 0}, args)
	assert.Equal(t, "", f.Where())
}
