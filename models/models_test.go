package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAccountKind(t *testing.T) {
	for in, want := range map[string]AccountKind{"": KindUser, "user": KindUser, " Admin ": KindAdmin, "ADMIN": KindAdmin} {
		got, err := ParseAccountKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAccountKind("provider")
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("")
	assert.NoError(t, err)
	assert.Equal(t, CategoryInfo, got)

	got, err = ParseCategory("Warning")
	assert.NoError(t, err)
	assert.Equal(t, CategoryWarning, got)

	_, err = ParseCategory("urgent")
	assert.Error(t, err)
}

func TestRecipientRefNormalized(t *testing.T) {
	r := RecipientRef{ID: " u1 ", Email: " A@B.com "}.Normalized()
	assert.Equal(t, KindUser, r.Kind)
	assert.Equal(t, "u1", r.ID)
	assert.Equal(t, "a@b.com", r.Email)
	assert.Equal(t, "User:u1", r.String())
	assert.Equal(t, "User<a@b.com>", UserEmailRef("a@b.com").String())
}

func TestVinRequestStatus(t *testing.T) {
	st, err := ParseVinRequestStatus(" Completed")
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)
	assert.Equal(t, "Completed", st.Title())

	_, err = ParseVinRequestStatus("lost")
	assert.Error(t, err)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Current: 2, Pages: 3, Total: 21}, NewPagination(2, 10, 21))
	assert.Equal(t, Pagination{Current: 1, Pages: 0, Total: 0}, NewPagination(1, 10, 0))
}
