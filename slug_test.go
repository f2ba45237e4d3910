package postlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hypergopher/postlist"
)

func TestSlugPolicy_DesignSlug(t *testing.T) {
	policy := postlist.DefaultSlugPolicy()

	assert.Equal(t, "news-design", policy.DesignSlug("news"))
	assert.Equal(t, "-design", policy.DesignSlug(""))
	assert.Equal(t, "news__trashed-design", policy.TrashedDesignSlug("news__trashed"))
}

func TestSlugPolicy_Hooks(t *testing.T) {
	policy := postlist.DefaultSlugPolicy()
	policy.ProcessSlug = func(s string) string { return "live-" + s }
	policy.TrashSlug = func(s string) string { return "old-" + s }

	assert.Equal(t, "live-news-design", policy.DesignSlug("news"))
	assert.Equal(t, "old-news__trashed-design", policy.TrashedDesignSlug("news__trashed"))
	assert.Equal(t, "-design", policy.DesignSlug(""), "hooks never see an empty slug")
}

func TestSlugPolicy_IsPlaceholder(t *testing.T) {
	policy := postlist.DefaultSlugPolicy()

	tests := []struct {
		slug     string
		expected bool
	}{
		{"", true},
		{"-design", true},
		{"news-design", false},
		{"design", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.IsPlaceholder(tt.slug), "slug %q", tt.slug)
	}
}

func TestSlugPolicy_TrashRoundTrip(t *testing.T) {
	policy := postlist.DefaultSlugPolicy()

	trashed := policy.Trashed("news")
	assert.Equal(t, "news__trashed", trashed)
	assert.Equal(t, trashed, policy.Trashed(trashed), "trashing twice keeps a single marker")
	assert.Equal(t, "news", policy.Untrashed(trashed))
	assert.Equal(t, "news", policy.Untrashed("news"))
	assert.Equal(t, "", policy.Trashed(""))
	assert.Equal(t, "news__trashed_keep", policy.Untrashed("news__trashed_keep"), "only a trailing marker is removed")
}

func TestFallbackTitle(t *testing.T) {
	assert.Equal(t, "post-list-42", postlist.FallbackTitle(postlist.DefaultTitlePrefix, 42))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"My Great List!", "my-great-list"},
		{"  Spaces  ", "spaces"},
		{"news__trashed-design", "news__trashed-design"},
		{"Crème Brûlée", "creme-brulee"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, postlist.Sanitize(tt.title), "title %q", tt.title)
	}
}
