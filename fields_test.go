package postlist_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hypergopher/postlist"
)

func TestFields_Int(t *testing.T) {
	fields := postlist.Fields{
		"digits":  {"12"},
		"mixed":   {"1a0"},
		"letters": {"abc"},
		"signed":  {"-3"},
		"huge":    {"99999999999999999999"},
		"tiny":    {"-99999999999999999999"},
		"empty":   {},
	}

	tests := []struct {
		name     string
		field    string
		expected int
	}{
		{"plain digits", "digits", 12},
		{"non digits are stripped", "mixed", 10},
		{"no digits yields zero", "letters", 0},
		{"sign is kept", "signed", -3},
		{"overflow saturates", "huge", math.MaxInt},
		{"underflow saturates", "tiny", math.MinInt},
		{"present without value yields zero", "empty", 0},
		{"absent yields default", "missing", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fields.Int(tt.field, 5))
		})
	}
}

func TestFields_Text(t *testing.T) {
	fields := postlist.Fields{
		"html":  {"<b>Hello</b> world "},
		"plain": {"title"},
	}

	assert.Equal(t, "Hello world", fields.Text("html", ""))
	assert.Equal(t, "title", fields.Text("plain", ""))
	assert.Equal(t, "none", fields.Text("missing", "none"))
}

func TestFields_Keys(t *testing.T) {
	fields := postlist.Fields{
		"taxonomies": {"Category", "post_tag", "Bad Key!", "!!!"},
	}

	assert.Equal(t, []string{"category", "post_tag", "badkey"}, fields.Keys("taxonomies"))
	assert.Nil(t, fields.Keys("missing"))
}

func TestFields_Ints(t *testing.T) {
	fields := postlist.Fields{"authors": {"3", "x", " 5 ", "7b", "3", "05"}}
	assert.Equal(t, []int64{3, 5, 7}, fields.Ints("authors"))
}

func TestFields_IDList(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []int64
	}{
		{"drops empty and non numeric tokens", "3,7,,x,9", []int64{3, 7, 9}},
		{"absolute values and no duplicates", "-4, 4 ,5", []int64{4, 5}},
		{"only junk", ",,x", nil},
		{"out of range ids saturate", "99999999999999999999,-99999999999999999999", []int64{math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := postlist.Fields{"ids": {tt.value}}
			assert.Equal(t, tt.expected, fields.IDList("ids"))
		})
	}
}

func TestFields_Has(t *testing.T) {
	fields := postlist.FieldsFromValues(url.Values{"flag": {""}})
	fields.Set("other")

	assert.True(t, fields.Has("flag"))
	assert.True(t, fields.Has("other"))
	assert.False(t, fields.Has("missing"))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "post_tag-2", postlist.SanitizeKey("Post_Tag-2"))
	assert.Equal(t, "", postlist.SanitizeKey("<>"))
}
