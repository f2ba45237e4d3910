package postlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/postlist"
)

func newTestCatalog() *postlist.MemoryCatalog {
	catalog := postlist.NewMemoryCatalog(postlist.DefaultContentTypes()...)
	catalog.SetTaxonomies("post", "category", "post_tag")
	catalog.SetTaxonomies("page", "section")
	catalog.AddTerms("category", 1, 2, 3)
	catalog.AddTerms("post_tag", 10, 11)
	catalog.AddTerms("section", 20)
	catalog.AddItems("page", 10, 14, 12)
	return catalog
}

func TestBuildTaxQuery(t *testing.T) {
	const ct = postlist.ContentType("post")

	tests := []struct {
		name     string
		fields   postlist.Fields
		expected postlist.TaxQuery
	}{
		{
			name:   "no taxonomies",
			fields: postlist.Fields{},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationOR,
				Clauses:  []postlist.TaxClause{},
			},
		},
		{
			name: "selected terms in catalog order",
			fields: postlist.Fields{
				postlist.TaxonomiesField(ct):          {"category"},
				postlist.TermField(ct, "category", 3): {"on"},
				postlist.TermField(ct, "category", 1): {"on"},
			},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationOR,
				Clauses: []postlist.TaxClause{
					{Taxonomy: "category", Field: "id", Terms: []int64{1, 3}, Operator: postlist.OperatorIN},
				},
			},
		},
		{
			name: "require token sets AND relation",
			fields: postlist.Fields{
				postlist.TaxonomiesField(ct):                {"require", "category", "post_tag"},
				postlist.TermsRequiredField(ct, "post_tag"): {"on"},
				postlist.TermField(ct, "post_tag", 11):      {"on"},
			},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationAND,
				Clauses: []postlist.TaxClause{
					{Taxonomy: "category", Field: "id", Terms: []int64{}, Operator: postlist.OperatorIN},
					{Taxonomy: "post_tag", Field: "id", Terms: []int64{11}, Operator: postlist.OperatorAND},
				},
			},
		},
		{
			name: "dynamic terms",
			fields: postlist.Fields{
				postlist.TaxonomiesField(ct):               {"category"},
				postlist.TermsDynamicField(ct, "category"): {"on"},
				postlist.TermField(ct, "category", 2):      {"on"},
			},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationOR,
				Clauses: []postlist.TaxClause{
					{Taxonomy: "category", Field: "id", Terms: []int64{2}, Operator: postlist.OperatorIN, Dynamic: true},
				},
			},
		},
		{
			name: "taxonomies not attached to the content type are dropped",
			fields: postlist.Fields{
				postlist.TaxonomiesField(ct):           {"section", "genre", "post_tag"},
				postlist.TermField(ct, "section", 20):  {"on"},
				postlist.TermField(ct, "post_tag", 11): {"on"},
			},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationOR,
				Clauses: []postlist.TaxClause{
					{Taxonomy: "post_tag", Field: "id", Terms: []int64{11}, Operator: postlist.OperatorIN},
				},
			},
		},
		{
			name: "any term overrides terms and dynamic",
			fields: postlist.Fields{
				postlist.TaxonomiesField(ct):               {"category"},
				postlist.TermsDynamicField(ct, "category"): {"on"},
				postlist.AnyTermField(ct, "category"):      {"on"},
				postlist.TermField(ct, "category", 2):      {"on"},
			},
			expected: postlist.TaxQuery{
				Relation: postlist.RelationOR,
				Clauses: []postlist.TaxClause{
					{Taxonomy: "category", Field: "id", Terms: []int64{}, Operator: postlist.OperatorIN},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := postlist.BuildTaxQuery(context.Background(), newTestCatalog(), ct, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
		})
	}
}
