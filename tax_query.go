package postlist

import (
	"context"
	"fmt"
	"slices"
)

// BuildTaxQuery compiles the taxonomy restriction of one content type from the submitted fields.
//
// The active taxonomies are read from the content type's taxonomies field. The RequireToken among
// them is not a taxonomy: it switches the relation between clauses from OR to AND. Taxonomies the
// catalog does not attach to the content type are dropped. Every other taxonomy becomes one clause:
//   - Operator is AND when the taxonomy's terms-required flag was submitted, IN otherwise.
//   - Dynamic follows the taxonomy's dynamic flag.
//   - When the "any term" flag was submitted, Dynamic is forced off and no terms are collected.
//   - Otherwise every term of the taxonomy, in catalog order, whose flag was submitted is collected.
func BuildTaxQuery(ctx context.Context, catalog Catalog, ct ContentType, fields Fields) (TaxQuery, error) {
	query := TaxQuery{
		Relation: RelationOR,
		Clauses:  []TaxClause{},
	}

	known, err := catalog.Taxonomies(ctx, ct)
	if err != nil {
		return TaxQuery{}, fmt.Errorf("error getting taxonomies of %s: %w", ct, err)
	}

	var seen []string
	for _, taxonomy := range fields.Keys(TaxonomiesField(ct)) {
		if taxonomy == RequireToken {
			query.Relation = RelationAND
			continue
		}
		if !slices.Contains(known, taxonomy) || slices.Contains(seen, taxonomy) {
			continue
		}
		seen = append(seen, taxonomy)

		clause, err := buildTaxClause(ctx, catalog, ct, taxonomy, fields)
		if err != nil {
			return TaxQuery{}, err
		}
		query.Clauses = append(query.Clauses, clause)
	}

	return query, nil
}

func buildTaxClause(ctx context.Context, catalog Catalog, ct ContentType, taxonomy string, fields Fields) (TaxClause, error) {
	clause := TaxClause{
		Taxonomy: taxonomy,
		Field:    "id",
		Terms:    []int64{},
		Operator: OperatorIN,
		Dynamic:  fields.Has(TermsDynamicField(ct, taxonomy)),
	}

	if fields.Has(TermsRequiredField(ct, taxonomy)) {
		clause.Operator = OperatorAND
	}

	// "Any term" wins over both explicit terms and dynamic resolution.
	if fields.Has(AnyTermField(ct, taxonomy)) {
		clause.Dynamic = false
		return clause, nil
	}

	terms, err := catalog.Terms(ctx, taxonomy)
	if err != nil {
		return TaxClause{}, fmt.Errorf("error getting terms of taxonomy %s: %w", taxonomy, err)
	}

	for _, termID := range terms {
		if fields.Has(TermField(ct, taxonomy, termID)) {
			clause.Terms = append(clause.Terms, termID)
		}
	}

	return clause, nil
}
