package postlist

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Compiler turns the fields submitted by a post list edit screen into a FilterSpec.
//
// Compiling never fails because of the submission itself: missing or malformed fields
// fall back to the defaults of DefaultFilterSpec. Errors only come from the Catalog.
type Compiler struct {
	catalog Catalog
}

// NewCompiler creates a Compiler that enumerates content types, terms and items from catalog.
func NewCompiler(catalog Catalog) *Compiler {
	return &Compiler{catalog: catalog}
}

// Compile builds the FilterSpec for the submitted fields. DesignSlug is left empty; it is
// assigned when the design is linked.
func (c *Compiler) Compile(ctx context.Context, fields Fields) (FilterSpec, error) {
	spec := DefaultFilterSpec()

	if err := c.compileContentTypes(ctx, fields, &spec); err != nil {
		return FilterSpec{}, err
	}

	spec.PageSize = fields.Int(FieldPageSize, DefaultPageSize)

	if fields.Has(FieldOrderBy) {
		if orderBy := fields.Text(FieldOrderBy, TokenNone); orderBy != "" {
			spec.OrderBy = orderBy
		}
		if spec.HasOrder() && fields.Has(FieldOrder) {
			spec.Order = normalizeOrder(fields.Text(FieldOrder, OrderDESC))
		}
	}

	spec.Status = compileStatus(fields)

	if fields.Has(FieldPermission) {
		spec.Permission = fields.Text(FieldPermission, TokenNone)
	}

	if fields.Has(FieldAuthorMode) {
		spec.AuthorMode = fields.Text(FieldAuthorMode, TokenNone)
		if spec.HasAuthors() {
			if ids := fields.Ints(FieldAuthorIDs); ids != nil {
				spec.AuthorIDs = ids
			}
		}
	}

	if ids := fields.IDList(FieldExcludedIDs); ids != nil {
		spec.ExcludedIDs = ids
	}

	// Presence of a flag toggles its default; its value is ignored.
	spec.IgnoreSticky = !fields.Has(FieldSticky)
	spec.ExcludeCurrent = fields.Has(FieldExcludeCurrent)
	spec.ExcludeDuplicates = fields.Has(FieldExcludeDupes)

	return spec, nil
}

// compileContentTypes walks ContentTypeAny followed by the catalog's content types. An active
// ContentTypeAny ends the walk, so it can never be combined with explicit types.
func (c *Compiler) compileContentTypes(ctx context.Context, fields Fields, spec *FilterSpec) error {
	types, err := c.catalog.ContentTypes(ctx)
	if err != nil {
		return fmt.Errorf("error getting content types: %w", err)
	}

	candidates := append([]ContentTypeInfo{{Key: ContentTypeAny, Name: "Any / All"}}, types...)
	for _, info := range candidates {
		if !fields.Has(ToggleField(info.Key)) {
			continue
		}

		if info.Key.IsAny() {
			spec.ContentTypes = ContentTypeSelector{Any: true}
			spec.TaxQueries = map[ContentType]TaxQuery{}
			spec.ParentScope = map[ContentType]ParentScope{}
			return c.compileTaxQuery(ctx, info.Key, fields, spec)
		}

		spec.ContentTypes.Types = append(spec.ContentTypes.Types, info.Key)
		if err := c.compileTaxQuery(ctx, info.Key, fields, spec); err != nil {
			return err
		}

		if info.Hierarchical {
			scope, err := c.compileParentScope(ctx, info.Key, fields)
			if err != nil {
				return err
			}
			spec.ParentScope[info.Key] = scope
		}
	}

	return nil
}

func (c *Compiler) compileTaxQuery(ctx context.Context, ct ContentType, fields Fields, spec *FilterSpec) error {
	if !fields.Has(TaxonomiesField(ct)) {
		return nil
	}

	query, err := BuildTaxQuery(ctx, c.catalog, ct, fields)
	if err != nil {
		return fmt.Errorf("error building taxonomy query for %s: %w", ct, err)
	}
	spec.TaxQueries[ct] = query
	return nil
}

func (c *Compiler) compileParentScope(ctx context.Context, ct ContentType, fields Fields) (ParentScope, error) {
	scope := ParentScope{
		ParentIDs: []int64{},
		Dynamic:   fields.Has(ParentDynamicField(ct)),
	}

	items, err := c.catalog.Items(ctx, ct)
	if err != nil {
		return ParentScope{}, fmt.Errorf("error getting items of %s: %w", ct, err)
	}

	for _, itemID := range items {
		if fields.Has(ParentField(ct, itemID)) {
			scope.ParentIDs = append(scope.ParentIDs, itemID)
		}
	}

	return scope, nil
}

// compileStatus reads the primary status group. A leading "none" or "any" stands alone;
// otherwise the primary and secondary (visibility) groups are merged.
func compileStatus(fields Fields) StatusFilter {
	if !fields.Has(FieldStatusPrimary) {
		return StatusFilter{Mode: StatusModeAny}
	}

	primary := fields.Keys(FieldStatusPrimary)
	if len(primary) > 0 {
		switch primary[0] {
		case TokenNone:
			return StatusFilter{Mode: StatusModeNone}
		case TokenAny:
			return StatusFilter{Mode: StatusModeAny}
		}
	}

	statuses := make([]string, 0, len(primary))
	for _, status := range append(primary, fields.Keys(FieldStatusExtra)...) {
		if !slices.Contains(statuses, status) {
			statuses = append(statuses, status)
		}
	}

	return StatusFilter{Mode: StatusModeSet, Statuses: statuses}
}

func normalizeOrder(order string) string {
	if strings.EqualFold(order, OrderASC) {
		return OrderASC
	}
	return OrderDESC
}
