package store

import (
	"sort"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/ledger"
)

// SaveCategory validates and upserts a category by name, then commits the
// document. The IsDefault flag of a default category survives the replace -
// once set it is never cleared.
func (r *Repository) SaveCategory(c ledger.Category) bool {
	if errs := c.Validate(); len(errs) > 0 {
		r.log.Warn("rejecting invalid category",
			zap.String("name", c.Name), zap.Strings("errors", errs))
		return false
	}

	prevCat, prevMeta := r.doc.Categories, r.doc.Metadata
	categories := append([]ledger.Category(nil), prevCat...)
	replaced := false
	for i, existing := range categories {
		if existing.Name == c.Name {
			if existing.IsDefault {
				c.IsDefault = true
			}
			categories[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		categories = append(categories, c)
	}

	r.doc.Categories = categories
	return r.commit(r.doc.Transactions, prevCat, prevMeta)
}

// GetCategory returns the category with the given name.
func (r *Repository) GetCategory(name string) (ledger.Category, bool) {
	for _, c := range r.doc.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return ledger.Category{}, false
}

// AllCategories returns every category sorted by name.
func (r *Repository) AllCategories() []ledger.Category {
	out := make([]ledger.Category, len(r.doc.Categories))
	copy(out, r.doc.Categories)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// DeleteCategory removes the category with the given name. Default
// categories and categories referenced by at least one transaction are
// protected; both cases report failure and leave the document unchanged.
func (r *Repository) DeleteCategory(name string) bool {
	prevCat, prevMeta := r.doc.Categories, r.doc.Metadata
	for i, c := range prevCat {
		if c.Name != name {
			continue
		}
		if c.IsDefault {
			r.log.Warn("refusing to delete default category", zap.String("name", name))
			return false
		}
		if r.doc.CategoryInUse(name) {
			r.log.Warn("refusing to delete category in use", zap.String("name", name))
			return false
		}
		categories := append([]ledger.Category(nil), prevCat[:i]...)
		categories = append(categories, prevCat[i+1:]...)
		r.doc.Categories = categories
		return r.commit(r.doc.Transactions, prevCat, prevMeta)
	}
	return false
}
