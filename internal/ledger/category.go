package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxCategoryNameLen bounds the category name.
const MaxCategoryNameLen = 50

// Category groups transactions under a unique name.
//
// Default categories are seeded at first initialization and are protected:
// they cannot be deleted and their IsDefault flag is never cleared once set.
type Category struct {
	Name      string `json:"name"`
	Type      Type   `json:"category_type"`
	IsDefault bool   `json:"is_default"`
}

// Validate returns the reasons c cannot be stored, or nil if it can.
func (c Category) Validate() []string {
	var errs []string
	name := strings.TrimSpace(c.Name)
	if name == "" {
		errs = append(errs, "category name is required")
	} else if len(name) > MaxCategoryNameLen {
		errs = append(errs, fmt.Sprintf("category name must be %d characters or less", MaxCategoryNameLen))
	}
	if !c.Type.Valid() {
		errs = append(errs, "category type must be INCOME or EXPENSE")
	}
	return errs
}

// ParseCategory converts a loose on-disk record into a typed Category.
func ParseCategory(data []byte) (Category, error) {
	var c Category
	if err := json.Unmarshal(data, &c); err != nil {
		return Category{}, fmt.Errorf("parse category: %w", err)
	}
	if c.Name == "" {
		return Category{}, fmt.Errorf("parse category: missing name")
	}
	if !c.Type.Valid() {
		return Category{}, fmt.Errorf("parse category %s: invalid category_type %q", c.Name, string(c.Type))
	}
	return c, nil
}
