package portfolio

import (
	"fmt"
	"slices"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/storage"
)

// DefaultFile is the document used when no locale is requested.
const DefaultFile = "portfolio.json"

// FileName returns the document file for a locale: portfolio.json for the
// empty locale and portfolio.<locale>.json otherwise.
func FileName(locale string) string {
	if locale == "" {
		return DefaultFile
	}
	return "portfolio." + locale + ".json"
}

// Catalog holds one Store per configured locale over a shared data directory.
type Catalog struct {
	locales []string
	stores  map[string]*Store
}

// NewCatalog builds stores for the default document and each locale.
func NewCatalog(files storage.Provider, locales []string, opts ...StoreOption) *Catalog {
	c := &Catalog{
		locales: slices.Clone(locales),
		stores:  make(map[string]*Store, len(locales)+1),
	}
	c.stores[""] = NewStore(files, FileName(""), opts...)
	for _, l := range locales {
		c.stores[l] = NewStore(files, FileName(l), opts...)
	}
	return c
}

// Store returns the store for locale. An unknown locale is a validation error.
func (c *Catalog) Store(locale string) (*Store, error) {
	s, ok := c.stores[locale]
	if !ok {
		return nil, fmt.Errorf("%w: unknown locale %q", apperr.ErrValidation, locale)
	}
	return s, nil
}

// Locales returns the configured locales, excluding the default document.
func (c *Catalog) Locales() []string {
	return slices.Clone(c.locales)
}

// LocaleForFile maps a data file name back to its locale.
func (c *Catalog) LocaleForFile(name string) (string, bool) {
	for l, s := range c.stores {
		if s.Name() == name {
			return l, true
		}
	}
	return "", false
}
