package profile

import (
	"fmt"
	"sync"
)

// Catalog is an immutable, ordered set of profiles.
type Catalog struct {
	order []Category
	byCat map[Category][]Profile
	byID  map[string]Profile
}

var categoryOrder = []Category{CategoryColor, CategorySlide, CategoryBW, CategoryInstant}

// NewCatalog builds a catalog. A later profile with an existing ID replaces
// the earlier one in place.
func NewCatalog(profiles ...Profile) (*Catalog, error) {
	c := &Catalog{
		order: categoryOrder,
		byCat: map[Category][]Profile{},
		byID:  map[string]Profile{},
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if old, ok := c.byID[p.ID]; ok {
			list := c.byCat[old.Category]
			for i := range list {
				if list[i].ID == p.ID {
					c.byCat[old.Category] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		}
		c.byID[p.ID] = p
		c.byCat[p.Category] = append(c.byCat[p.Category], p)
	}
	return c, nil
}

// Merge returns a new catalog with extra profiles added or replacing built-ins.
func (c *Catalog) Merge(extra ...Profile) (*Catalog, error) {
	return NewCatalog(append(c.All(), extra...)...)
}

func (c *Catalog) Get(id string) (Profile, error) {
	p, ok := c.byID[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// ByCategory returns the profiles of cat in catalog order; unknown categories yield nil.
func (c *Catalog) ByCategory(cat Category) []Profile {
	return append([]Profile(nil), c.byCat[cat]...)
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.order...)
}

func (c *Catalog) All() []Profile {
	var out []Profile
	for _, cat := range c.order {
		out = append(out, c.byCat[cat]...)
	}
	return out
}

func (c *Catalog) Len() int { return len(c.byID) }

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(builtin()...)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog() }

func Get(id string) (Profile, error)    { return Default().Get(id) }
func ByCategory(cat Category) []Profile { return Default().ByCategory(cat) }
func Categories() []Category            { return Default().Categories() }
func All() []Profile                    { return Default().All() }
