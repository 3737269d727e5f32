package domain

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

// DietaryPreferences are the tags offered as a dietary view of the menu.
var DietaryPreferences = []string{
	"vegan", "vegetarian", "gluten-free", "dairy-free", "low-sugar", "low-sodium", "high-protein",
}

type MenuItem struct {
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"-"`
	Tags     []string `json:"tags" yaml:"tags"`
}

func (i MenuItem) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

type Category struct {
	Name  string     `json:"category" yaml:"category"`
	Items []MenuItem `json:"items" yaml:"items"`
}

// Catalog is the read-only menu. Nothing mutates it after LoadCatalog.
type Catalog struct {
	categories []Category
	byName     map[string]MenuItem
}

// DefaultCatalog returns the built-in restaurant menu.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultMenu)
}

func LoadCatalog(raw []byte) (*Catalog, error) {
	var cats []Category
	if err := yaml.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	c := &Catalog{categories: cats, byName: make(map[string]MenuItem)}
	for ci := range c.categories {
		cat := &c.categories[ci]
		if cat.Name == "" {
			return nil, fmt.Errorf("menu category #%d has no name", ci)
		}
		for ii := range cat.Items {
			it := &cat.Items[ii]
			it.Category = cat.Name
			if _, dup := c.byName[it.Name]; dup {
				return nil, fmt.Errorf("menu item %q listed twice", it.Name)
			}
			c.byName[it.Name] = *it
		}
	}
	return c, nil
}

func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.Name)
	}
	return out
}

// Items lists a category in display order.
func (c *Catalog) Items(category string) ([]MenuItem, error) {
	for _, cat := range c.categories {
		if cat.Name == category {
			return cloneItems(cat.Items), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}

func (c *Catalog) Lookup(name string) (MenuItem, bool) {
	it, ok := c.byName[name]
	if !ok {
		return MenuItem{}, false
	}
	it.Tags = slices.Clone(it.Tags)
	return it, true
}

// Search matches item names case-insensitively. An empty query matches nothing.
func (c *Catalog) Search(query string) []MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return c.collect(func(it MenuItem) bool {
		return strings.Contains(strings.ToLower(it.Name), q)
	})
}

// Filter returns the items carrying every one of tags.
func (c *Catalog) Filter(tags ...string) []MenuItem {
	return c.collect(func(it MenuItem) bool {
		for _, t := range tags {
			if !it.HasTag(t) {
				return false
			}
		}
		return true
	})
}

// ByPreference lists the items tagged with pref. The view is derived from the
// item tags, not from a separately curated dietary list, so Oatmeal Cookies
// and Almond Milk Latte are not high-protein here because neither carries
// that tag.
func (c *Catalog) ByPreference(pref string) ([]MenuItem, error) {
	if !slices.Contains(DietaryPreferences, pref) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreference, pref)
	}
	return c.Filter(pref), nil
}

func (c *Catalog) collect(keep func(MenuItem) bool) []MenuItem {
	var out []MenuItem
	for _, cat := range c.categories {
		for _, it := range cat.Items {
			if keep(it) {
				it.Tags = slices.Clone(it.Tags)
				out = append(out, it)
			}
		}
	}
	return out
}

func cloneItems(in []MenuItem) []MenuItem {
	out := make([]MenuItem, len(in))
	for i, it := range in {
		it.Tags = slices.Clone(it.Tags)
		out[i] = it
	}
	return out
}
