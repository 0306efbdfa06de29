// Package catalog holds the static scale definitions presented during an
// assessment. The built-in catalog is compiled into the binary; an override
// file in the same YAML format may replace it at startup.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/harrison/adhdscreen/internal/models"
)

//go:embed scales.yaml
var builtinYAML []byte

// Catalog is an ordered, read-only set of scales.
type Catalog struct {
	scales       []*models.Scale
	byID         map[string]*models.Scale
	impairmentID string
	references   []models.Reference
}

// file mirrors the on-disk YAML layout.
type file struct {
	Impairment string             `yaml:"impairment"`
	Scales     []models.Scale     `yaml:"scales"`
	References []models.Reference `yaml:"references"`
}

var (
	validate = validator.New()

	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog. The embedded data is verified by
// tests, so a parse failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in scales are invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c := &Catalog{
		byID:         make(map[string]*models.Scale, len(f.Scales)),
		impairmentID: f.Impairment,
		references:   f.References,
	}
	for i := range f.Scales {
		s := f.Scales[i]
		normalizeOptions(&s)
		if err := validateScale(&s); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scale id %q", s.ID)
		}
		sp := &s
		c.scales = append(c.scales, sp)
		c.byID[s.ID] = sp
	}
	if len(c.scales) == 0 {
		return nil, errors.New("catalog defines no scales")
	}
	if c.impairmentID != "" {
		if _, ok := c.byID[c.impairmentID]; !ok {
			return nil, fmt.Errorf("impairment scale %q is not defined", c.impairmentID)
		}
	}
	return c, nil
}

// normalizeOptions promotes the legacy -1 option value to the tagged
// not-applicable variant.
func normalizeOptions(s *models.Scale) {
	for i := range s.Options {
		if s.Options[i].Value == models.NotApplicableValue {
			s.Options[i].NotApplicable = true
		}
		if s.Options[i].NotApplicable {
			s.Options[i].Value = 0
		}
	}
}

func validateScale(s *models.Scale) error {
	if s.ID == "" {
		return errors.New("scale id is required")
	}
	if err := validate.Var(string(s.ScoringType), "oneof=sum mean"); err != nil {
		return fmt.Errorf("scale %s: unknown scoring type %q", s.ID, s.ScoringType)
	}
	if len(s.Questions) == 0 {
		return fmt.Errorf("scale %s: no questions", s.ID)
	}

	applicable := 0
	values := make(map[float64]bool, len(s.Options))
	naCount := 0
	for _, o := range s.Options {
		if o.NotApplicable {
			naCount++
			continue
		}
		if o.Value < 0 {
			return fmt.Errorf("scale %s: option %q has negative value %g", s.ID, o.Label, o.Value)
		}
		if values[o.Value] {
			return fmt.Errorf("scale %s: duplicate option value %g", s.ID, o.Value)
		}
		values[o.Value] = true
		applicable++
	}
	if applicable == 0 {
		return fmt.Errorf("scale %s: at least one scored option is required", s.ID)
	}
	if naCount > 1 {
		return fmt.Errorf("scale %s: more than one not-applicable option", s.ID)
	}

	ids := make(map[int]bool, len(s.Questions))
	studentDomainSeen := false
	for _, q := range s.Questions {
		if ids[q.ID] {
			return fmt.Errorf("scale %s: duplicate question id %d", s.ID, q.ID)
		}
		ids[q.ID] = true
		if s.StudentOnlyDomain != "" && q.Domain == s.StudentOnlyDomain {
			studentDomainSeen = true
		}
	}
	if s.StudentOnlyDomain != "" && !studentDomainSeen {
		return fmt.Errorf("scale %s: student-only domain %q has no questions", s.ID, s.StudentOnlyDomain)
	}
	return nil
}

// Get looks up a scale by ID.
func (c *Catalog) Get(id string) (*models.Scale, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Scales returns the scales in presentation order.
func (c *Catalog) Scales() []*models.Scale {
	out := make([]*models.Scale, len(c.scales))
	copy(out, c.scales)
	return out
}

// Len is the number of scales.
func (c *Catalog) Len() int {
	return len(c.scales)
}

// At returns the scale at a presentation index.
func (c *Catalog) At(i int) (*models.Scale, bool) {
	if i < 0 || i >= len(c.scales) {
		return nil, false
	}
	return c.scales[i], true
}

// Impairment returns the functional-impairment scale, or nil when the
// catalog does not designate one.
func (c *Catalog) Impairment() *models.Scale {
	if c.impairmentID == "" {
		return nil
	}
	return c.byID[c.impairmentID]
}

// References returns the citations for the catalog's instruments.
func (c *Catalog) References() []models.Reference {
	out := make([]models.Reference, len(c.references))
	copy(out, c.references)
	return out
}
