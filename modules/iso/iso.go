// Package iso supplies ISO-3166 country options for select fields.
//
// A field declared with values-from: iso.countries lists every country by
// its alpha-2 code, labelled and sorted in the language set by
// modules.iso.language (default "en").
package iso

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/spf13/cast"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
)

const (
	ModuleName = "iso"

	SourceCountries = "countries"
)

// Country is an ISO-3166 country.
type Country struct {
	Alpha2 string
	Alpha3 string
	Name   string
}

type Module struct {
	lang      language.Tag
	countries []Country
	byCode    map[string]Country
	once      sync.Once
}

// New creates the module with English names. Start switches to
// modules.iso.language when set.
func New() *Module {
	return &Module{lang: language.English}
}

func (m *Module) Name() string        { return ModuleName }
func (m *Module) DisplayName() string { return "ISO Codes" }

func (m *Module) Start(_ context.Context, e *engine.Engine) error {
	raw := cast.ToString(e.ModuleSetting(ModuleName, "language"))
	if raw == "" {
		return nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return fmt.Errorf("iso: language %q: %w", raw, err)
	}
	m.lang = tag
	return nil
}

func (m *Module) Options(source string) ([]form.Option, error) {
	if source != SourceCountries {
		return nil, fmt.Errorf("%w: %s.%s", engine.ErrUnknownOptionSource, ModuleName, source)
	}
	countries := m.Countries()
	opts := make([]form.Option, len(countries))
	for i, c := range countries {
		opts[i] = form.Option{Value: c.Alpha2, Label: c.Name}
	}
	return opts, nil
}

// Countries returns every country sorted by display name.
func (m *Module) Countries() []Country {
	m.once.Do(m.load)
	return slices.Clone(m.countries)
}

// Country looks up an alpha-2 code.
func (m *Module) Country(code string) (Country, bool) {
	m.once.Do(m.load)
	c, ok := m.byCode[code]
	return c, ok
}

func (m *Module) load() {
	namer := display.Regions(m.lang)
	m.byCode = make(map[string]Country)
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			r, err := language.ParseRegion(code)
			// Withdrawn codes such as YU or SU canonicalize to a successor.
			if err != nil || !r.IsCountry() || r.String() != code || r.ISO3() == "" || r.Canonicalize() != r {
				continue
			}
			name := namer.Name(r)
			if name == "" {
				name = display.English.Regions().Name(r)
			}
			if name == "" {
				continue
			}
			c := Country{Alpha2: code, Alpha3: r.ISO3(), Name: name}
			m.countries = append(m.countries, c)
			m.byCode[code] = c
		}
	}
	col := collate.New(m.lang)
	slices.SortFunc(m.countries, func(x, y Country) int {
		return col.CompareString(x.Name, y.Name)
	})
}

var (
	_ engine.OptionProvider = (*Module)(nil)
	_ engine.Starter        = (*Module)(nil)
)
