package iso_test

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/modules/iso"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
)

func TestCountries(t *testing.T) {
	t.Parallel()

	m := iso.New()
	countries := m.Countries()
	assert.GreaterOrEqual(t, len(countries), 245)
	assert.LessOrEqual(t, len(countries), 252)
	for _, c := range countries {
		assert.NotEmpty(t, c.Name, c.Alpha2)
	}

	au, ok := m.Country("AU")
	require.True(t, ok)
	assert.Equal(t, iso.Country{Alpha2: "AU", Alpha3: "AUS", Name: "Australia"}, au)

	for _, code := range []string{"ZZ", "AA", "XA", "au", "YU", "SU", "CS", "AN", "NT", "FQ", "PC", "CQ"} {
		_, ok := m.Country(code)
		assert.False(t, ok, code)
	}

	for i := 1; i < len(countries); i++ {
		assert.NotEqual(t, countries[i-1].Alpha2, countries[i].Alpha2)
	}
	assert.Equal(t, "Afghanistan", countries[0].Name)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)
	require.NoError(t, eng.Register(iso.New()))

	opts, err := eng.Options("iso.countries")
	require.NoError(t, err)
	assert.Contains(t, opts, form.Option{Value: "NZ", Label: "New Zealand"})

	_, err = eng.Options("iso.currencies")
	require.ErrorIs(t, err, engine.ErrUnknownOptionSource)
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	cfg := viper.New()
	engine.SetDefaults(cfg)
	cfg.Set("modules.iso.language", "de")
	eng := engine.New(cfg)
	m := iso.New()
	require.NoError(t, eng.Register(m))
	require.NoError(t, eng.Start(context.Background()))

	de, ok := m.Country("DE")
	require.True(t, ok)
	assert.Equal(t, "Deutschland", de.Name)

	cfg.Set("modules.iso.language", "not a tag!")
	require.Error(t, iso.New().Start(context.Background(), eng))
}
