package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/types"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#ffffff", "0 0% 100%"},
		{"#000000", "0 0% 0%"},
		{"#ff0000", "0 100% 50%"},
		{"#00ff00", "120 100% 50%"},
		{"#0000ff", "240 100% 50%"},
		{"#7c3aed", "262 83% 58%"},
		{"fff", "0 0% 100%"},
		{" #FF0000 ", "0 100% 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := HexToHSL(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "#12345", "#gggggg", "red"} {
		_, err := HexToHSL(bad)
		assert.Error(t, err, bad)
	}
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, Presets[DefaultPreset], ThemeFor(nil))
	assert.Equal(t, Presets["oceanDark"], ThemeFor(&types.LandingPage{Theme: "oceanDark"}))
	assert.Equal(t, Presets[DefaultPreset], ThemeFor(&types.LandingPage{Theme: "neon"}))

	custom := ThemeFor(&types.LandingPage{
		Theme: "oceanDark",
		CustomTheme: &types.CustomTheme{
			PrimaryColor:    "#ff0000",
			BackgroundColor: "#ffffff",
			TextColor:       "#000000",
			Style:           "minimal",
			BorderRadius:    12,
		},
	})
	assert.Equal(t, "0 100% 50%", custom.Primary)
	assert.Equal(t, "0 100% 50%", custom.Accent, "accent defaults to primary")
	assert.Equal(t, "0 0% 100%", custom.Background)
	assert.Equal(t, "none", custom.TextGradient)
	assert.Equal(t, "none", custom.CardGradient)
	assert.Equal(t, 12.0, custom.Radius)

	invalid := ThemeFor(&types.LandingPage{
		Theme:       "forestDark",
		CustomTheme: &types.CustomTheme{PrimaryColor: "nope"},
	})
	assert.Equal(t, Presets["forestDark"], invalid)
}

func TestCustomTheme_Styles(t *testing.T) {
	base := types.CustomTheme{PrimaryColor: "#112233", AccentColor: "445566", BackgroundColor: "#000", TextColor: "#fff"}

	glass := base
	glass.Style = "glass"
	theme, err := CustomTheme(&glass)
	require.NoError(t, err)
	assert.Contains(t, theme.CardGradient, "rgba(255, 255, 255, 0.1)")
	assert.Equal(t, "linear-gradient(to right, #112233, #445566)", theme.TextGradient)
	assert.Equal(t, float64(DefaultRadius), theme.Radius)

	gradient := base
	gradient.Style = "gradient"
	theme, err = CustomTheme(&gradient)
	require.NoError(t, err)
	assert.Contains(t, theme.CardGradient, "#11223333")
	assert.Contains(t, theme.BackgroundGradient, "#11223326")
}

func TestTheme_CSS(t *testing.T) {
	css := string(Presets["oceanDark"].CSS())
	assert.Contains(t, css, ":root {")
	assert.Contains(t, css, "--primary: 199 89% 48%;")
	assert.Contains(t, css, "--text-gradient: linear-gradient(to right, #06b6d4, #3b82f6);")
	assert.Contains(t, css, "--radius: 8px;")
}

func TestPresets_Complete(t *testing.T) {
	assert.Len(t, Presets, 16)
	for name, theme := range Presets {
		assert.NotEmpty(t, theme.Background, name)
		assert.NotEmpty(t, theme.Primary, name)
		assert.Equal(t, float64(DefaultRadius), theme.Radius, name)
	}
}
