package rendering

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/landing-site/internal/types"
)

// DefaultPreset is used when a landing names no theme or an unknown one.
const DefaultPreset types.Theme = "defaultDark"

// DefaultRadius is the corner radius in pixels when a custom theme sets none.
const DefaultRadius = 8

// Theme holds the CSS custom properties of a page. Colors are HSL triplets
// ("220 25% 97%") so stylesheets can apply their own alpha.
type Theme struct {
	Background         string
	Foreground         string
	Primary            string
	PrimaryForeground  string
	Muted              string
	MutedForeground    string
	Accent             string
	AccentForeground   string
	Border             string
	CardGradient       string
	TextGradient       string
	BackgroundGradient string
	Radius             float64
}

func preset(bg, fg, primary, muted, mutedFg, border, rgbA, rgbB, hexA, hexB, fade string, alpha, glow float64) Theme {
	return Theme{
		Background:         bg,
		Foreground:         fg,
		Primary:            primary,
		PrimaryForeground:  "0 0% 100%",
		Muted:              muted,
		MutedForeground:    mutedFg,
		Accent:             primary,
		AccentForeground:   "0 0% 100%",
		Border:             border,
		CardGradient:       fmt.Sprintf("linear-gradient(135deg, rgba(%s, %g) 0%%, rgba(%s, %g) 100%%)", rgbA, alpha, rgbB, alpha),
		TextGradient:       fmt.Sprintf("linear-gradient(to right, %s, %s)", hexA, hexB),
		BackgroundGradient: fmt.Sprintf("radial-gradient(circle at center, rgba(%s, %g) 0%%, rgba(%s, 0) 70%%)", rgbA, glow, fade),
		Radius:             DefaultRadius,
	}
}

const (
	light = "255, 255, 255"
	dark  = "0, 0, 0"
)

// Presets are the predefined themes selectable by name.
var Presets = map[types.Theme]Theme{
	"defaultLight":  preset("220 25% 97%", "220 45% 15%", "250 95% 60%", "220 25% 92%", "220 45% 40%", "220 25% 88%", "124, 58, 237", "139, 92, 246", "#7c3aed", "#8b5cf6", light, 0.08, 0.12),
	"defaultDark":   preset("224 71% 4%", "213 31% 91%", "250 95% 60%", "223 47% 11%", "215.4 16.3% 56.9%", "216 34% 17%", "124, 58, 237", "0, 0, 0", "#7c3aed", "#8b5cf6", dark, 0.1, 0.15),
	"cosmicLight":   preset("222 40% 95%", "222 40% 15%", "263 85% 60%", "222 40% 90%", "222 40% 40%", "222 40% 85%", "99, 102, 241", "168, 85, 247", "#6366f1", "#a855f7", light, 0.08, 0.12),
	"cosmicDark":    preset("222 47% 5%", "210 40% 98%", "263 85% 60%", "217 47% 11%", "215 20% 65%", "217 34% 17%", "99, 102, 241", "168, 85, 247", "#6366f1", "#a855f7", dark, 0.1, 0.15),
	"midnightLight": preset("232 40% 96%", "232 47% 15%", "224 64% 33%", "232 40% 91%", "232 47% 40%", "232 40% 86%", "30, 58, 138", "37, 99, 235", "#1e3a8a", "#2563eb", light, 0.08, 0.12),
	"midnightDark":  preset("232 47% 3%", "213 31% 91%", "224 64% 33%", "232 47% 8%", "215 20% 65%", "232 47% 12%", "30, 58, 138", "37, 99, 235", "#1e3a8a", "#2563eb", dark, 0.1, 0.15),
	"sunsetLight":   preset("20 30% 96%", "20 14% 15%", "20 90% 50%", "20 30% 91%", "20 14% 40%", "20 30% 86%", "249, 115, 22", "239, 68, 68", "#f97316", "#ef4444", light, 0.08, 0.12),
	"sunsetDark":    preset("20 14% 4%", "0 0% 98%", "20 90% 50%", "20 14% 9%", "20 14% 65%", "20 14% 14%", "249, 115, 22", "239, 68, 68", "#f97316", "#ef4444", dark, 0.1, 0.15),
	"forestLight":   preset("150 30% 96%", "150 14% 15%", "142 71% 45%", "150 30% 91%", "150 14% 40%", "150 30% 86%", "34, 197, 94", "16, 185, 129", "#22c55e", "#10b981", light, 0.08, 0.12),
	"forestDark":    preset("150 14% 4%", "0 0% 98%", "142 71% 45%", "150 14% 9%", "150 14% 65%", "150 14% 14%", "34, 197, 94", "16, 185, 129", "#22c55e", "#10b981", dark, 0.1, 0.15),
	"oceanLight":    preset("201 30% 96%", "201 100% 15%", "199 89% 48%", "201 30% 91%", "201 100% 40%", "201 30% 86%", "6, 182, 212", "59, 130, 246", "#06b6d4", "#3b82f6", light, 0.08, 0.12),
	"oceanDark":     preset("201 100% 3%", "0 0% 98%", "199 89% 48%", "201 100% 8%", "201 100% 65%", "201 100% 12%", "6, 182, 212", "59, 130, 246", "#06b6d4", "#3b82f6", dark, 0.1, 0.15),
	"auroraLight":   preset("280 30% 96%", "280 14% 15%", "280 90% 50%", "280 30% 91%", "280 14% 40%", "280 30% 86%", "192, 132, 252", "168, 85, 247", "#c084fc", "#a855f7", light, 0.08, 0.12),
	"aurora":        preset("280 14% 4%", "0 0% 98%", "280 90% 50%", "280 14% 9%", "280 14% 65%", "280 14% 14%", "192, 132, 252", "168, 85, 247", "#c084fc", "#a855f7", dark, 0.1, 0.15),
	"sepia":         preset("40 50% 98%", "40 40% 8%", "32 95% 44%", "40 50% 93%", "40 40% 40%", "40 50% 88%", "180, 83, 9", "146, 64, 14", "#b45309", "#92400e", light, 0.05, 0.08),
	"moonlight":     preset("230 25% 98%", "230 25% 8%", "230 75% 50%", "230 25% 93%", "230 25% 40%", "230 25% 88%", "59, 130, 246", "37, 99, 235", "#3b82f6", "#2563eb", light, 0.05, 0.08),
}

// ThemeFor picks the theme of a landing page: a custom theme wins over a named preset,
// and anything invalid falls back to DefaultPreset.
func ThemeFor(landing *types.LandingPage) Theme {
	if landing == nil {
		return Presets[DefaultPreset]
	}
	if landing.CustomTheme != nil {
		if t, err := CustomTheme(landing.CustomTheme); err == nil {
			return t
		}
	}
	if t, ok := Presets[landing.Theme]; ok {
		return t
	}
	return Presets[DefaultPreset]
}

// CustomTheme derives a theme from explicit hex colors. The accent defaults to the
// primary color. Style "glass" uses a translucent card, "gradient" a colored one and
// "minimal" disables gradients.
func CustomTheme(ct *types.CustomTheme) (Theme, error) {
	accentHex := ct.AccentColor
	if accentHex == "" {
		accentHex = ct.PrimaryColor
	}
	colors := make(map[string]string, 4)
	for name, hex := range map[string]string{
		"background": ct.BackgroundColor,
		"text":       ct.TextColor,
		"primary":    ct.PrimaryColor,
		"accent":     accentHex,
	} {
		hsl, err := HexToHSL(hex)
		if err != nil {
			return Theme{}, fmt.Errorf("custom theme %q: %s color: %w", ct.Name, name, err)
		}
		colors[name] = hsl
	}

	t := Theme{
		Background:        colors["background"],
		Foreground:        colors["text"],
		Primary:           colors["primary"],
		PrimaryForeground: "0 0% 100%",
		Muted:             colors["background"],
		MutedForeground:   colors["text"],
		Accent:            colors["accent"],
		AccentForeground:  "0 0% 100%",
		Border:            colors["background"],
		Radius:            ct.BorderRadius,
	}
	if t.Radius <= 0 {
		t.Radius = DefaultRadius
	}

	primary, accent := normalizeHex(ct.PrimaryColor), normalizeHex(accentHex)
	switch ct.Style {
	case "glass":
		t.CardGradient = "linear-gradient(135deg, rgba(255, 255, 255, 0.1), rgba(255, 255, 255, 0.05))"
	case "gradient":
		t.CardGradient = fmt.Sprintf("linear-gradient(135deg, %s33, %s1A), linear-gradient(to bottom, rgba(255, 255, 255, 0.05), rgba(0, 0, 0, 0.05))", primary, accent)
	default:
		t.CardGradient = "none"
	}
	if ct.Style == "minimal" {
		t.TextGradient = "none"
		t.BackgroundGradient = "none"
	} else {
		t.TextGradient = fmt.Sprintf("linear-gradient(to right, %s, %s)", primary, accent)
		t.BackgroundGradient = fmt.Sprintf("radial-gradient(circle at center, %s26, transparent 70%%)", primary)
	}
	return t, nil
}

func normalizeHex(hex string) string {
	return "#" + strings.TrimPrefix(strings.TrimSpace(hex), "#")
}

// HexToHSL converts #rrggbb (or #rgb) to an "h s% l%" triplet.
func HexToHSL(hex string) (string, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid hex color %q", hex)
	}
	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}
		switch maxC {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}
	return fmt.Sprintf("%d %d%% %d%%", int(math.Round(h*360)), int(math.Round(s*100)), int(math.Round(l*100))), nil
}

// CSS renders the theme as :root custom properties.
func (t Theme) CSS() template.CSS {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, kv := range [][2]string{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"primary", t.Primary},
		{"primary-foreground", t.PrimaryForeground},
		{"muted", t.Muted},
		{"muted-foreground", t.MutedForeground},
		{"accent", t.Accent},
		{"accent-foreground", t.AccentForeground},
		{"border", t.Border},
		{"card-gradient", t.CardGradient},
		{"text-gradient", t.TextGradient},
		{"background-gradient", t.BackgroundGradient},
	} {
		fmt.Fprintf(&sb, "  --%s: %s;\n", kv[0], kv[1])
	}
	fmt.Fprintf(&sb, "  --radius: %gpx;\n}\n", t.Radius)
	return template.CSS(sb.String())
}
