package model

// Theme is the visitor's persisted color scheme preference.
type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
)

// ParseTheme maps anything but "dark" or "light" to ThemeSystem.
func ParseTheme(value string) Theme {
	switch Theme(value) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeSystem
	}
}

func (t Theme) IsDark() bool {
	return t == ThemeDark
}

func (t Theme) IsSystem() bool {
	return t == ThemeSystem
}

// Toggle returns the opposite explicit theme. For ThemeSystem the caller
// passes whether the OS currently reports a dark scheme.
func (t Theme) Toggle(systemDark bool) Theme {
	switch t {
	case ThemeDark:
		return ThemeLight
	case ThemeLight:
		return ThemeDark
	default:
		if systemDark {
			return ThemeLight
		}
		return ThemeDark
	}
}
