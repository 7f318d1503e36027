package settings

// Theme is the display theme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Settings holds user preferences. The deck builder reads IncludeWildcards,
// FaceCardValue and AceValue; the rest is for the display surface.
type Settings struct {
	IncludeWildcards bool  `json:"include_wildcards"`
	FaceCardValue    int   `json:"face_card_value"`
	AceValue         int   `json:"ace_value"`
	SoundEffects     bool  `json:"sound_effects"`
	Haptics          bool  `json:"haptics"`
	Theme            Theme `json:"theme"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	IncludeWildcards *bool   `json:"include_wildcards,omitempty"`
	FaceCardValue    *int    `json:"face_card_value,omitempty"`
	AceValue         *int    `json:"ace_value,omitempty"`
	SoundEffects     *bool   `json:"sound_effects,omitempty"`
	Haptics          *bool   `json:"haptics,omitempty"`
	Theme            *string `json:"theme,omitempty"`
}

// Defaults returns the factory configuration.
func Defaults() Settings {
	return Settings{
		IncludeWildcards: true,
		FaceCardValue:    10,
		AceValue:         11,
		SoundEffects:     true,
		Haptics:          true,
		Theme:            ThemeDark,
	}
}

// Reset returns the factory configuration.
func Reset() Settings {
	return Defaults()
}

// Update merges p over s and normalizes the result.
func Update(s Settings, p Patch) Settings {
	if p.IncludeWildcards != nil {
		s.IncludeWildcards = *p.IncludeWildcards
	}
	if p.FaceCardValue != nil {
		s.FaceCardValue = *p.FaceCardValue
	}
	if p.AceValue != nil {
		s.AceValue = *p.AceValue
	}
	if p.SoundEffects != nil {
		s.SoundEffects = *p.SoundEffects
	}
	if p.Haptics != nil {
		s.Haptics = *p.Haptics
	}
	if p.Theme != nil {
		s.Theme = Theme(*p.Theme)
	}
	return Normalize(s)
}

// Normalize clamps rep values to at least 1 and replaces an unknown theme
// with the default one.
func Normalize(s Settings) Settings {
	s.FaceCardValue = max(1, s.FaceCardValue)
	s.AceValue = max(1, s.AceValue)
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		s.Theme = Defaults().Theme
	}
	return s
}
