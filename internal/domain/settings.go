package domain

// Layout variants
const (
	LayoutImageLeft   = "image-left"
	LayoutImageRight  = "image-right"
	LayoutImageTop    = "image-top"
	LayoutImageBottom = "image-bottom"
	LayoutContentOnly = "content-only"
)

var validLayouts = map[string]bool{
	LayoutImageLeft:   true,
	LayoutImageRight:  true,
	LayoutImageTop:    true,
	LayoutImageBottom: true,
	LayoutContentOnly: true,
}

// IsValidLayout reports whether name is a recognized layout variant.
func IsValidLayout(name string) bool {
	return validLayouts[name]
}

// Default values applied by Settings.Normalized. Text defaults mirror the
// storefront copy shipped with the theme.
const (
	DefaultShowDelayMS      = 1000
	DefaultMaxWidth         = 800
	DefaultMinHeight        = 320
	DefaultPadding          = 24
	DefaultGap              = 24
	DefaultMobileBgOpacity  = 30
	DefaultCookieExpiryDays = 0 // session only

	DefaultTitle          = "Join our newsletter"
	DefaultSubtitle       = "Subscribe and get 10% off your first order"
	DefaultButtonText     = "Subscribe"
	DefaultSuccessTitle   = "You're in!"
	DefaultSuccessMessage = "Thanks for subscribing. Check your inbox to confirm your email."
)

// Settings is the externally supplied configuration snapshot for the popup.
// It is read-only for the engine: Normalized returns a filled copy and never
// mutates the receiver. Optional style numerics are pointers so that an
// absent value can be told apart from an explicit zero and left untouched.
type Settings struct {
	Enabled          bool   `json:"enabled"`
	ShowDelay        int    `json:"showDelay,omitempty"`
	ShowOnExit       bool   `json:"showOnExit"`
	CookieExpiryDays int    `json:"cookieExpiryDays,omitempty"`
	Layout           string `json:"layout,omitempty"`

	// Geometry used by the width algorithm
	MaxWidth  int `json:"maxWidth,omitempty"`
	MinHeight int `json:"minHeight,omitempty"`
	Padding   int `json:"padding,omitempty"`
	Gap       int `json:"gap,omitempty"`

	// Content toggles
	ShowLogo        bool   `json:"showLogo"`
	LogoURL         string `json:"logoUrl,omitempty"`
	LogoSize        *int   `json:"logoSize,omitempty"`
	ShowImage       bool   `json:"showImage"`
	ImageURL        string `json:"imageUrl,omitempty"`
	ImageWidth      int    `json:"imageWidth,omitempty"`
	MobileBgOpacity *int   `json:"mobileBgOpacity,omitempty"`

	// Text
	Title          string `json:"title,omitempty"`
	Subtitle       string `json:"subtitle,omitempty"`
	ButtonText     string `json:"buttonText,omitempty"`
	SuccessTitle   string `json:"successTitle,omitempty"`
	SuccessMessage string `json:"successMessage,omitempty"`

	// Styling (optional, left untouched when absent)
	BorderRadius    *int     `json:"borderRadius,omitempty"`
	OverlayOpacity  *float64 `json:"overlayOpacity,omitempty"`
	TitleSize       *int     `json:"titleSize,omitempty"`
	TitleColor      string   `json:"titleColor,omitempty"`
	TitleWeight     *int     `json:"titleWeight,omitempty"`
	SubtitleSize    *int     `json:"subtitleSize,omitempty"`
	SubtitleColor   string   `json:"subtitleColor,omitempty"`
	ButtonBgColor   string   `json:"buttonBgColor,omitempty"`
	ButtonTextColor string   `json:"buttonTextColor,omitempty"`
	ButtonRadius    *int     `json:"buttonRadius,omitempty"`
	ButtonSize      *int     `json:"buttonSize,omitempty"`
	SuccessColor    string   `json:"successColor,omitempty"`
}

// Normalized returns a copy of s with documented defaults filled in for
// absent behavioral and geometry fields. Optional style numerics are kept
// as-is so the configurator can skip them.
func (s Settings) Normalized() Settings {
	out := s

	if out.ShowDelay <= 0 {
		out.ShowDelay = DefaultShowDelayMS
	}
	if out.CookieExpiryDays < 0 {
		out.CookieExpiryDays = DefaultCookieExpiryDays
	}
	if !IsValidLayout(out.Layout) {
		out.Layout = LayoutContentOnly
	}
	if out.MaxWidth <= 0 {
		out.MaxWidth = DefaultMaxWidth
	}
	if out.MinHeight <= 0 {
		out.MinHeight = DefaultMinHeight
	}
	if out.Padding <= 0 {
		out.Padding = DefaultPadding
	}
	if out.Gap <= 0 {
		out.Gap = DefaultGap
	}
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if out.Subtitle == "" {
		out.Subtitle = DefaultSubtitle
	}
	if out.ButtonText == "" {
		out.ButtonText = DefaultButtonText
	}
	if out.SuccessTitle == "" {
		out.SuccessTitle = DefaultSuccessTitle
	}
	if out.SuccessMessage == "" {
		out.SuccessMessage = DefaultSuccessMessage
	}

	return out
}

// MobileOverlayOpacity derives the backdrop opacity used on narrow viewports
// when a background image is configured: (100 - mobileBgOpacity) / 100.
func (s Settings) MobileOverlayOpacity() float64 {
	opacity := DefaultMobileBgOpacity
	if s.MobileBgOpacity != nil {
		opacity = *s.MobileBgOpacity
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	return float64(100-opacity) / 100
}

// HasSideImage reports whether the layout places a banner image beside the
// content, which is what triggers the width recomputation.
func (s Settings) HasSideImage() bool {
	if !s.ShowImage || s.ImageURL == "" {
		return false
	}
	return s.Layout == LayoutImageLeft || s.Layout == LayoutImageRight
}
