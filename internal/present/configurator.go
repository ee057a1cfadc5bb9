package present

import (
	"fmt"
	"strconv"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Viewport carries the runtime viewport width the configurator needs to pick
// the desktop or the fixed responsive layout.
type Viewport struct {
	Width int
}

var layoutClasses = []string{
	"popup--" + domain.LayoutImageLeft,
	"popup--" + domain.LayoutImageRight,
	"popup--" + domain.LayoutImageTop,
	"popup--" + domain.LayoutImageBottom,
	"popup--" + domain.LayoutContentOnly,
}

// Configurator paints the widget regions from a settings snapshot.
type Configurator struct {
	regions Regions
}

// NewConfigurator builds a configurator over a validated region binding.
func NewConfigurator(regions Regions) (*Configurator, error) {
	if err := regions.Validate(); err != nil {
		return nil, err
	}
	return &Configurator{regions: regions}, nil
}

// Apply paints every region from the settings. It is idempotent and total:
// repeated calls with the same settings produce the same visual result, and
// a new settings object fully supersedes the previous one. Previously shown
// optional regions are cleared before the new state is applied.
func (c *Configurator) Apply(settings domain.Settings, viewport Viewport) {
	s := settings.Normalized()

	c.reset()
	c.applyLayout(s, viewport)
	c.applyContent(s)
	c.applyStyles(s)
}

// ShowSuccess swaps the widget into its success presentation: form, header
// and logo hidden, success panel revealed.
func (c *Configurator) ShowSuccess() {
	c.regions.Form.SetVisible(false)
	c.regions.Header.SetVisible(false)
	c.regions.Logo.SetVisible(false)
	c.regions.Success.SetVisible(true)
}

// reset clears optional regions and variant classes so stale state from an
// earlier Apply never survives.
func (c *Configurator) reset() {
	c.regions.Logo.SetVisible(false)
	c.regions.Image.SetVisible(false)
	for _, class := range layoutClasses {
		c.regions.Container.RemoveClass(class)
	}

	// Viewport-dependent styles are recomputed per Apply.
	c.regions.Container.SetStyle("max-width", "")
	c.regions.Container.SetStyle("background-image", "")
	c.regions.Container.SetStyle("overlay-opacity", "")
}

func (c *Configurator) applyLayout(s domain.Settings, viewport Viewport) {
	c.regions.Container.AddClass("popup--" + s.Layout)

	if IsDesktop(viewport.Width) {
		c.regions.Container.SetStyle("max-width", px(ComputeWidth(s)))
	} else if s.ShowImage && s.ImageURL != "" {
		// Narrow viewports get the image as a backdrop instead.
		c.regions.Container.SetStyle("background-image", fmt.Sprintf("url(%s)", s.ImageURL))
		c.regions.Container.SetStyle("overlay-opacity", formatOpacity(s.MobileOverlayOpacity()))
	}

	c.regions.Container.SetStyle("padding", px(s.Padding))
	c.regions.Container.SetStyle("gap", px(s.Gap))
}

func (c *Configurator) applyContent(s domain.Settings) {
	c.regions.Title.SetText(s.Title)
	c.regions.Subtitle.SetText(s.Subtitle)
	c.regions.Button.SetText(s.ButtonText)
	c.regions.SuccessTitle.SetText(s.SuccessTitle)
	c.regions.SuccessMessage.SetText(s.SuccessMessage)

	// Optional regions show only when both the flag and the URL are set.
	if s.ShowLogo && s.LogoURL != "" {
		c.regions.Logo.SetStyle("src", s.LogoURL)
		c.regions.Logo.SetVisible(true)
	}
	if s.ShowImage && s.ImageURL != "" {
		c.regions.Image.SetStyle("src", s.ImageURL)
		if s.HasSideImage() {
			c.regions.Image.SetStyle("width", px(s.ImageWidth))
		}
		c.regions.Image.SetVisible(true)
	}

	// Success panel starts hidden; the pipeline reveals it.
	c.regions.Success.SetVisible(false)
	c.regions.Form.SetVisible(true)
	c.regions.Header.SetVisible(true)
}

// applyStyles writes color and numeric styles. Absent optional numerics are
// left untouched rather than reset to a hardcoded value.
func (c *Configurator) applyStyles(s domain.Settings) {
	if s.BorderRadius != nil {
		c.regions.Container.SetStyle("border-radius", px(*s.BorderRadius))
	}
	if s.OverlayOpacity != nil {
		c.regions.Container.SetStyle("backdrop-opacity", formatOpacity(*s.OverlayOpacity))
	}
	if s.LogoSize != nil {
		c.regions.Logo.SetStyle("height", px(*s.LogoSize))
	}

	if s.TitleColor != "" {
		c.regions.Title.SetStyle("color", s.TitleColor)
	}
	if s.TitleSize != nil {
		c.regions.Title.SetStyle("font-size", px(*s.TitleSize))
	}
	if s.TitleWeight != nil {
		c.regions.Title.SetStyle("font-weight", strconv.Itoa(*s.TitleWeight))
	}

	if s.SubtitleColor != "" {
		c.regions.Subtitle.SetStyle("color", s.SubtitleColor)
	}
	if s.SubtitleSize != nil {
		c.regions.Subtitle.SetStyle("font-size", px(*s.SubtitleSize))
	}

	if s.ButtonBgColor != "" {
		c.regions.Button.SetStyle("background-color", s.ButtonBgColor)
	}
	if s.ButtonTextColor != "" {
		c.regions.Button.SetStyle("color", s.ButtonTextColor)
	}
	if s.ButtonRadius != nil {
		c.regions.Button.SetStyle("border-radius", px(*s.ButtonRadius))
	}
	if s.ButtonSize != nil {
		c.regions.Button.SetStyle("font-size", px(*s.ButtonSize))
	}

	if s.SuccessColor != "" {
		c.regions.Success.SetStyle("color", s.SuccessColor)
	}
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

func formatOpacity(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
