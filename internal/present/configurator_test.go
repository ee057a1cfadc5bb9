package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

func newTestConfigurator(t *testing.T) (*Configurator, *MemoryRegions) {
	t.Helper()
	mem := NewMemoryRegions()
	cfg, err := NewConfigurator(mem.Bind())
	require.NoError(t, err)
	return cfg, mem
}

func TestNewConfigurator_RejectsPartialBinding(t *testing.T) {
	mem := NewMemoryRegions()
	binding := mem.Bind()
	binding.Logo = nil

	_, err := NewConfigurator(binding)
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "REGIONS_UNBOUND", appErr.Code)
}

func TestConfigurator_Apply_TextDefaults(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{}, Viewport{Width: 1024})

	assert.Equal(t, domain.DefaultTitle, mem.Title.Text)
	assert.Equal(t, domain.DefaultSubtitle, mem.Subtitle.Text)
	assert.Equal(t, domain.DefaultButtonText, mem.Button.Text)
	assert.Equal(t, domain.DefaultSuccessTitle, mem.SuccessTitle.Text)
	assert.Equal(t, domain.DefaultSuccessMessage, mem.SuccessMessage.Text)
	assert.True(t, mem.Form.Visible)
	assert.False(t, mem.Success.Visible)
}

func TestConfigurator_Apply_VariantClassesMutuallyExclusive(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{Layout: domain.LayoutImageLeft}, Viewport{Width: 1024})
	assert.True(t, mem.Container.HasClass("popup--image-left"))

	cfg.Apply(domain.Settings{Layout: domain.LayoutImageTop}, Viewport{Width: 1024})
	assert.True(t, mem.Container.HasClass("popup--image-top"))
	assert.False(t, mem.Container.HasClass("popup--image-left"))

	// Only ever one variant class.
	variants := 0
	for _, class := range mem.Container.Classes {
		for _, known := range layoutClasses {
			if class == known {
				variants++
			}
		}
	}
	assert.Equal(t, 1, variants)
}

func TestConfigurator_Apply_SupersedesOptionalRegions(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{
		ShowLogo:  true,
		LogoURL:   "https://cdn/logo.png",
		ShowImage: true,
		ImageURL:  "https://cdn/banner.jpg",
		Layout:    domain.LayoutImageLeft,
	}, Viewport{Width: 1024})

	require.True(t, mem.Logo.Visible)
	require.True(t, mem.Image.Visible)

	// Second apply that disables both must leave no residual visibility.
	cfg.Apply(domain.Settings{}, Viewport{Width: 1024})

	assert.False(t, mem.Logo.Visible)
	assert.False(t, mem.Image.Visible)
}

func TestConfigurator_Apply_Idempotent(t *testing.T) {
	cfg, mem := newTestConfigurator(t)
	settings := domain.Settings{
		Layout:     domain.LayoutImageRight,
		ShowImage:  true,
		ImageURL:   "https://cdn/banner.jpg",
		ImageWidth: 300,
		Title:      "Hola",
	}

	cfg.Apply(settings, Viewport{Width: 1024})
	first := *mem.Container
	firstClasses := append([]string(nil), mem.Container.Classes...)

	cfg.Apply(settings, Viewport{Width: 1024})

	assert.Equal(t, first.Styles, mem.Container.Styles)
	assert.Equal(t, firstClasses, mem.Container.Classes)
	assert.Equal(t, "Hola", mem.Title.Text)
}

func TestConfigurator_Apply_LogoNeedsFlagAndURL(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{ShowLogo: true}, Viewport{Width: 1024})
	assert.False(t, mem.Logo.Visible, "flag without url stays hidden")

	cfg.Apply(domain.Settings{LogoURL: "https://cdn/logo.png"}, Viewport{Width: 1024})
	assert.False(t, mem.Logo.Visible, "url without flag stays hidden")

	cfg.Apply(domain.Settings{ShowLogo: true, LogoURL: "https://cdn/logo.png"}, Viewport{Width: 1024})
	assert.True(t, mem.Logo.Visible)
	assert.Equal(t, "https://cdn/logo.png", mem.Logo.Styles["src"])
}

func TestConfigurator_Apply_DesktopWidth(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{}, Viewport{Width: 1024})
	assert.Equal(t, "800px", mem.Container.Styles["max-width"])
}

func TestConfigurator_Apply_MobileBackdrop(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	cfg.Apply(domain.Settings{
		ShowImage: true,
		ImageURL:  "https://cdn/banner.jpg",
	}, Viewport{Width: 390})

	assert.Empty(t, mem.Container.Styles["max-width"], "width algorithm skipped below breakpoint")
	assert.Equal(t, "url(https://cdn/banner.jpg)", mem.Container.Styles["background-image"])
	assert.Equal(t, "0.7", mem.Container.Styles["overlay-opacity"])
}

func TestConfigurator_Apply_OptionalNumericsLeftUntouched(t *testing.T) {
	cfg, mem := newTestConfigurator(t)

	radius := 16
	cfg.Apply(domain.Settings{BorderRadius: &radius}, Viewport{Width: 1024})
	require.Equal(t, "16px", mem.Container.Styles["border-radius"])

	// A later apply without the value must not reset it to a hardcoded one.
	cfg.Apply(domain.Settings{}, Viewport{Width: 1024})
	assert.Equal(t, "16px", mem.Container.Styles["border-radius"])
}

func TestConfigurator_ShowSuccess(t *testing.T) {
	cfg, mem := newTestConfigurator(t)
	cfg.Apply(domain.Settings{ShowLogo: true, LogoURL: "https://cdn/logo.png"}, Viewport{Width: 1024})

	cfg.ShowSuccess()

	assert.False(t, mem.Form.Visible)
	assert.False(t, mem.Header.Visible)
	assert.False(t, mem.Logo.Visible)
	assert.True(t, mem.Success.Visible)
}
