package present

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Region is one named slot of the widget's markup. The configurator only
// talks to these handles, never to markup identifiers, so the engine stays
// decoupled from any specific markup shape.
type Region interface {
	SetText(text string)
	SetVisible(visible bool)
	SetStyle(property, value string)
}

// ContainerRegion is the outer popup element, which additionally carries the
// mutually exclusive layout-variant classes.
type ContainerRegion interface {
	Region
	AddClass(name string)
	RemoveClass(name string)
}

// Regions is the explicit, typed binding of every widget slot. All fields
// are required; Validate rejects partial bindings at setup time.
type Regions struct {
	Container      ContainerRegion
	Header         Region
	Logo           Region
	Image          Region
	Title          Region
	Subtitle       Region
	Button         Region
	Form           Region
	Success        Region
	SuccessTitle   Region
	SuccessMessage Region
}

// Validate checks that every slot is bound.
func (r Regions) Validate() error {
	named := []struct {
		name   string
		region Region
	}{
		{"header", r.Header},
		{"logo", r.Logo},
		{"image", r.Image},
		{"title", r.Title},
		{"subtitle", r.Subtitle},
		{"button", r.Button},
		{"form", r.Form},
		{"success", r.Success},
		{"success_title", r.SuccessTitle},
		{"success_message", r.SuccessMessage},
	}

	if r.Container == nil {
		return domain.ErrRegionsUnbound.WithError(fmt.Errorf("container region is nil"))
	}
	for _, n := range named {
		if n.region == nil {
			return domain.ErrRegionsUnbound.WithError(fmt.Errorf("%s region is nil", n.name))
		}
	}
	return nil
}

// MemoryRegion is an in-process Region used by tests and by the widget
// config endpoint to build a presentation snapshot.
type MemoryRegion struct {
	Text    string
	Visible bool
	Styles  map[string]string
}

func NewMemoryRegion() *MemoryRegion {
	return &MemoryRegion{Styles: make(map[string]string)}
}

func (m *MemoryRegion) SetText(text string)        { m.Text = text }
func (m *MemoryRegion) SetVisible(visible bool)    { m.Visible = visible }
func (m *MemoryRegion) SetStyle(prop, value string) { m.Styles[prop] = value }

// MemoryContainer adds class tracking on top of MemoryRegion.
type MemoryContainer struct {
	MemoryRegion
	Classes []string
}

func NewMemoryContainer() *MemoryContainer {
	return &MemoryContainer{MemoryRegion: MemoryRegion{Styles: make(map[string]string)}}
}

func (m *MemoryContainer) AddClass(name string) {
	for _, c := range m.Classes {
		if c == name {
			return
		}
	}
	m.Classes = append(m.Classes, name)
}

func (m *MemoryContainer) RemoveClass(name string) {
	out := m.Classes[:0]
	for _, c := range m.Classes {
		if c != name {
			out = append(out, c)
		}
	}
	m.Classes = out
}

func (m *MemoryContainer) HasClass(name string) bool {
	for _, c := range m.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// MemoryRegions bundles a full in-memory binding for inspection.
type MemoryRegions struct {
	Container      *MemoryContainer
	Header         *MemoryRegion
	Logo           *MemoryRegion
	Image          *MemoryRegion
	Title          *MemoryRegion
	Subtitle       *MemoryRegion
	Button         *MemoryRegion
	Form           *MemoryRegion
	Success        *MemoryRegion
	SuccessTitle   *MemoryRegion
	SuccessMessage *MemoryRegion
}

// NewMemoryRegions builds a complete in-memory binding.
func NewMemoryRegions() *MemoryRegions {
	return &MemoryRegions{
		Container:      NewMemoryContainer(),
		Header:         NewMemoryRegion(),
		Logo:           NewMemoryRegion(),
		Image:          NewMemoryRegion(),
		Title:          NewMemoryRegion(),
		Subtitle:       NewMemoryRegion(),
		Button:         NewMemoryRegion(),
		Form:           NewMemoryRegion(),
		Success:        NewMemoryRegion(),
		SuccessTitle:   NewMemoryRegion(),
		SuccessMessage: NewMemoryRegion(),
	}
}

// Bind exposes the memory regions as the typed binding consumed by the
// configurator.
func (m *MemoryRegions) Bind() Regions {
	return Regions{
		Container:      m.Container,
		Header:         m.Header,
		Logo:           m.Logo,
		Image:          m.Image,
		Title:          m.Title,
		Subtitle:       m.Subtitle,
		Button:         m.Button,
		Form:           m.Form,
		Success:        m.Success,
		SuccessTitle:   m.SuccessTitle,
		SuccessMessage: m.SuccessMessage,
	}
}
