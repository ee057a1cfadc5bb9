package present

import (
	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

const (
	// DesktopBreakpoint is the viewport width below which the width
	// algorithm is skipped and the fixed responsive layout is used.
	DesktopBreakpoint = 768

	// contentMinWidth is the minimum width reserved for the form content
	// when a side image is present.
	contentMinWidth = 380

	// Minimum width:height ratio the popup must keep.
	minRatioNum = 5
	minRatioDen = 2
)

// ComputeWidth derives the desktop popup width from the settings.
//
//  1. Start from maxWidth.
//  2. With a side image, recompute as imageWidth + content minimum +
//     2*padding + gap.
//  3. Widen to 2.5 x minHeight if below that floor, so the popup is never
//     taller than it is wide by more than that ratio.
func ComputeWidth(s domain.Settings) int {
	s = s.Normalized()

	width := s.MaxWidth
	if s.HasSideImage() {
		width = s.ImageWidth + contentMinWidth + 2*s.Padding + s.Gap
	}

	if floor := s.MinHeight * minRatioNum / minRatioDen; width < floor {
		width = floor
	}

	return width
}

// IsDesktop reports whether the width algorithm applies for the viewport.
func IsDesktop(viewportWidth int) bool {
	return viewportWidth >= DesktopBreakpoint
}
