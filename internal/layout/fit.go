package layout

const (
	// ptToMM converts a font size in points to millimetres
	ptToMM = 0.3528
	// averageCharEm is the assumed advance of one character in em
	averageCharEm = 0.45
	boldFactor    = 1.1
	cellPadding   = 1.0
	ellipsis      = "..."
)

// CharWidth estimates the advance of one character. Fixed per font size so
// layout never depends on font metrics.
func CharWidth(f Font) float64 {
	w := f.Size * ptToMM * averageCharEm
	if f.Bold() {
		w *= boldFactor
	}
	return w
}

// Fit shortens text with a trailing ellipsis so it fits width at font f
func Fit(text string, width float64, f Font) string {
	runes := []rune(text)
	capacity := int((width - 2*cellPadding) / CharWidth(f))
	if len(runes) <= capacity {
		return text
	}
	if capacity <= len(ellipsis) {
		if capacity <= 0 {
			return ""
		}
		return string(runes[:capacity])
	}
	return string(runes[:capacity-len(ellipsis)]) + ellipsis
}
