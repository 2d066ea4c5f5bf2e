package chart

const (
	ColorGreen  = "#10B981"
	ColorAmber  = "#F59E0B"
	ColorOrange = "#F97316"
	ColorRed    = "#EF4444"
	ColorGray   = "#6B7280"
	ColorBlue   = "#3B82F6"
	ColorWhite  = "#FFFFFF"

	// ColorBlueTranslucent is ColorBlue at 10% opacity, used under the traffic line.
	ColorBlueTranslucent = "#3B82F61A"
)

// servicePalette colors the per-service bars, one color per rank.
var servicePalette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#F97316", "#06B6D4", "#84CC16", "#F43F5E", "#6366F1",
}

// StatusColor picks the color bucket of an HTTP status code from its
// leading digit, so a code keeps its color across refreshes.
func StatusColor(code string) string {
	if code == "" {
		return ColorGray
	}
	switch code[0] {
	case '2':
		return ColorGreen
	case '3':
		return ColorAmber
	case '4':
		return ColorOrange
	case '5':
		return ColorRed
	default:
		return ColorGray
	}
}

// StatusBadge is the CSS class used for a status code in the recent log table.
func StatusBadge(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "badge-success"
	case code >= 300 && code < 400:
		return "badge-warning"
	case code >= 400 && code < 500:
		return "badge-error"
	case code >= 500:
		return "badge-critical"
	default:
		return "badge-default"
	}
}
