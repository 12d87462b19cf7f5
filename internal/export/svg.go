package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/analysis"
)

// Palette colours bodies in order, cycling when there are more bodies.
var Palette = []string{"#00ff88", "#ff6b6b", "#4dabf7", "#ffd43b", "#cc5de8", "#ff922b"}

// TrajectorySVG draws one polyline per path on a shared, padded frame with
// equal scaling on both axes, and marks each path's last point.
func TrajectorySVG(paths [][]analysis.Point, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, path := range paths {
		for _, p := range path {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	span := math.Max(rangeX, rangeY) * 1.2
	if span == 0 {
		span = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	pixels := math.Min(float64(width), float64(height))

	toScreen := func(p analysis.Point) (float64, float64) {
		x := float64(width)/2 + (p.X-cx)/span*pixels
		y := float64(height)/2 - (p.Y-cy)/span*pixels
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := Palette[i%len(Palette)]

		if len(path) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
			for j, p := range path {
				x, y := toScreen(p)
				if j == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := toScreen(path[len(path)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
