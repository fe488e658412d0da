package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/pidlab/internal/sim"
)

// TraceToSVG renders the setpoint, open-loop, and closed-loop series as
// polylines on a shared axis.
func TraceToSVG(tr *sim.Trace, width, height int) string {
	if tr.Len() < 2 {
		return ""
	}

	minY, maxY := tr.Setpoint[0], tr.Setpoint[0]
	for _, series := range [][]float64{tr.Setpoint, tr.OpenLoop, tr.ClosedLoop} {
		for _, v := range series {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath(&sb, tr.Setpoint, minY, rangeY, width, height, "#ff5555", "4 3")
	writePath(&sb, tr.OpenLoop, minY, rangeY, width, height, "#5588ff", "")
	writePath(&sb, tr.ClosedLoop, minY, rangeY, width, height, "#00ff00", "")

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, series []float64, minY, rangeY float64, width, height int, color, dash string) {
	dashAttr := ""
	if dash != "" {
		dashAttr = fmt.Sprintf(` stroke-dasharray="%s"`, dash)
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, color, dashAttr))

	n := len(series)
	for i, v := range series {
		x := float64(i) / float64(n-1) * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
