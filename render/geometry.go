// SPDX-License-Identifier: MIT
package render

// Geometry produces the plot vertex layout in normalized [0,1]x[0,1]
// space. The output is a pure function of (viewport width, details,
// group); the y coordinate is displaced per-vertex by the shader using
// the magnitude texture, so every column spans the full 0..1 height
// here.
//
// Ungrouped: one quad per column, 4 points (8 scalars). Grouped: one
// 8-point bar per column (16 scalars) with duplicated corners, so the
// same buffer rasterizes as a fan fill per bar and traces the
// left/top/right edges as a line overlay; the duplicates keep the
// bridge triangles between bars degenerate.

// Generate dispatches on the group setting: values at or below 0.5
// disable grouping (a boolean "true" group maps to size 1 upstream).
func Generate(width int, details, group float64) []float32 {
	if group > 0.5 {
		return BarGeometry(width, details, group)
	}
	return LineGeometry(width, details)
}

// LineGeometry emits int(width*details) columns; column i spans the
// x ratios i/(width*details) to (i+1)/(width*details) with a
// bottom/top vertex pair at each edge.
func LineGeometry(width int, details float64) []float32 {
	w := float64(width) * details
	cols := int(w)
	if cols < 1 {
		return nil
	}
	out := make([]float32, 0, cols*8)
	for i := 0; i < cols; i++ {
		curr := float32(float64(i) / w)
		next := float32((float64(i) + 1) / w)
		out = append(out,
			curr, 0, curr, 1,
			next, 0, next, 1,
		)
	}
	return out
}

// BarGeometry emits int(width*details/group) bars; bar i spans the
// x ratios i/w' to (i+0.5)/w' where w' = width*details/group, leaving
// the right half of each column as the inter-bar gap.
func BarGeometry(width int, details, group float64) []float32 {
	w := float64(width) * details / group
	cols := int(w)
	if cols < 1 {
		return nil
	}
	out := make([]float32, 0, cols*16)
	for i := 0; i < cols; i++ {
		curr := float32(float64(i) / w)
		next := float32((float64(i) + 0.5) / w)
		out = append(out,
			curr, 0, curr, 0,
			curr, 1, curr, 1,
			next, 1, next, 1,
			next, 0, next, 0,
		)
	}
	return out
}
