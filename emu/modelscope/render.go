/*
 * WWSim - Display scope image rendering.
 *
 * Copyright 2024, Guy C. Fedorkow
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package modelscope

import (
	"github.com/fogleman/gg"
)

const (
	maxCoord = 1024.0 // Whirlwind deflection range.
	hStroke  = 25.6 / 2.0
	vStroke  = 19.2 / 2.0
)

// Seven segment strokes in bit order 0o100 down to 0o1.
type stroke struct {
	dx, dy float64
}

var charStrokes = [7]stroke{
	{0, 1},  // down
	{1, 0},  // right
	{0, -1}, // up
	{-1, 0}, // left
	{0, -1}, // up
	{1, 0},  // right
	{0, 1},  // down
}

// Window coordinates for a Whirlwind position, y grows downward.
func toWindow(x, y int, size float64) (float64, float64) {
	half := size / 2.0
	return float64(x)/maxCoord*half + half, -float64(y)/maxCoord*half + half
}

func setColor(dc *gg.Context, obj *Object) {
	alpha := float64(obj.Intensity) / float64(Bright-Dark)
	if obj.Scope == AuxScope {
		dc.SetRGBA(1, 1, 0, alpha)
	} else {
		dc.SetRGBA(0, 1, 0, alpha)
	}
}

func renderChar(dc *gg.Context, x, y float64, mask int, expand, scale float64) {
	if expand < 1.0 {
		expand = 1.0
	}
	dc.SetLineWidth(expand)
	for i, s := range charStrokes {
		nx := x + s.dx*hStroke*expand*scale
		ny := y + s.dy*vStroke*expand*scale
		if (mask & (1 << (6 - i))) != 0 {
			dc.DrawLine(x, y, nx, ny)
			dc.Stroke()
		}
		x, y = nx, ny
	}
}

// Draw the visible objects into a square image of size pixels.
func (device *Scopectx) Render(size int) *gg.Context {
	dc := gg.NewContext(size, size)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	scale := float64(size) / (maxCoord * 2.0)
	for _, obj := range device.objects {
		setColor(dc, obj)
		x0, y0 := toWindow(obj.X0, obj.Y0, float64(size))
		switch obj.Kind {
		case Dot:
			dc.DrawCircle(x0, y0, 2)
			dc.Fill()
		case Line:
			x1, y1 := toWindow(obj.X1, obj.Y1, float64(size))
			dc.SetLineWidth(2)
			dc.DrawLine(x0, y0, x1, y1)
			dc.Stroke()
		case Char:
			renderChar(dc, x0, y0, obj.Mask, obj.Expand, scale)
		}
	}
	return dc
}

// Save the visible objects as a PNG image.
func (device *Scopectx) SaveImage(name string, size int) error {
	device.Logger().Info("Saving scope image to " + name)
	return device.Render(size).SavePNG(name)
}
