/*
 * plot.go, part of goBind.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package bindplot draws the reduced-space view of a reduction run: one
//scatter point per conformer on the first two principal components, colored
//by cluster, with the representatives highlighted.
package bindplot

import (
	"fmt"
	"image/color"
	"math"

	bind "github.com/rmera/gobind"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Modes plots the clusters of res on the first two kept components and saves
//the plot as a png. The extension is added to plotname. It fails if fewer
//than two components were kept, as there is then no plane to draw on.
func Modes(res *bind.Result, title, plotname string) error {
	if res == nil || res.Reduced == nil {
		return fmt.Errorf("bindplot: given nil results")
	}
	_, cols := res.Reduced.Dims()
	if cols < 2 {
		return fmt.Errorf("bindplot: need at least 2 components to plot, got %d", cols)
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	if len(res.Vars) >= 2 {
		p.X.Label.Text = fmt.Sprintf("PC1 (%.1f%%)", res.Vars[0]*100)
		p.Y.Label.Text = fmt.Sprintf("PC2 (%.1f%%)", res.Vars[1]*100)
	} else {
		p.X.Label.Text = "PC1"
		p.Y.Label.Text = "PC2"
	}
	p.Add(plotter.NewGrid())
	for key, cl := range res.Clusters {
		pts := make(plotter.XYs, 0, len(cl.Members))
		var rep plotter.XYs
		for _, id := range cl.Members {
			xy := plotter.XY{X: res.Reduced.At(id, 0), Y: res.Reduced.At(id, 1)}
			if id == cl.Rep {
				rep = plotter.XYs{xy}
				continue
			}
			pts = append(pts, xy)
		}
		r, g, b := colors(key, len(res.Clusters))
		if len(pts) > 0 {
			s, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
			p.Add(s)
		}
		if len(rep) > 0 {
			s, err := plotter.NewScatter(rep)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
			s.GlyphStyle.Shape = draw.PyramidGlyph{}
			s.GlyphStyle.Radius = s.GlyphStyle.Radius * 1.5
			p.Add(s)
		}
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default: //case 5
		r = v
		g = p
		b = q
	}
	r = r * conversion
	g = g * conversion
	b = b * conversion
	return uint8(r), uint8(g), uint8(b)
}

//colors spreads the cluster keys evenly over the hue circle, stopping
//short of 360 so the last cluster doesn't wrap back onto the first one's
//red.
func colors(key, steps int) (r, g, b uint8) {
	h := float64(key) * 300.0 / float64(steps)
	return iHVS2RGB(h, 1.0, 1.0)
}
