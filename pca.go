/*
 * pca.go, part of goBind.
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

package bind

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//reduce projects the feature matrix onto its principal components, keeping
//the smallest number of components whose cumulative variance fraction
//reaches the threshold in o, clamped to o's floor and ceiling. It returns
//the projected points, one row per conformer, and the variance fraction
//explained by each kept component.
func reduce(features *mat.Dense, o *Options) (*mat.Dense, []float64, error) {
	n, cols := features.Dims()
	if n < 2 {
		return nil, nil, ingestError(-1, "need at least 2 conformers for dimensionality reduction, got %d", n)
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(features, nil); !ok {
		return nil, nil, ingestError(-1, "principal component decomposition failed")
	}
	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}
	ratios := make([]float64, len(vars))
	if total > appzero {
		for i, v := range vars {
			ratios[i] = v / total
		}
	}
	ncomp := len(vars)
	cum := 0.0
	for i, r := range ratios {
		cum += r
		if cum >= o.varianceThreshold {
			ncomp = i + 1
			break
		}
	}
	if ncomp < o.minComponents {
		ncomp = o.minComponents
	}
	if ncomp > o.maxComponents {
		ncomp = o.maxComponents
	}
	//with very few conformers or features there may be fewer components
	//than the floor asks for. Take what there is.
	if ncomp > len(vars) {
		ncomp = len(vars)
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)
	//PrincipalComponents centers the data internally but VectorsTo returns
	//only the directions, so the projection has to center again.
	means := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var s float64
		for i := 0; i < n; i++ {
			s += features.At(i, j)
		}
		means[j] = s / float64(n)
	}
	centered := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, features.At(i, j)-means[j])
		}
	}
	reduced := mat.NewDense(n, ncomp, nil)
	reduced.Mul(centered, vec.Slice(0, cols, 0, ncomp))
	return reduced, ratios[:ncomp], nil
}
