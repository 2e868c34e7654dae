/*
 * pipeline.go, part of goBind.
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
	"log"

	"gonum.org/v1/gonum/mat"
)

//Reduce runs the whole reduction pipeline on the ensemble: feature
//extraction, projection onto the principal components, a sweep over
//candidate cluster counts, and representative selection, returning the
//binding-mode hypotheses in their final order. A nil o means defaults.
//Everything about the run is deterministic for a given ensemble and
//option set.
func Reduce(E *Ensemble, o *Options) (*Result, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "Reduce")
	}
	if E == nil || E.Len() == 0 {
		return nil, ingestError(-1, "empty ensemble")
	}
	//a single conformer is its own binding mode, no math needed.
	if E.Len() == 1 {
		reduced := mat.NewDense(1, o.minComponents, nil)
		clusters := buildClusters(E, reduced, []int{0})
		return &Result{
			Modes:    emit(E, clusters),
			Clusters: clusters,
			Reduced:  reduced,
			Vars:     make([]float64, o.minComponents),
		}, nil
	}
	feats, err := o.buildFeaturizer().Features(E)
	if err != nil {
		return nil, errDecorate(err, "Reduce")
	}
	reduced, vars, err := reduce(feats, o)
	if err != nil {
		return nil, errDecorate(err, "Reduce")
	}
	_, ncomp := reduced.Dims()
	log.Printf("goBind: kept %d components for %d conformers", ncomp, E.Len())
	assign := sweepK(reduced, o)
	clusters := buildClusters(E, reduced, assign)
	log.Printf("goBind: settled on %d clusters", len(clusters))
	return &Result{
		Modes:    emit(E, clusters),
		Clusters: clusters,
		Reduced:  reduced,
		Vars:     vars,
	}, nil
}
