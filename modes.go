/*
 * modes.go, part of goBind.
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
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Cluster is one group of conformers found by the partition stage, in the
//reduced feature space. Members holds conformer identities in ascending
//order; Centroid is the mean of the members' reduced-space points; Rep is
//the identity of the representative conformer.
type Cluster struct {
	Members  []int
	Centroid []float64
	Rep      int
}

//BindingMode is one distinct binding-mode hypothesis: a representative
//conformer standing for a whole cluster. Score carries the representative's
//score when it has one (Scored true). Cluster indexes into Result.Clusters.
type BindingMode struct {
	Rep     int
	Size    int
	Score   float64
	Scored  bool
	Cluster int
}

//Result is everything a reduction run produces: the binding modes in their
//final emission order, the underlying clusters, the reduced-space points
//(one row per conformer) and the variance fraction explained by each kept
//component.
type Result struct {
	Modes    []*BindingMode
	Clusters []*Cluster
	Reduced  *mat.Dense
	Vars     []float64
}

//Assignments returns the cluster index of every conformer, by identity.
func (R *Result) Assignments() []int {
	n, _ := R.Reduced.Dims()
	assign := make([]int, n)
	for c, cl := range R.Clusters {
		for _, m := range cl.Members {
			assign[m] = c
		}
	}
	return assign
}

//String returns a short human-readable summary of the run, one line per
//binding mode.
func (R *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "goBind: %d binding modes from %d clusters, %d components kept\n", len(R.Modes), len(R.Clusters), len(R.Vars))
	for i, m := range R.Modes {
		if m.Scored {
			fmt.Fprintf(&b, "mode %d: conformer %d, %d members, score %.4f\n", i+1, m.Rep, m.Size, m.Score)
		} else {
			fmt.Fprintf(&b, "mode %d: conformer %d, %d members, no score\n", i+1, m.Rep, m.Size)
		}
	}
	return b.String()
}

//buildClusters groups the conformers by the given assignment and computes
//each group's centroid in the reduced space and its representative.
func buildClusters(E *Ensemble, reduced *mat.Dense, assign []int) []*Cluster {
	k := 0
	for _, a := range assign {
		if a+1 > k {
			k = a + 1
		}
	}
	_, dim := reduced.Dims()
	clusters := make([]*Cluster, k)
	for c := range clusters {
		clusters[c] = &Cluster{Centroid: make([]float64, dim)}
	}
	for id, a := range assign {
		cl := clusters[a]
		cl.Members = append(cl.Members, id)
		for j := 0; j < dim; j++ {
			cl.Centroid[j] += reduced.At(id, j)
		}
	}
	for _, cl := range clusters {
		for j := range cl.Centroid {
			cl.Centroid[j] /= float64(len(cl.Members))
		}
		cl.Rep = selectRepresentative(E, reduced, cl)
	}
	return clusters
}

//selectRepresentative picks the conformer that stands for a cluster. If any
//member has a score, the member with the lowest (best) score wins; ties go
//to the lowest identity. In a fully scoreless cluster the member closest to
//the centroid in the reduced space wins instead, with the same tie-break.
func selectRepresentative(E *Ensemble, reduced *mat.Dense, cl *Cluster) int {
	best := -1
	bestScore := 0.0
	for _, id := range cl.Members {
		s, ok := E.Conformer(id).Score()
		if !ok {
			continue
		}
		if best < 0 || s < bestScore {
			best = id
			bestScore = s
		}
	}
	if best >= 0 {
		return best
	}
	_, dim := reduced.Dims()
	row := make([]float64, dim)
	bestDist := 0.0
	for _, id := range cl.Members {
		mat.Row(row, id, reduced)
		d := floats.Distance(row, cl.Centroid, 2)
		if best < 0 || d < bestDist {
			best = id
			bestDist = d
		}
	}
	return best
}

//emit turns the clusters into the final, ordered binding-mode list. Modes
//with a scored representative come first, best (lowest) score first;
//scoreless modes follow, largest cluster first. Remaining ties go to the
//lowest representative identity, so the order is fully deterministic.
func emit(E *Ensemble, clusters []*Cluster) []*BindingMode {
	modes := make([]*BindingMode, 0, len(clusters))
	for c, cl := range clusters {
		m := &BindingMode{Rep: cl.Rep, Size: len(cl.Members), Cluster: c}
		m.Score, m.Scored = E.Conformer(cl.Rep).Score()
		modes = append(modes, m)
	}
	sort.SliceStable(modes, func(i, j int) bool {
		a, b := modes[i], modes[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		if a.Scored {
			if a.Score != b.Score {
				return a.Score < b.Score
			}
			return a.Rep < b.Rep
		}
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Rep < b.Rep
	})
	return modes
}
