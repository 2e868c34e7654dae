/*
 * conformer.go, part of goBind.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//Conformer is one 3D geometric arrangement of the ligand's atoms, plus,
//optionally, a scalar score where lower means a better binding estimate.
//A Conformer is immutable once it enters an Ensemble; its identity is
//stable through the whole pipeline regardless of how the clusters shuffle
//positions around.
type Conformer struct {
	id     int
	coords *mat.Dense //NAtoms x 3
	score  float64
	scored bool
}

//ID returns the identity of the conformer, its position in the ensemble
//source it was read from.
func (C *Conformer) ID() int { return C.id }

//NAtoms returns the number of atoms in the conformer.
func (C *Conformer) NAtoms() int {
	r, _ := C.coords.Dims()
	return r
}

//Coords returns the NAtoms x 3 coordinate matrix of the conformer.
//The matrix is owned by the ensemble: treat it as read-only.
func (C *Conformer) Coords() *mat.Dense { return C.coords }

//Score returns the score of the conformer and whether it has one at all.
func (C *Conformer) Score() (float64, bool) { return C.score, C.scored }

//Ensemble is an ordered, in-memory collection of conformers sharing the
//same atom count and atom ordering. It owns all coordinate data for the
//lifetime of a pipeline run; every downstream stage works on derived,
//read-only views keyed by conformer identity.
type Ensemble struct {
	confs  []*Conformer
	natoms int
}

//NewEnsemble builds an ensemble from a slice of NAtoms x 3 coordinate
//matrices, in source order. Conformer identities are assigned from the
//slice positions. It fails if the slice is empty, if atom counts differ
//across entries, or if any coordinate is not a finite number.
func NewEnsemble(coords []*mat.Dense) (*Ensemble, error) {
	if len(coords) == 0 {
		return nil, ingestError(-1, "empty ensemble")
	}
	E := new(Ensemble)
	E.confs = make([]*Conformer, 0, len(coords))
	for id, c := range coords {
		if c == nil {
			return nil, ingestError(id, "nil coordinates")
		}
		r, col := c.Dims()
		if col != 3 {
			return nil, ingestError(id, "coordinate matrix has %d columns, want 3", col)
		}
		if id == 0 {
			E.natoms = r
		} else if r != E.natoms {
			return nil, ingestError(id, "has %d atoms while the ensemble has %d", r, E.natoms)
		}
		for i := 0; i < r; i++ {
			for j := 0; j < 3; j++ {
				if v := c.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, ingestError(id, "non-finite coordinate for atom %d", i)
				}
			}
		}
		E.confs = append(E.confs, &Conformer{id: id, coords: c})
	}
	return E, nil
}

//Len returns the number of conformers in the ensemble.
func (E *Ensemble) Len() int { return len(E.confs) }

//NAtoms returns the number of atoms per conformer.
func (E *Ensemble) NAtoms() int { return E.natoms }

//Conformer returns the conformer at position i of the ensemble. Positions
//match identities for ensembles built by this library. Panics if out of
//range, as the equivalent gonum accessors do.
func (E *Ensemble) Conformer(i int) *Conformer { return E.confs[i] }

//SetScores attaches scores to the conformers identified by the map keys.
//Conformers absent from the map simply stay scoreless. It fails if a key
//does not identify a conformer of the ensemble or if a score is not a
//finite number.
func (E *Ensemble) SetScores(scores map[int]float64) error {
	for id, s := range scores {
		if id < 0 || id >= len(E.confs) {
			return ingestError(id, "score given for a conformer not in the ensemble")
		}
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ingestError(id, "non-finite score")
		}
	}
	//only mutate once everything is known to be good.
	for id, s := range scores {
		E.confs[id].score = s
		E.confs[id].scored = true
	}
	return nil
}
