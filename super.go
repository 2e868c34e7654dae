/*
 * super.go, part of goBind.
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

	matrix "github.com/skelterjohn/go.matrix"
	"gonum.org/v1/gonum/mat"
)

//used to correct floating point errors. Everything equal or less than this
//is considered zero.
const appzero float64 = 0.0000001

//Superpose returns a copy of test rigidly rotated and translated so that
//its anchor atoms best match (in the least-squares sense) the same atoms
//of ref. The anchors are normally the rigid common substructure shared by
//the whole ensemble; the transformation computed on them is applied to all
//atoms, so non-anchor atoms keep their internal geometry and only lose the
//overall pose difference.
//
//The rotation comes from the SVD of the 3x3 anchor covariance matrix
//(Kabsch). Superpose fails when the anchors are degenerate (collinear or
//collapsed), since then the optimal rotation is not unique.
func Superpose(test, ref *mat.Dense, anchors []int) (*mat.Dense, error) {
	tr, tc := test.Dims()
	rr, rc := ref.Dims()
	if tc != 3 || rc != 3 || tr != rr {
		return nil, ingestError(-1, "superposition needs two equal NAtoms x 3 matrices, got %dx%d and %dx%d", tr, tc, rr, rc)
	}
	m := len(anchors)
	if m < 3 {
		return nil, ingestError(-1, "superposition needs at least 3 anchor atoms, got %d", m)
	}
	for _, a := range anchors {
		if a < 0 || a >= tr {
			return nil, ingestError(-1, "anchor atom %d out of range (%d atoms)", a, tr)
		}
	}
	var ct, cr [3]float64 //anchor centroids of test and ref
	for _, a := range anchors {
		for j := 0; j < 3; j++ {
			ct[j] += test.At(a, j)
			cr[j] += ref.At(a, j)
		}
	}
	for j := 0; j < 3; j++ {
		ct[j] /= float64(m)
		cr[j] /= float64(m)
	}
	//3xM matrices with the centered anchor coordinates.
	els1 := make([]float64, 3*m)
	els2 := make([]float64, 3*m)
	for i, a := range anchors {
		for j := 0; j < 3; j++ {
			els1[i+j*m] = test.At(a, j) - ct[j]
			els2[i+j*m] = ref.At(a, j) - cr[j]
		}
	}
	X := matrix.MakeDenseMatrix(els1, 3, m)
	Y := matrix.MakeDenseMatrix(els2, 3, m)
	C, err := X.TimesDense(Y.Transpose())
	if err != nil {
		return nil, ingestError(-1, "superposition covariance: %s", err.Error())
	}
	U, S, V, err := C.SVD()
	if err != nil {
		return nil, ingestError(-1, "superposition SVD: %s", err.Error())
	}
	//With collinear (or collapsed) anchors the covariance has rank <= 1
	//and the rotation around the anchor axis is arbitrary.
	if S.Get(1, 1) <= appzero {
		return nil, ingestError(-1, "degenerate superposition anchor: anchor atoms are collinear")
	}
	//Kabsch: R = V*D*U^T, with D fixing an improper rotation (a reflection)
	//when det(C) < 0.
	W := V
	if C.Det() < 0 {
		adjust := matrix.MakeDenseMatrix([]float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, -1,
		}, 3, 3)
		W, err = V.TimesDense(adjust)
		if err != nil {
			return nil, ingestError(-1, "superposition handedness fix: %s", err.Error())
		}
	}
	R, err := W.TimesDense(U.Transpose())
	if err != nil {
		return nil, ingestError(-1, "superposition rotation: %s", err.Error())
	}
	//rotate the full, anchor-centered test set and drop it on the ref
	//anchor centroid.
	out := mat.NewDense(tr, 3, nil)
	for i := 0; i < tr; i++ {
		x := test.At(i, 0) - ct[0]
		y := test.At(i, 1) - ct[1]
		z := test.At(i, 2) - ct[2]
		out.Set(i, 0, R.Get(0, 0)*x+R.Get(0, 1)*y+R.Get(0, 2)*z+cr[0])
		out.Set(i, 1, R.Get(1, 0)*x+R.Get(1, 1)*y+R.Get(1, 2)*z+cr[1])
		out.Set(i, 2, R.Get(2, 0)*x+R.Get(2, 1)*y+R.Get(2, 2)*z+cr[2])
	}
	return out, nil
}

//RMSD returns the root of the mean square deviation between the two sets
//of cartesian coordinates, without superimposing them first.
func RMSD(test, ref *mat.Dense) (float64, error) {
	tr, tc := test.Dims()
	rr, rc := ref.Dims()
	if tr != rr || tc != 3 || rc != 3 {
		return 0, ingestError(-1, "ill-formed matrices for RMSD calculation: %dx%d vs %dx%d", tr, tc, rr, rc)
	}
	var sum float64
	for i := 0; i < tr; i++ {
		for j := 0; j < 3; j++ {
			d := test.At(i, j) - ref.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(tr)), nil
}
