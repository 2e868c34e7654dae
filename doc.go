/*
 * doc.go, part of goBind.
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

/*Package bind reduces a large ensemble of docked ligand conformers to a
small set of structurally and energetically distinct binding modes.

The library is the analysis core of a substructure-based binding-mode
generator: some external program (a docking engine, a dihedral enumerator,
a minimizer) produces thousands of scored poses for the same ligand, and
goBind turns them into a handful of representatives, one per cluster of
similar poses. goBind does not generate conformers or evaluate energies;
it only consumes coordinates and scores, no matter what produced them.

	**goBind capabilities**

    Reads/writes multi-XYZ conformer ensembles, plain or compressed
	(gzip, zstd), and tabular score files.

    Superimposes every conformer onto a common reference frame using a
	set of anchor atoms (normally the rigid common substructure), so
	that overall translations and rotations do not contaminate the
	comparison of internal geometry.

    Extracts geometric feature vectors from each pose: superposed
	coordinates, pairwise interatomic distances, or torsion angles.

    Compresses the feature space with principal component analysis,
	keeping as many components as needed to explain a configurable
	fraction of the conformational variance.

    Partitions the reduced space into a data-driven number of clusters,
	sweeping candidate cluster counts and scoring each candidate with
	a cluster-validity index. The whole procedure is deterministic, so
	two runs on the same input enumerate the same binding modes.

    Selects, for each cluster, the best-scored member (or the most
	central one, if no member is scored) and emits the representatives
	ranked by score.

    Plots the clustered, reduced-space ensemble (subpackage bindplot).

All the heavy numeric work is done with gonum. As everywhere in the
goChem family, errors implement the bind.Error interface, which allows
decorating an error with the call stack that produced it.
*/
package bind
