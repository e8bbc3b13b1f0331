// doc.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------

// Package denominator factorizes orbital-energy denominators for MP2-like
// and SAPT energy expressions.
//
// For occupied energies ε_i and virtual energies ε_a every pair p = (i, a)
// has a gap g_p = ε_a − ε_i > 0. A decomposition returns a tensor D with
// NVector rows and one column per pair (column p = i·nvir + a) such that
//
//	Σ_k D[k][p] · D[k][q] ≈ 1 / ((g_p + g_q) / 2)
//
// to within Delta for every p and q. The diagonal is the reciprocal gap
// 1/(ε_a − ε_i); off the diagonal it is twice the MP2 denominator
// 1/(Δ_ia + Δ_jb).
//
// Two algorithms are available through Build:
//
//   - LAPLACE fits 1/x ≈ Σ w_k exp(−t_k x) on the gap range and stores the
//     separable occupied and virtual factors; the full tensor is built on
//     first request.
//   - CHOLESKY runs a pivoted incomplete Cholesky decomposition of the pair
//     kernel and always stores the full tensor.
//
// BuildSAPT does the same for two monomers on one shared grid, and TLaplace
// is a Laplace decomposer for triples denominators.
//
// All decomposers are immutable after construction and safe for concurrent
// reads. Eigenvalue vectors are read, never modified or retained beyond the
// decomposer's lifetime.
package denominator
