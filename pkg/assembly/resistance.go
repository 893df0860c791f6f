package assembly

import (
	"github.com/edp1096/peec-core/internal/constants"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

// BuildR evaluates the diagonal resistance vector of spec.md §4.4 for
// every internal face of net: R[f] = (d_a/(d_b*d_c))*rho_face, with
// rho_face the arithmetic mean of the face's two endpoint voxels'
// resistivity along the face's axis.
func BuildR(net *incidence.Net, recs []model.MaterialRecord) ([]complex128, error) {
	idx := buildMaterialIndex(recs, isElectric)
	r := make([]complex128, net.NumFaces())
	for f := 0; f < net.NumFaces(); f++ {
		a := net.Axis[f]
		owner, neigh := net.Indicator(f)
		vOwner, vNeigh := net.VoxelIdx[owner], net.VoxelIdx[neigh]

		rhoOwner, err := idx.resistivityAt(vOwner, a)
		if err != nil {
			return nil, err
		}
		rhoNeigh, err := idx.resistivityAt(vNeigh, a)
		if err != nil {
			return nil, err
		}
		rhoFace := (rhoOwner + rhoNeigh) / 2

		da := net.Grid.Size(a)
		dbdc := net.Grid.FaceArea(a)
		r[f] = complex(da/dbdc, 0) * rhoFace
	}
	return r, nil
}

// BuildRMagnetic evaluates the magnetic-face resistance vector, using
// rho_m = 1/(mu0*chi) in place of the electric resistivity (spec.md
// §4.4).
func BuildRMagnetic(net *incidence.Net, recs []model.MaterialRecord) ([]complex128, error) {
	idx := buildMaterialIndex(recs, isMagnetic)
	r := make([]complex128, net.NumFaces())
	for f := 0; f < net.NumFaces(); f++ {
		a := net.Axis[f]
		owner, neigh := net.Indicator(f)
		vOwner, vNeigh := net.VoxelIdx[owner], net.VoxelIdx[neigh]

		chiOwner, err := idx.susceptibilityAt(vOwner, a)
		if err != nil {
			return nil, err
		}
		chiNeigh, err := idx.susceptibilityAt(vNeigh, a)
		if err != nil {
			return nil, err
		}
		rhoOwner := 1 / (complex(constants.Mu0, 0) * chiOwner)
		rhoNeigh := 1 / (complex(constants.Mu0, 0) * chiNeigh)
		rhoFace := (rhoOwner + rhoNeigh) / 2

		da := net.Grid.Size(a)
		dbdc := net.Grid.FaceArea(a)
		r[f] = complex(da/dbdc, 0) * rhoFace
	}
	return r, nil
}
