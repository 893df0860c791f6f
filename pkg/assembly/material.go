// Package assembly produces the R/L/P/K operators of spec.md §4.4
// from a voxel grid, its reduced incidence nets, the Green/coupling
// tensors of pkg/green, and the FFT operators of pkg/fftop.
package assembly

import (
	"fmt"

	"github.com/edp1096/peec-core/pkg/model"
)

// materialIndex maps a global voxel index to the material record
// (and its per-voxel slot) that governs it, resolved once per domain
// so per-face lookups during R assembly are O(1) instead of O(records).
type materialIndex struct {
	byVoxel map[int]materialEntry
}

type materialEntry struct {
	rec  model.MaterialRecord
	slot int
}

// buildMaterialIndex indexes every record whose Kind matches one of
// the accepted kinds (electric records also participate in an
// electromagnetic lookup, and vice versa for magnetic).
func buildMaterialIndex(recs []model.MaterialRecord, accept func(model.MaterialKind) bool) materialIndex {
	idx := materialIndex{byVoxel: make(map[int]materialEntry)}
	for _, r := range recs {
		if !accept(r.Kind) {
			continue
		}
		for slot, v := range r.Idx {
			idx.byVoxel[v] = materialEntry{rec: r, slot: slot}
		}
	}
	return idx
}

func isElectric(k model.MaterialKind) bool {
	return k == model.MaterialElectric || k == model.MaterialElectromagnetic
}

func isMagnetic(k model.MaterialKind) bool {
	return k == model.MaterialMagnetic || k == model.MaterialElectromagnetic
}

func (idx materialIndex) resistivityAt(voxel int, a model.Axis) (complex128, error) {
	e, ok := idx.byVoxel[voxel]
	if !ok {
		return 0, fmt.Errorf("assembly: no electric material assigned to voxel %d", voxel)
	}
	return e.rec.ResistivityAt(e.slot, a)
}

func (idx materialIndex) susceptibilityAt(voxel int, a model.Axis) (complex128, error) {
	e, ok := idx.byVoxel[voxel]
	if !ok {
		return 0, fmt.Errorf("assembly: no magnetic material assigned to voxel %d", voxel)
	}
	return e.rec.SusceptibilityAt(e.slot, a)
}
