package problem

import (
	"fmt"

	"github.com/edp1096/peec-core/pkg/model"
)

// BuildGrid converts the JSON geometry block into a model.Grid.
func (g Geometry) BuildGrid() model.Grid {
	return model.Grid{
		Nx: g.N[0], Ny: g.N[1], Nz: g.N[2],
		Dx: g.D[0], Dy: g.D[1], Dz: g.D[2],
		Cx: g.C[0], Cy: g.C[1], Cz: g.C[2],
	}
}

// BuildDomains converts domain_def into named model.Domain values,
// validated against the geometry's grid.
func (g Geometry) BuildDomains() (map[string]model.Domain, error) {
	grid := g.BuildGrid()
	out := make(map[string]model.Domain, len(g.DomainDef))
	for tag, idx := range g.DomainDef {
		d, err := model.NewDomain(tag, idx, grid)
		if err != nil {
			return nil, err
		}
		out[tag] = d
	}
	return out, nil
}

func parseMaterialKind(s string) (model.MaterialKind, error) {
	switch s {
	case "electric":
		return model.MaterialElectric, nil
	case "magnetic":
		return model.MaterialMagnetic, nil
	case "electromagnetic":
		return model.MaterialElectromagnetic, nil
	default:
		return 0, fmt.Errorf("problem: unknown material_type %q", s)
	}
}

func parseVarType(s string) (model.VarType, error) {
	switch s {
	case "lumped", "":
		return model.Lumped, nil
	case "distributed":
		return model.Distributed, nil
	default:
		return 0, fmt.Errorf("problem: unknown var_type %q", s)
	}
}

func parseOrientation(s string) model.Orientation {
	switch s {
	case "aniso":
		return model.OrientationAniso
	case "null":
		return model.OrientationNull
	default:
		return model.OrientationIso
	}
}

func parseSourceKind(s string) (model.SourceKind, error) {
	switch s {
	case "current", "":
		return model.CurrentSource, nil
	case "voltage":
		return model.VoltageSource, nil
	default:
		return 0, fmt.Errorf("problem: unknown source_type %q", s)
	}
}

func complexSlice(in []Complex) []complex128 {
	out := make([]complex128, len(in))
	for i, c := range in {
		out[i] = c.Value()
	}
	return out
}

// BuildMaterialRecords resolves every MaterialDef entry into a
// model.MaterialRecord, looking up each record's voxel set from the
// geometry's domain_def by the Domain field.
func BuildMaterialRecords(defs []MaterialDef, domains map[string]model.Domain) ([]model.MaterialRecord, error) {
	out := make([]model.MaterialRecord, 0, len(defs))
	for _, d := range defs {
		dom, ok := domains[d.Domain]
		if !ok {
			return nil, fmt.Errorf("problem: material %q references unknown domain %q", d.Tag, d.Domain)
		}
		kind, err := parseMaterialKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("problem: material %q: %w", d.Tag, err)
		}
		varType, err := parseVarType(d.VarType)
		if err != nil {
			return nil, fmt.Errorf("problem: material %q: %w", d.Tag, err)
		}
		rec := model.MaterialRecord{
			Tag:         d.Tag,
			Kind:        kind,
			VarType:     varType,
			Orientation: parseOrientation(d.Orientation),
			Idx:         dom.Idx,
			RhoIso:      d.RhoIso.Value(),
			RhoAniso:    [3]complex128{d.RhoAniso[0].Value(), d.RhoAniso[1].Value(), d.RhoAniso[2].Value()},
			RhoPerVoxel: complexSlice(d.RhoPerVoxel),
			ChiIso:      d.ChiIso.Value(),
			ChiAniso:    [3]complex128{d.ChiAniso[0].Value(), d.ChiAniso[1].Value(), d.ChiAniso[2].Value()},
			ChiPerVoxel: complexSlice(d.ChiPerVoxel),
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// BuildSourceRecords resolves every SourceDef entry into a
// model.SourceRecord, validated against the electric voxel set.
func BuildSourceRecords(defs []SourceDef, domains map[string]model.Domain, electric *model.DomainSet) ([]model.SourceRecord, error) {
	out := make([]model.SourceRecord, 0, len(defs))
	for _, d := range defs {
		dom, ok := domains[d.Domain]
		if !ok {
			return nil, fmt.Errorf("problem: source %q references unknown domain %q", d.Tag, d.Domain)
		}
		kind, err := parseSourceKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("problem: source %q: %w", d.Tag, err)
		}
		if electric != nil && !electric.SubsetOfElectric(dom.Idx) {
			return nil, fmt.Errorf("problem: source %q: voxels outside the electric domain", d.Tag)
		}
		out = append(out, model.SourceRecord{
			Tag:      d.Tag,
			Kind:     kind,
			Idx:      dom.Idx,
			Value:    d.Value.Value(),
			Internal: d.Internal.Value(),
		})
	}
	return out, nil
}
