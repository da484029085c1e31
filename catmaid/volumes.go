package catmaid

import (
	"context"
	"fmt"
	"strings"

	"github.com/NikDrummond/pntools/volume"
)

// coreNeuropils is the fixed list of FAFB regions used to assemble the
// whole-brain neuropil mesh, as published with the template brain.
var coreNeuropils = []string{
	"AME_R", "LO_R", "NO", "BU_R", "PB", "LH_R", "LAL_R", "SAD", "CAN_R", "AMMC_R", "ICL_R",
	"VES_R", "IB_R", "ATL_R", "CRE_R", "MB_PED_R", "MB_VL_R", "MB_ML_R", "FLA_R", "LOP_R",
	"EB", "AL_R", "ME_R", "FB", "SLP_R", "SIP_R", "SMP_R", "AVLP_R", "PVLP_R", "WED_R", "PLP_R",
	"AOTU_R", "GOR_R", "MB_CA_R", "SPS_R", "IPS_R", "SCL_R", "EPA_R", "GNG", "PRW", "GA_R",
	"AME_L", "LO_L", "BU_L", "LH_L", "LAL_L", "CAN_L", "AMMC_L", "ICL_L", "VES_L", "IB_L",
	"ATL_L", "CRE_L", "MB_PED_L", "MB_VL_L", "MB_ML_L", "FLA_L", "LOP_L", "AL_L", "ME_L",
	"SLP_L", "SIP_L", "SMP_L", "AVLP_L", "PVLP_L", "WED_L", "PLP_L", "AOTU_L", "GOR_L",
	"MB_CA_L", "SPS_L", "IPS_L", "SCL_L", "EPA_L", "GA_L",
}

// glomExcludeFragments are substrings that disqualify a v14 volume name
// from the glomeruli set (optic-lobe volumes, whole neuropils, ORN sets).
var glomExcludeFragments = []string{"Lo", "LC6", "neuropil", "LPC", "LP_", "right", "_ORNs"}

// glomExcludeExact drops v14 volumes superseded by the `_new` meshes and
// the VP sub-volumes.
var glomExcludeExact = []string{
	"v14.VP1", "v14.VP2", "v14.VP3", "v14.VP4", "v14.VP5",
	"v14.VP1m", "v14.VP1l", "v14.VP1d", "v14.VC5", "v14.VP1_L",
	"v14.VP2_L", "v14.VP3_L", "v14.VP4_L", "v14.VP5_L", "v14.VP1m_L",
	"v14.VP1l_L", "v14.VP1d_L", "v14.VC5_L",
}

// volumeDetail is the server's mesh payload for one volume.
type volumeDetail struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Verts [][3]float64 `json:"vertices"`
	Faces [][3]int32   `json:"faces"`
}

// ListVolumes returns the volume catalog of the project.
func (c *Client) ListVolumes(ctx context.Context) ([]VolumeInfo, error) {
	var out []VolumeInfo
	if err := c.getJSON(ctx, "volumes/", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetVolumes downloads the named volumes as triangular meshes.
//
// Returns ErrEmptyNames on an empty list and ErrVolumeUnknown when a name
// is missing from the server catalog.
func (c *Client) GetVolumes(ctx context.Context, names []string) (volume.Set, error) {
	if len(names) == 0 {
		return nil, ErrEmptyNames
	}

	catalog, err := c.ListVolumes(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(catalog))
	for _, v := range catalog {
		byName[v.Name] = v.ID
	}

	set := make(volume.Set, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrVolumeUnknown, name)
		}
		var det volumeDetail
		if err = c.getJSON(ctx, fmt.Sprintf("volumes/%d/", id), nil, &det); err != nil {
			return nil, err
		}
		m := &volume.Mesh{Name: name, Verts: det.Verts, Faces: det.Faces}
		if err = m.Validate(); err != nil {
			return nil, fmt.Errorf("catmaid: volume %q: %w", name, err)
		}
		set[name] = m
	}

	return set, nil
}

// CoreNeuropilNames returns the fixed FAFB region name list without
// touching the server.
func CoreNeuropilNames() []string {
	out := make([]string, len(coreNeuropils))
	copy(out, coreNeuropils)

	return out
}

// CoreNeuropils downloads the core FAFB neuropil meshes.
func (c *Client) CoreNeuropils(ctx context.Context) (volume.Set, error) {
	return c.GetVolumes(ctx, coreNeuropils)
}

// Glomeruli downloads the antennal-lobe glomerulus meshes of one
// hemisphere, keyed by cleaned-up name (the "v14."/"FIB." prefix and the
// "_new" suffix stripped).
//
// Side FIB selects the FIB-SEM set of a local instance; Right, Left, and
// Both split the FAFB v14 set on the "_L" name suffix.
func (c *Client) Glomeruli(ctx context.Context, side Side) (volume.Set, error) {
	catalog, err := c.ListVolumes(ctx)
	if err != nil {
		return nil, err
	}

	var wanted []string
	if side == FIB {
		for _, v := range catalog {
			if strings.HasPrefix(v.Name, "FIB") && !strings.HasSuffix(v.Name, "neuropil") {
				wanted = append(wanted, v.Name)
			}
		}
	} else {
		wanted = filterFAFBGloms(catalog, side)
	}
	if len(wanted) == 0 {
		return nil, fmt.Errorf("%w: no glomeruli for side %s", ErrVolumeUnknown, side)
	}

	raw, err := c.GetVolumes(ctx, wanted)
	if err != nil {
		return nil, err
	}

	// Re-key by cleaned name.
	set := make(volume.Set, len(raw))
	for name, mesh := range raw {
		clean := cleanGlomName(name, side)
		mesh.Name = clean
		set[clean] = mesh
	}

	return set, nil
}

// filterFAFBGloms applies the v14 naming rules: keep "v14." volumes that
// are not optic-lobe or whole-neuropil meshes, drop superseded exact
// names, then split hemispheres on the "_L" suffix.
func filterFAFBGloms(catalog []VolumeInfo, side Side) []string {
	exact := make(map[string]struct{}, len(glomExcludeExact))
	for _, n := range glomExcludeExact {
		exact[n] = struct{}{}
	}

	var out []string
	for _, v := range catalog {
		if !strings.HasPrefix(v.Name, "v14") {
			continue
		}
		excluded := false
		for _, frag := range glomExcludeFragments {
			if strings.Contains(v.Name, frag) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if _, drop := exact[v.Name]; drop {
			continue
		}
		left := strings.HasSuffix(v.Name, "_L")
		if (side == Right && left) || (side == Left && !left) {
			continue
		}
		out = append(out, v.Name)
	}

	return out
}

// cleanGlomName strips server prefixes and the "_new" marker.
func cleanGlomName(name string, side Side) string {
	if side == FIB {
		return strings.TrimPrefix(name, "FIB.")
	}

	return strings.ReplaceAll(strings.TrimPrefix(name, "v14."), "_new", "")
}
