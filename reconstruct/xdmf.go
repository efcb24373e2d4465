package reconstruct

import (
	"encoding/xml"
	"os"
	"strconv"

	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// xdmfGrid is the boundary of the diagnostic XDMF+HDF5 output
// collaborator: the heavy-data HDF5 storage and the full XDMF3 grid
// schema belong to an external writer this engine only hands data to.
// This type only models the thin XML topology/geometry envelope the
// engine can produce, mainly so WriteXDMF has something concrete to
// emit for smoke tests without a real HDF5 dependency.
type xdmfGrid struct {
	XMLName  xml.Name      `xml:"Grid"`
	Topology xdmfTopology  `xml:"Topology"`
	Geometry xdmfGeometry  `xml:"Geometry"`
	Attrs    []xdmfAttribute `xml:"Attribute,omitempty"`
}

type xdmfTopology struct {
	Type         string `xml:"TopologyType,attr"`
	NumberOfCells int   `xml:"NumberOfElements,attr"`
}

type xdmfGeometry struct {
	Type   string `xml:"GeometryType,attr"`
	Points string `xml:",chardata"`
}

type xdmfAttribute struct {
	Name   string `xml:"Name,attr"`
	Center string `xml:"Center,attr"`
	Values string `xml:",chardata"`
}

// WriteXDMF writes the boundary cell topology and boundary vertex
// geometry (and, optionally, the per-vertex f attribute) to path.
// Scalar attributes beyond f are left to the out-of-scope writer.
func (e *Engine) WriteXDMF(path string, includeF bool) *errs.Error {
	grid := xdmfGrid{
		Topology: xdmfTopology{Type: "Polyvertex", NumberOfCells: len(e.boundaryCells)},
		Geometry: xdmfGeometry{Type: "XYZ", Points: formatPoints(e.boundaryVertices)},
	}
	if includeF {
		grid.Attrs = append(grid.Attrs, xdmfAttribute{
			Name: "f", Center: "Node", Values: formatBoundaryF(e),
		})
	}

	out, err := xml.MarshalIndent(grid, "", "  ")
	if err != nil {
		return errs.Wrap("reconstruct.Engine.WriteXDMF", errs.KindIO, "failed to marshal XDMF document",
			errs.New("encoding/xml", errs.KindIO, err.Error()))
	}
	if werr := os.WriteFile(path, out, 0o644); werr != nil {
		return errs.Wrap("reconstruct.Engine.WriteXDMF", errs.KindIO, "failed to write XDMF file",
			errs.New("os", errs.KindIO, werr.Error()))
	}
	return nil
}

func formatPoints(verts []v3.Vec) string {
	var b []byte
	for _, v := range verts {
		b = appendFloat(b, v.X)
		b = append(b, ' ')
		b = appendFloat(b, v.Y)
		b = append(b, ' ')
		b = appendFloat(b, v.Z)
		b = append(b, ' ')
	}
	return string(b)
}

func formatBoundaryF(e *Engine) string {
	var b []byte
	for _, cell := range e.boundaryCells {
		i, j, k := e.grid.CellCoord(cell)
		idx := e.grid.CellNodeIndices(i, j, k)
		b = appendFloat(b, e.f[idx[0]])
		b = append(b, ' ')
	}
	return string(b)
}

func appendFloat(b []byte, v float64) []byte {
	return strconv.AppendFloat(b, v, 'g', -1, 64)
}
