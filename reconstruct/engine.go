package reconstruct

import (
	"github.com/lanl/tardigrade-overlap-coupling-sub002/config"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/errs"
	"github.com/lanl/tardigrade-overlap-coupling-sub002/kdtree"
	v3 "github.com/lanl/tardigrade-overlap-coupling-sub002/vec/v3"
)

// Engine is the dual-contouring volume-reconstruction engine. It
// exclusively owns its grid, implicit function, and boundary data;
// all of it is released when the Engine is dropped.
type Engine struct {
	cfg config.Config

	cloud         []v3.Vec
	pointFunction []float64
	tree          *kdtree.Tree

	grid    Grid
	f       []float64
	classes []CellClass
	rbar    float64

	localElement *LocalElement

	boundaryCells    []int
	boundaryVertices []v3.Vec
}

// New builds an engine from a validated configuration.
func New(cfg config.Config) (*Engine, *errs.Error) {
	if verr := cfg.Validate(); verr != nil {
		return nil, verr
	}
	return &Engine{cfg: cfg}, nil
}

// SetLocalElement attaches an optional macro-element hull that clips
// the reconstruction.
func (e *Engine) SetLocalElement(elem *LocalElement) {
	e.localElement = elem
}

// Evaluate runs the full reconstruction pipeline over a point cloud
// and an optional per-point function array (nil means "1 everywhere").
func (e *Engine) Evaluate(points []v3.Vec, pointFunction []float64) *errs.Error {
	if len(points) == 0 {
		return errs.New("reconstruct.Engine.Evaluate", errs.KindShapeMismatch, "point cloud is empty")
	}
	if pointFunction != nil && len(pointFunction) != len(points) {
		return errs.New("reconstruct.Engine.Evaluate", errs.KindShapeMismatch, "pointFunction length does not match point cloud length")
	}

	e.cloud = points
	e.pointFunction = pointFunction
	e.tree = kdtree.Build(points)
	e.grid = gridFromConfig(points, e.cfg)
	e.rbar = medianNeighbourDistance(e.tree, e.cfg.MinApproximationCount)
	e.f = implicitFunction(e.grid, e.tree, pointFunction, e.rbar, e.cfg.IsosurfaceCutoff, e.cfg.AbsoluteTolerance)

	if err := e.classifyAndSolve(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) classifyAndSolve() *errs.Error {
	nCells := e.grid.CellCount()
	e.classes = make([]CellClass, nCells)
	e.boundaryCells = e.boundaryCells[:0]
	e.boundaryVertices = e.boundaryVertices[:0]

	tau := e.cfg.IsosurfaceCutoff
	for cell := 0; cell < nCells; cell++ {
		i, j, k := e.grid.CellCoord(cell)
		nodeIdx := e.grid.CellNodeIndices(i, j, k)
		var corners [8]float64
		for n, idx := range nodeIdx {
			corners[n] = e.f[idx]
		}
		class := classifyCell(corners, tau)
		e.classes[cell] = class
		if class != Boundary {
			continue
		}

		coords := e.grid.CellNodeCoords(i, j, k)
		edges := activeEdges(corners, tau)
		if len(edges) == 0 {
			continue
		}
		points := make([]qefPoint, 0, len(edges))
		for _, ei := range edges {
			edge := hexEdges[ei]
			crossing := crossingPoint(coords[edge[0]], coords[edge[1]], corners[edge[0]], corners[edge[1]], tau)
			normal := edgeNormal(e.grid, e.f, i, j, k, ei, crossing, e.cfg.UseMaterialPointsForNormals, e.tree, e.cfg.MinApproximationCount)
			points = append(points, qefPoint{Normal: normal, Position: crossing})
		}
		box := e.grid.CellAABB(i, j, k)
		v, err := solveQEF(points, box, e.cfg.AbsoluteTolerance, e.cfg.AbsoluteTolerance)
		if err != nil {
			return errs.Wrap("reconstruct.Engine.classifyAndSolve", errs.KindNumerical, "failed to place boundary vertex for a cell", err)
		}

		if len(e.cfg.BoundingPlanes) > 0 {
			v = clipToPlanes(v, e.cfg.BoundingPlanes)
		}
		if !clipToElement(v, e.localElement) {
			continue
		}

		e.boundaryCells = append(e.boundaryCells, cell)
		e.boundaryVertices = append(e.boundaryVertices, v)
	}
	return nil
}

// BoundaryCellIDs returns the lexicographic cell indices of the
// reconstructed boundary.
func (e *Engine) BoundaryCellIDs() []int {
	return e.boundaryCells
}

// BoundaryVertices returns the one-vertex-per-boundary-cell surface
// approximation.
func (e *Engine) BoundaryVertices() []v3.Vec {
	return e.boundaryVertices
}

// Grid exposes the background grid, mainly for integration and tests.
func (e *Engine) Grid() Grid {
	return e.grid
}

// ImplicitFunction exposes the per-node f values.
func (e *Engine) ImplicitFunction() []float64 {
	return e.f
}

// CellClassification exposes the per-cell classification.
func (e *Engine) CellClassification() []CellClass {
	return e.classes
}

// MedianNeighbourDistance exposes r-bar, the scale statistic computed
// during Evaluate.
func (e *Engine) MedianNeighbourDistance() float64 {
	return e.rbar
}

// ExportConfiguration reflects the engine's active settings back to a
// YAML document.
func (e *Engine) ExportConfiguration() ([]byte, *errs.Error) {
	return e.cfg.Export()
}
