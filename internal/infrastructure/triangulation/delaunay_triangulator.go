// Package triangulation 制約付き2Dドロネー三角形分割の実装
//
// ドロネー分割本体は github.com/fogleman/delaunay に任せ、その出力に対して
// Sloan方式の辺フリップで必須辺を復元し、制約ループの外側の三角形を
// 取り除くことで、ポリゴン境界をシルエットとするメッシュを得る
package triangulation

import (
	"fmt"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"

	"GeoTiler-App/internal/domain/model"
)

// DelaunayTriangulator service.Triangulator の実装
type DelaunayTriangulator struct{}

// NewDelaunayTriangulator 新しいDelaunayTriangulatorインスタンスを作成
func NewDelaunayTriangulator() *DelaunayTriangulator {
	return &DelaunayTriangulator{}
}

// Triangulate 2D点列を制約辺付きで三角形分割し、フラット化した
// 頂点インデックス列を返す
func (dt *DelaunayTriangulator) Triangulate(points []orb.Point, constraints []model.ConstraintEdge) ([]int, error) {
	if len(points) < 3 {
		return nil, model.NewTriangulationError(
			fmt.Sprintf("at least 3 points are required, found %d", len(points)))
	}

	for _, c := range constraints {
		if c.From < 0 || c.From >= len(points) || c.To < 0 || c.To >= len(points) {
			return nil, model.NewTriangulationError(
				fmt.Sprintf("constraint edge (%d, %d) references a point outside the input", c.From, c.To))
		}
	}

	dpoints := toDelaunayPoints(points)

	result, err := delaunay.Triangulate(dpoints)
	if err != nil {
		return nil, model.NewTriangulationError(fmt.Sprintf("failed to generate triangulation: %v", err))
	}

	if len(constraints) == 0 {
		return result.Triangles, nil
	}

	mesh := newTriangleMesh(dpoints, result.Triangles)

	for _, c := range constraints {
		if err := mesh.insertConstraint(c.From, c.To); err != nil {
			return nil, err
		}
	}

	mesh.removeOutside()

	return mesh.flatten(), nil
}

func toDelaunayPoints(points []orb.Point) []delaunay.Point {
	dpoints := make([]delaunay.Point, len(points))
	for i, p := range points {
		dpoints[i] = delaunay.Point{X: p[0], Y: p[1]}
	}
	return dpoints
}
