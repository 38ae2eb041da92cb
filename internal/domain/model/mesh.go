package model

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// PolygonMeshData 球面上に三角形分割されたポリゴンメッシュ
// Vertices は単位球上の3D頂点列、Triangles は頂点インデックスを
// [i1, i2, i3, j1, j2, j3, ...] の形にフラット化したもの。
// 全てのインデックスは len(Vertices) 未満で、長さは3の倍数になる
type PolygonMeshData struct {
	Vertices  []r3.Vec `json:"vertices"`
	Triangles []int    `json:"triangles"`
}

// ConstraintEdge 三角形分割で必ず保持させる辺（頂点インデックスの組）
// 境界リングをメッシュのシルエットとして強制するために使う
type ConstraintEdge struct {
	From int
	To   int
}
