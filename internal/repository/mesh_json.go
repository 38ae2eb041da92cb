package repository

import (
	"GeoTiler-App/internal/domain/model"
)

// meshJSON 外部出力用のメッシュ表現
// 頂点は [x, y, z] の3要素配列、三角形はフラットなインデックス列
type meshJSON struct {
	Vertices  [][3]float64 `json:"vertices"`
	Triangles []int        `json:"triangles"`
}

// tileMeshDocument 1タイル分の出力ドキュメント
type tileMeshDocument struct {
	MinLongitude float64    `json:"min_longitude"`
	MinLatitude  float64    `json:"min_latitude"`
	MaxLongitude float64    `json:"max_longitude"`
	MaxLatitude  float64    `json:"max_latitude"`
	Meshes       []meshJSON `json:"meshes"`
}

func newTileMeshDocument(tile *model.Tile, meshes []*model.PolygonMeshData) tileMeshDocument {
	bound := tile.Bound()

	doc := tileMeshDocument{
		MinLongitude: bound.Min[0],
		MinLatitude:  bound.Min[1],
		MaxLongitude: bound.Max[0],
		MaxLatitude:  bound.Max[1],
		Meshes:       make([]meshJSON, 0, len(meshes)),
	}

	for _, mesh := range meshes {
		vertices := make([][3]float64, 0, len(mesh.Vertices))
		for _, v := range mesh.Vertices {
			vertices = append(vertices, [3]float64{v.X, v.Y, v.Z})
		}
		doc.Meshes = append(doc.Meshes, meshJSON{
			Vertices:  vertices,
			Triangles: mesh.Triangles,
		})
	}

	return doc
}
