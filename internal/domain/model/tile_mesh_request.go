package model

import "encoding/json"

// TileMeshGenerateRequest POST /meshes/generate のリクエストボディ
type TileMeshGenerateRequest struct {
	// GeoJSON Polygon Feature（経緯度は十進度）
	Feature json.RawMessage `json:"feature"`

	// タイルグリッドのステップ幅（度）。360と180を割り切る必要がある
	StepDegrees int `json:"step_degrees"`

	// クリップ後の辺の最大長（度）。省略時は 0.5
	MaxEdgeLengthDegrees float64 `json:"max_edge_length_degrees,omitempty"`

	// フィボナッチ球のサンプル数。省略時は 3000
	FibonacciPointCount int `json:"fibonacci_point_count,omitempty"`

	// true の場合、生成したメッシュをリポジトリに保存する
	Persist bool `json:"persist,omitempty"`
}

// TileMeshSummary 1タイル分の生成結果サマリー
type TileMeshSummary struct {
	TileIndex     int     `json:"tile_index"`
	MinLongitude  float64 `json:"min_longitude"`
	MinLatitude   float64 `json:"min_latitude"`
	MaxLongitude  float64 `json:"max_longitude"`
	MaxLatitude   float64 `json:"max_latitude"`
	FragmentCount int     `json:"fragment_count"`
	MeshCount     int     `json:"mesh_count"`
	VertexCount   int     `json:"vertex_count"`
	TriangleCount int     `json:"triangle_count"`
}

// TileMeshGenerateResponse POST /meshes/generate のレスポンス
type TileMeshGenerateResponse struct {
	JobID            string            `json:"job_id"`
	StepDegrees      int               `json:"step_degrees"`
	TileCount        int               `json:"tile_count"`
	ClippedTileCount int               `json:"clipped_tile_count"`
	MeshCount        int               `json:"mesh_count"`
	SkippedFragments int               `json:"skipped_fragments"`
	Tiles            []TileMeshSummary `json:"tiles"`
}
