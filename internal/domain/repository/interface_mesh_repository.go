package repository

import (
	"context"

	"GeoTiler-App/internal/domain/model"
)

// MeshRepository 生成済みタイルメッシュの永続化インターフェース
type MeshRepository interface {
	// SaveTileMesh 1タイル分のメッシュ群を保存する
	SaveTileMesh(ctx context.Context, tile *model.Tile, meshes []*model.PolygonMeshData) error
}
