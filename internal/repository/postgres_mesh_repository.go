package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/domain/repository"
	"GeoTiler-App/internal/infrastructure/database"
)

// PostgresMeshRepository タイルメッシュをPostgreSQLに保存するリポジトリ
//
// 想定スキーマ:
//
//	CREATE TABLE tile_meshes (
//	    id UUID PRIMARY KEY,
//	    min_longitude DOUBLE PRECISION NOT NULL,
//	    min_latitude DOUBLE PRECISION NOT NULL,
//	    max_longitude DOUBLE PRECISION NOT NULL,
//	    max_latitude DOUBLE PRECISION NOT NULL,
//	    meshes JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresMeshRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresMeshRepository 新しいPostgresMeshRepositoryインスタンスを作成
func NewPostgresMeshRepository(client *database.PostgreSQLClient) repository.MeshRepository {
	return &PostgresMeshRepository{client: client}
}

// SaveTileMesh 1タイル分のメッシュ群を1行として挿入する
func (r *PostgresMeshRepository) SaveTileMesh(ctx context.Context, tile *model.Tile, meshes []*model.PolygonMeshData) error {
	doc := newTileMeshDocument(tile, meshes)

	payload, err := json.Marshal(doc.Meshes)
	if err != nil {
		return fmt.Errorf("メッシュのJSON変換に失敗: %w", err)
	}

	query := `
		INSERT INTO tile_meshes (id, min_longitude, min_latitude, max_longitude, max_latitude, meshes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.client.DB.ExecContext(ctx, query,
		uuid.New().String(),
		doc.MinLongitude, doc.MinLatitude, doc.MaxLongitude, doc.MaxLatitude,
		payload,
	)
	if err != nil {
		return fmt.Errorf("タイルメッシュの挿入に失敗: %w", err)
	}

	return nil
}
