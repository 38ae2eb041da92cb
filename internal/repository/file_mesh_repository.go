package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/domain/repository"
)

// FileMeshRepository タイルごとに1つのJSONファイルへメッシュを書き出すリポジトリ
// ファイル名はタイルの4隅の座標から組み立てる
type FileMeshRepository struct {
	outputDir string
}

// NewFileMeshRepository 新しいFileMeshRepositoryインスタンスを作成
func NewFileMeshRepository(outputDir string) repository.MeshRepository {
	return &FileMeshRepository{outputDir: outputDir}
}

// SaveTileMesh 1タイル分のメッシュ群をJSONファイルに保存する
func (r *FileMeshRepository) SaveTileMesh(ctx context.Context, tile *model.Tile, meshes []*model.PolygonMeshData) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗: %w", err)
	}

	doc := newTileMeshDocument(tile, meshes)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("メッシュのJSON変換に失敗: %w", err)
	}

	filename := fmt.Sprintf("tile_%g_%g_%g_%g.json",
		doc.MinLongitude, doc.MinLatitude, doc.MaxLongitude, doc.MaxLatitude)

	if err := os.WriteFile(filepath.Join(r.outputDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("メッシュファイルの書き込みに失敗: %w", err)
	}

	return nil
}
