package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"GeoTiler-App/internal/domain/model"
)

func testTile() *model.Tile {
	return &model.Tile{
		Bounds: orb.Polygon{orb.Ring{
			{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
		}},
	}
}

func testMeshes() []*model.PolygonMeshData {
	return []*model.PolygonMeshData{
		{
			Vertices: []r3.Vec{
				{X: 1, Y: 0, Z: 0},
				{X: 0, Y: 1, Z: 0},
				{X: 0, Y: 0, Z: 1},
			},
			Triangles: []int{0, 1, 2},
		},
	}
}

func TestFileMeshRepository_SaveTileMesh(t *testing.T) {
	t.Run("タイル境界から組み立てたファイル名で保存される", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewFileMeshRepository(dir)

		err := repo.SaveTileMesh(context.Background(), testTile(), testMeshes())
		require.NoError(t, err)

		path := filepath.Join(dir, "tile_0_0_10_10.json")
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc tileMeshDocument
		require.NoError(t, json.Unmarshal(data, &doc))

		assert.Equal(t, 0.0, doc.MinLongitude)
		assert.Equal(t, 0.0, doc.MinLatitude)
		assert.Equal(t, 10.0, doc.MaxLongitude)
		assert.Equal(t, 10.0, doc.MaxLatitude)
		require.Len(t, doc.Meshes, 1)
		assert.Equal(t, [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, doc.Meshes[0].Vertices)
		assert.Equal(t, []int{0, 1, 2}, doc.Meshes[0].Triangles)
	})

	t.Run("出力ディレクトリが無ければ作成される", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "meshes")
		repo := NewFileMeshRepository(dir)

		err := repo.SaveTileMesh(context.Background(), testTile(), testMeshes())
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("メッシュが空でもドキュメントは書き出される", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewFileMeshRepository(dir)

		err := repo.SaveTileMesh(context.Background(), testTile(), nil)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "tile_0_0_10_10.json"))
		require.NoError(t, err)

		var doc tileMeshDocument
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Empty(t, doc.Meshes)
	})
}
