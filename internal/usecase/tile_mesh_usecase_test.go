package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/domain/service"
	"GeoTiler-App/internal/infrastructure/triangulation"
)

// recordingMeshRepository 保存呼び出しを記録するテスト用リポジトリ
type recordingMeshRepository struct {
	saved []struct {
		tile   *model.Tile
		meshes []*model.PolygonMeshData
	}
}

func (r *recordingMeshRepository) SaveTileMesh(ctx context.Context, tile *model.Tile, meshes []*model.PolygonMeshData) error {
	r.saved = append(r.saved, struct {
		tile   *model.Tile
		meshes []*model.PolygonMeshData
	}{tile: tile, meshes: meshes})
	return nil
}

func newTestUseCase(repo *recordingMeshRepository) TileMeshUseCase {
	return NewTileMeshUseCase(
		service.NewTileGridService(),
		service.NewProjectionService(),
		service.NewRotationService(),
		service.NewFibonacciService(),
		triangulation.NewDelaunayTriangulator(),
		repo,
	)
}

func testPolygon() orb.Polygon {
	return orb.Polygon{orb.Ring{
		{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5},
	}}
}

func TestTileMeshUseCase_GenerateTileMeshes(t *testing.T) {
	baseRequest := func() *model.TileMeshGenerateRequest {
		return &model.TileMeshGenerateRequest{
			Feature:              json.RawMessage(`{}`),
			StepDegrees:          90,
			MaxEdgeLengthDegrees: 5,
			FibonacciPointCount:  2000,
		}
	}

	t.Run("グリッド生成からメッシュ生成までを実行する", func(t *testing.T) {
		uc := newTestUseCase(nil)

		resp, err := uc.GenerateTileMeshes(context.Background(), baseRequest(), testPolygon())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.JobID)
		assert.Equal(t, 8, resp.TileCount)
		assert.Equal(t, 1, resp.ClippedTileCount)
		assert.Equal(t, 1, resp.MeshCount)
		assert.Zero(t, resp.SkippedFragments)
		require.Len(t, resp.Tiles, 1)

		summary := resp.Tiles[0]
		assert.Equal(t, 1, summary.FragmentCount)
		assert.Equal(t, 1, summary.MeshCount)
		assert.Positive(t, summary.VertexCount)
		assert.Positive(t, summary.TriangleCount)
		assert.Equal(t, 0.0, summary.MinLongitude)
		assert.Equal(t, 0.0, summary.MinLatitude)
		assert.Equal(t, 90.0, summary.MaxLongitude)
		assert.Equal(t, 90.0, summary.MaxLatitude)
	})

	t.Run("Persist指定時はリポジトリに保存される", func(t *testing.T) {
		repo := &recordingMeshRepository{}
		uc := newTestUseCase(repo)

		req := baseRequest()
		req.Persist = true

		resp, err := uc.GenerateTileMeshes(context.Background(), req, testPolygon())
		require.NoError(t, err)

		require.Len(t, repo.saved, 1)
		assert.Equal(t, resp.MeshCount, len(repo.saved[0].meshes))
	})

	t.Run("Persist未指定ではリポジトリが呼ばれない", func(t *testing.T) {
		repo := &recordingMeshRepository{}
		uc := newTestUseCase(repo)

		_, err := uc.GenerateTileMeshes(context.Background(), baseRequest(), testPolygon())
		require.NoError(t, err)

		assert.Empty(t, repo.saved)
	})

	t.Run("不正なステップ幅はエラー", func(t *testing.T) {
		uc := newTestUseCase(nil)

		req := baseRequest()
		req.StepDegrees = 7

		_, err := uc.GenerateTileMeshes(context.Background(), req, testPolygon())
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindGridGeneration))
	})

	t.Run("交差しないポリゴンでもエラーにならない", func(t *testing.T) {
		uc := newTestUseCase(nil)

		polygon := orb.Polygon{orb.Ring{
			{200, 5}, {210, 5}, {210, 15}, {200, 15}, {200, 5},
		}}

		resp, err := uc.GenerateTileMeshes(context.Background(), baseRequest(), polygon)
		require.NoError(t, err)
		assert.Zero(t, resp.ClippedTileCount)
		assert.Zero(t, resp.MeshCount)
	})
}
