package service

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/infrastructure/triangulation"
)

func newTestMeshGenerator(pointCount int) MeshGeneratorService {
	return NewMeshGeneratorServiceWithPointCount(
		NewProjectionService(),
		NewRotationService(),
		NewFibonacciService(),
		triangulation.NewDelaunayTriangulator(),
		pointCount,
	)
}

func TestMeshGeneratorService_CollectMeshPoints(t *testing.T) {
	t.Run("境界点と内部サンプルを含む単位球上の点を返す", func(t *testing.T) {
		s := newTestMeshGenerator(2000)
		polygon := squarePolygon(0, 0, 10, 10)

		points, err := s.CollectMeshPoints(polygon)
		require.NoError(t, err)

		// 閉じた5点リングから重複終端を除いた4点が先頭に並ぶ
		require.GreaterOrEqual(t, len(points), 4)
		for i, v := range points {
			norm := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
			assert.InDelta(t, 1.0, norm, 1e-12, "point %d", i)
		}
	})

	t.Run("広いポリゴンには内部サンプルが入る", func(t *testing.T) {
		s := newTestMeshGenerator(5000)
		polygon := squarePolygon(-30, -30, 30, 30)

		points, err := s.CollectMeshPoints(polygon)
		require.NoError(t, err)
		assert.Greater(t, len(points), 4, "境界点のみでは不足")
	})

	t.Run("空のポリゴンはエラー", func(t *testing.T) {
		s := newTestMeshGenerator(100)

		_, err := s.CollectMeshPoints(orb.Polygon{})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindEmptyPointSet))

		_, err = s.CollectMeshPoints(orb.Polygon{orb.Ring{}})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindEmptyPointSet))
	})

	t.Run("相異なる点が3点未満のリングはエラー", func(t *testing.T) {
		s := newTestMeshGenerator(100)
		polygon := orb.Polygon{orb.Ring{{0, 0}, {1, 1}, {0, 0}}}

		_, err := s.CollectMeshPoints(polygon)
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindMeshGeneration))
	})
}

func TestMeshGeneratorService_GenerateMesh(t *testing.T) {
	t.Run("正方形ポリゴンから有効なメッシュを生成", func(t *testing.T) {
		s := newTestMeshGenerator(2000)
		polygon := squarePolygon(0, 0, 10, 10)

		mesh, err := s.GenerateMesh(polygon)
		require.NoError(t, err)
		require.NotNil(t, mesh)

		assert.NotEmpty(t, mesh.Triangles)
		assert.Zero(t, len(mesh.Triangles)%3, "三角形は頂点3つ単位")

		for _, idx := range mesh.Triangles {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, len(mesh.Vertices))
		}

		// 頂点は回転前の元の位置（単位球上）のまま返る
		for i, v := range mesh.Vertices {
			norm := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
			assert.InDelta(t, 1.0, norm, 1e-12, "vertex %d", i)
		}
	})

	t.Run("メッシュのシルエットは境界ループと一致", func(t *testing.T) {
		s := newTestMeshGenerator(2000)
		polygon := squarePolygon(0, 0, 10, 10)

		mesh, err := s.GenerateMesh(polygon)
		require.NoError(t, err)

		// 1つの三角形にしか属さない辺がシルエット
		edgeCount := map[[2]int]int{}
		for i := 0; i < len(mesh.Triangles); i += 3 {
			tri := mesh.Triangles[i : i+3]
			for j := 0; j < 3; j++ {
				a, b := tri[j], tri[(j+1)%3]
				if a > b {
					a, b = b, a
				}
				edgeCount[[2]int{a, b}]++
			}
		}

		silhouette := map[[2]int]bool{}
		for e, n := range edgeCount {
			if n == 1 {
				silhouette[e] = true
			}
		}

		// 境界リング4点はインデックス0..3
		expected := map[[2]int]bool{
			{0, 1}: true,
			{1, 2}: true,
			{2, 3}: true,
			{0, 3}: true,
		}
		assert.Equal(t, expected, silhouette)
	})

	t.Run("空のポリゴンはエラー", func(t *testing.T) {
		s := newTestMeshGenerator(100)

		_, err := s.GenerateMesh(orb.Polygon{})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindEmptyPointSet))
	})

	t.Run("退化したリングはエラー", func(t *testing.T) {
		s := newTestMeshGenerator(100)
		polygon := orb.Polygon{orb.Ring{{0, 0}, {5, 5}, {0, 0}}}

		_, err := s.GenerateMesh(polygon)
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindMeshGeneration))
	})
}
