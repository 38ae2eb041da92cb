package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoTiler-App/internal/domain/model"
)

func TestTileGridService_GenerateGrid(t *testing.T) {
	s := NewTileGridService()

	t.Run("タイル数は(360/step)×(180/step)", func(t *testing.T) {
		cases := []struct {
			step     int
			expected int
		}{
			{10, 648},
			{90, 8},
			{180, 2},
			{45, 32},
			{1, 64800},
		}
		for _, c := range cases {
			grid, err := s.GenerateGrid(c.step)
			require.NoError(t, err, "step=%d", c.step)
			assert.Len(t, grid, c.expected, "step=%d", c.step)
		}
	})

	t.Run("各タイルは空の断片リストを持つ", func(t *testing.T) {
		grid, err := s.GenerateGrid(30)
		require.NoError(t, err)

		for _, tile := range grid {
			require.Len(t, tile.Bounds, 1)
			assert.Len(t, tile.Bounds[0], 5) // 閉じた矩形リング
			assert.Empty(t, tile.Fragments)
		}
	})

	t.Run("タイルの寸法はstepに一致する", func(t *testing.T) {
		grid, err := s.GenerateGrid(20)
		require.NoError(t, err)

		for _, tile := range grid {
			bound := tile.Bound()
			assert.InDelta(t, 20.0, bound.Max[0]-bound.Min[0], 1e-12)
			assert.InDelta(t, 20.0, bound.Max[1]-bound.Min[1], 1e-12)
		}
	})

	t.Run("タイルは全体を重複なく覆う", func(t *testing.T) {
		grid, err := s.GenerateGrid(60)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for _, tile := range grid {
			bound := tile.Bound()
			assert.GreaterOrEqual(t, bound.Min[0], -180.0)
			assert.LessOrEqual(t, bound.Max[0], 180.0)
			assert.GreaterOrEqual(t, bound.Min[1], -90.0)
			assert.LessOrEqual(t, bound.Max[1], 90.0)

			key := fmt.Sprintf("%v,%v", bound.Min[0], bound.Min[1])
			assert.False(t, seen[key], "タイルの左下が重複: %s", key)
			seen[key] = true
		}
		assert.Len(t, seen, 18)
	})

	t.Run("不正なstepはグリッド設定エラー", func(t *testing.T) {
		for _, step := range []int{0, 181, 7, -10, 360} {
			_, err := s.GenerateGrid(step)
			require.Error(t, err, "step=%d", step)
			assert.True(t, model.IsKind(err, model.ErrKindGridGeneration), "step=%d", step)
		}
	})
}
