package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoTiler-App/internal/domain/model"
)

func TestFibonacciService_SampleSphere(t *testing.T) {
	s := NewFibonacciService()

	t.Run("0点はエラー", func(t *testing.T) {
		_, err := s.SampleSphere(0)
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrKindFibonacci))
	})

	t.Run("指定した数の点が生成される", func(t *testing.T) {
		points, err := s.SampleSphere(100)
		require.NoError(t, err)
		assert.Len(t, points, 100)
	})

	t.Run("1点でも生成できる", func(t *testing.T) {
		points, err := s.SampleSphere(1)
		require.NoError(t, err)
		require.Len(t, points, 1)
		// i=0 は y=1、つまり緯度 π/2
		assert.InDelta(t, math.Pi/2, points[0][1], 1e-12)
	})

	t.Run("経緯度が有効な範囲に収まる", func(t *testing.T) {
		points, err := s.SampleSphere(500)
		require.NoError(t, err)

		for _, p := range points {
			assert.Greater(t, p[0], -math.Pi)
			assert.LessOrEqual(t, p[0], math.Pi)
			assert.GreaterOrEqual(t, p[1], -math.Pi/2)
			assert.LessOrEqual(t, p[1], math.Pi/2)
		}
	})

	t.Run("同じnは常に同じ点列を返す", func(t *testing.T) {
		first, err := s.SampleSphere(300)
		require.NoError(t, err)
		second, err := s.SampleSphere(300)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("緯度は1から-1への線形掃引", func(t *testing.T) {
		points, err := s.SampleSphere(3)
		require.NoError(t, err)
		require.Len(t, points, 3)
		assert.InDelta(t, math.Pi/2, points[0][1], 1e-12)
		assert.InDelta(t, 0.0, points[1][1], 1e-12)
		assert.InDelta(t, -math.Pi/2, points[2][1], 1e-12)
	})
}
