package service

import (
	"math"

	"github.com/paulmach/orb"

	"GeoTiler-App/internal/domain/model"
)

// FibonacciService 黄金角スパイラルによる単位球面上の準一様な点配置を生成する
type FibonacciService interface {
	// SampleSphere n個の点を生成する。結果はラジアンの (経度, 緯度) 列で、
	// 経度は (-π, π]、緯度は [-π/2, π/2]。同じnは常に同じ点列を返す（決定的）
	SampleSphere(n int) ([]orb.Point, error)
}

type fibonacciServiceImpl struct{}

// NewFibonacciService 新しいFibonacciServiceインスタンスを作成
func NewFibonacciService() FibonacciService {
	return &fibonacciServiceImpl{}
}

func (s *fibonacciServiceImpl) SampleSphere(n int) ([]orb.Point, error) {
	if n <= 0 {
		return nil, model.NewFibonacciError("cannot generate zero points in fibonacci sphere")
	}

	// 黄金角 φ = π(√5 - 1)
	phi := math.Pi * (math.Sqrt(5.0) - 1.0)

	denominator := 1.0
	if n > 1 {
		denominator = float64(n - 1)
	}

	points := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		// yを1から-1へ線形に掃引し、緯度はasinで求める
		y := 1.0 - (float64(i)/denominator)*2.0
		theta := phi * float64(i)

		// thetaを (-π, π] に折り返す
		longitude := math.Mod(theta, 2.0*math.Pi)
		if longitude > math.Pi {
			longitude -= 2.0 * math.Pi
		}

		points = append(points, orb.Point{longitude, math.Asin(y)})
	}

	return points, nil
}
