package service

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"GeoTiler-App/internal/domain/model"
)

// 回転軸が定義できないとみなす外積ノルムの下限
const rotationAxisEpsilon = 1e-12

var southPole = r3.Vec{X: 0, Y: 0, Z: -1}

// RotationService 点集合の重心方向を南極に合わせる剛体回転を行う
//
// ステレオ投影の特異点（北極）から注目領域を遠ざけることで、
// 地理的に局所的な入力に対する投影歪みを抑える
type RotationService interface {
	// RotateToSouthPole 点集合全体に同一の最小回転を適用し、
	// 重心方向が (0,0,-1) を向くようにする。各点の原点からの距離は保存される
	RotateToSouthPole(points []r3.Vec) ([]r3.Vec, error)
}

type rotationServiceImpl struct{}

// NewRotationService 新しいRotationServiceインスタンスを作成
func NewRotationService() RotationService {
	return &rotationServiceImpl{}
}

func (s *rotationServiceImpl) RotateToSouthPole(points []r3.Vec) ([]r3.Vec, error) {
	if len(points) == 0 {
		return nil, model.NewEmptyPointSetError("cannot rotate an empty set of points")
	}

	// 成分ごとの算術平均（球面平均ではない）
	var center r3.Vec
	for _, p := range points {
		center = r3.Add(center, p)
	}
	center = r3.Scale(1.0/float64(len(points)), center)

	// 点が球面全体に均等に分布していると重心が潰れて方向が定まらない
	if r3.Norm(center) < machineEpsilon {
		return nil, model.NewRotationError("points centroid is effectively zero; cannot determine rotation direction")
	}
	center = r3.Unit(center)

	rotation, err := rotationBetween(center, southPole)
	if err != nil {
		return nil, err
	}

	rotated := make([]r3.Vec, 0, len(points))
	for _, p := range points {
		rotated = append(rotated, rotation.Rotate(p))
	}

	return rotated, nil
}

// rotationBetween from を to に写す最小回転を求める
// 2つの単位ベクトルが反平行の場合は回転軸が一意に定まらないためエラー
func rotationBetween(from, to r3.Vec) (r3.Rotation, error) {
	axis := r3.Cross(from, to)
	norm := r3.Norm(axis)
	dot := r3.Dot(from, to)

	if norm < rotationAxisEpsilon {
		if dot > 0 {
			// 既に一致している場合は恒等回転
			return r3.NewRotation(0, r3.Vec{X: 1}), nil
		}
		return r3.Rotation{}, model.NewRotationError("failed to compute rotation between points centroid and south pole")
	}

	return r3.NewRotation(math.Atan2(norm, dot), axis), nil
}
