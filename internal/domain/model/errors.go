package model

import (
	"errors"
	"fmt"
)

// ErrorKind 球面ジオメトリパイプラインで発生しうるエラーの種別
type ErrorKind string

const (
	ErrKindCoordinateRange   ErrorKind = "coordinate_range"
	ErrKindProjection        ErrorKind = "projection"
	ErrKindInverseProjection ErrorKind = "inverse_projection"
	ErrKindFibonacci         ErrorKind = "fibonacci"
	ErrKindRotation          ErrorKind = "rotation"
	ErrKindEmptyPointSet     ErrorKind = "empty_point_set"
	ErrKindMeshGeneration    ErrorKind = "mesh_generation"
	ErrKindGridGeneration    ErrorKind = "grid_generation"
	ErrKindInvalidPolygon    ErrorKind = "invalid_polygon"
	ErrKindTriangulation     ErrorKind = "triangulation"
)

// GeoTilerError ジオメトリ処理のドメインエラー
// 全て呼び出し側に返却される（panicしない）。同じ入力に対して常に同じ結果になる
type GeoTilerError struct {
	Kind    ErrorKind
	Message string

	// coordinate_range の場合のみ設定される
	Longitude float64
	Latitude  float64
}

func (e *GeoTilerError) Error() string {
	switch e.Kind {
	case ErrKindCoordinateRange:
		return fmt.Sprintf(
			"input values outside of expected range. longitude: %v (must be between -180 and 180), latitude: %v (must be between -90 and 90)",
			e.Longitude, e.Latitude,
		)
	case ErrKindProjection:
		return "stereographic projection error: " + e.Message
	case ErrKindInverseProjection:
		return "inverse stereographic projection error: " + e.Message
	case ErrKindFibonacci:
		return "fibonacci sphere error: " + e.Message
	case ErrKindRotation:
		return "point rotation error: " + e.Message
	case ErrKindEmptyPointSet:
		return "empty point set error: " + e.Message
	case ErrKindMeshGeneration:
		return "mesh generation error: " + e.Message
	case ErrKindGridGeneration:
		return "grid generation error: " + e.Message
	case ErrKindInvalidPolygon:
		return "invalid polygon error: " + e.Message
	case ErrKindTriangulation:
		return "triangulation error: " + e.Message
	}
	return e.Message
}

// NewCoordinateRangeError 経緯度が許容範囲外
func NewCoordinateRangeError(longitude, latitude float64) *GeoTilerError {
	return &GeoTilerError{
		Kind:      ErrKindCoordinateRange,
		Longitude: longitude,
		Latitude:  latitude,
	}
}

// NewProjectionError ステレオ投影の特異点（北極）に関するエラー
func NewProjectionError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindProjection, Message: message}
}

// NewInverseProjectionError 逆ステレオ投影の入力が不正
func NewInverseProjectionError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindInverseProjection, Message: message}
}

// NewFibonacciError フィボナッチ球サンプリングのパラメータが不正
func NewFibonacciError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindFibonacci, Message: message}
}

// NewRotationError 回転が決定できない（重心がゼロベクトル等）
func NewRotationError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindRotation, Message: message}
}

// NewEmptyPointSetError 空の点集合に対する操作
func NewEmptyPointSetError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindEmptyPointSet, Message: message}
}

// NewMeshGenerationError メッシュ生成のパラメータが不正
func NewMeshGenerationError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindMeshGeneration, Message: message}
}

// NewGridGenerationError グリッド生成のパラメータが不正
func NewGridGenerationError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindGridGeneration, Message: message}
}

// NewInvalidPolygonError ポリゴンのジオメトリが不正
func NewInvalidPolygonError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindInvalidPolygon, Message: message}
}

// NewTriangulationError ドロネー三角形分割が完了できない
func NewTriangulationError(message string) *GeoTilerError {
	return &GeoTilerError{Kind: ErrKindTriangulation, Message: message}
}

// IsKind err が指定した種別の GeoTilerError かどうかを判定
func IsKind(err error, kind ErrorKind) bool {
	var gte *GeoTilerError
	return errors.As(err, &gte) && gte.Kind == kind
}
