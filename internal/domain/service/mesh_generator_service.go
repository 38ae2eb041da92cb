package service

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r3"

	"GeoTiler-App/internal/domain/model"
)

// DefaultFibonacciPointCount ポリゴン内部を埋めるフィボナッチ球のサンプル数
const DefaultFibonacciPointCount = 3000

// Triangulator 制約付き2Dドロネー三角形分割の外部プリミティブ
// 成熟した2D計算幾何ライブラリであればこの契約を満たせる
type Triangulator interface {
	// Triangulate 2D点列と必須辺を受け取り、フラット化した三角形の
	// 頂点インデックス列を返す。分割が構成できない場合は三角形分割エラー
	Triangulate(points []orb.Point, constraints []model.ConstraintEdge) ([]int, error)
}

// MeshGeneratorService 地理ポリゴン1つを球面上の三角形メッシュへ変換する
//
// 球面上で直接ドロネー分割を行うのは数値的にも計算量的にも難しいため、
// 重心を南極に回転させてからステレオ投影し、平面上で制約付き分割を行う
type MeshGeneratorService interface {
	// CollectMeshPoints 境界点とポリゴン内部のフィボナッチ点を集めて
	// 単位球上の直交座標へ変換する。境界点が先頭、元の順序を保つ
	CollectMeshPoints(polygon orb.Polygon) ([]r3.Vec, error)

	// GenerateMesh ポリゴンから三角形メッシュを生成する。
	// 返るメッシュの頂点は回転前の直交座標であり、外周シルエットは
	// 入力境界リングと厳密に一致する（境界頂点の移動・統合・欠落なし）
	GenerateMesh(polygon orb.Polygon) (*model.PolygonMeshData, error)
}

type meshGeneratorServiceImpl struct {
	projection   ProjectionService
	rotation     RotationService
	fibonacci    FibonacciService
	triangulator Triangulator
	pointCount   int
}

// NewMeshGeneratorService 新しいMeshGeneratorServiceインスタンスを作成
func NewMeshGeneratorService(
	projection ProjectionService,
	rotation RotationService,
	fibonacci FibonacciService,
	triangulator Triangulator,
) MeshGeneratorService {
	return NewMeshGeneratorServiceWithPointCount(
		projection, rotation, fibonacci, triangulator, DefaultFibonacciPointCount)
}

// NewMeshGeneratorServiceWithPointCount サンプル数を指定して作成
func NewMeshGeneratorServiceWithPointCount(
	projection ProjectionService,
	rotation RotationService,
	fibonacci FibonacciService,
	triangulator Triangulator,
	pointCount int,
) MeshGeneratorService {
	return &meshGeneratorServiceImpl{
		projection:   projection,
		rotation:     rotation,
		fibonacci:    fibonacci,
		triangulator: triangulator,
		pointCount:   pointCount,
	}
}

func (s *meshGeneratorServiceImpl) CollectMeshPoints(polygon orb.Polygon) ([]r3.Vec, error) {
	if len(polygon) == 0 || len(polygon[0]) == 0 {
		return nil, model.NewEmptyPointSetError("outer ring cannot be empty")
	}

	ring := polygon[0]
	boundary := distinctRingPoints(ring)
	if len(boundary) < 3 {
		return nil, model.NewMeshGenerationError(
			fmt.Sprintf("outer ring must have at least 3 points to form a valid polygon, found %d", len(boundary)))
	}

	samples, err := s.fibonacci.SampleSphere(s.pointCount)
	if err != nil {
		return nil, err
	}

	// 境界点が先頭、その後にポリゴン内部のサンプル点
	meshPoints2D := make([]orb.Point, 0, len(boundary))
	meshPoints2D = append(meshPoints2D, boundary...)

	for _, p := range samples {
		degrees := orb.Point{p[0] * 180.0 / math.Pi, p[1] * 180.0 / math.Pi}
		if planar.RingContains(ring, degrees) {
			meshPoints2D = append(meshPoints2D, degrees)
		}
	}

	meshPoints3D := make([]r3.Vec, 0, len(meshPoints2D))
	for _, p := range meshPoints2D {
		v, err := s.projection.ToCartesian(p[0], p[1])
		if err != nil {
			return nil, err
		}
		meshPoints3D = append(meshPoints3D, v)
	}

	return meshPoints3D, nil
}

func (s *meshGeneratorServiceImpl) GenerateMesh(polygon orb.Polygon) (*model.PolygonMeshData, error) {
	meshPoints, err := s.CollectMeshPoints(polygon)
	if err != nil {
		return nil, err
	}

	// 境界の各辺を必須辺にする。逆順に前の頂点と繋ぐことで巻き方向を揃える
	k := len(distinctRingPoints(polygon[0]))
	edges := make([]model.ConstraintEdge, 0, k)
	for i := k - 1; i >= 0; i-- {
		edges = append(edges, model.ConstraintEdge{
			From: i,
			To:   (i + k - 1) % k,
		})
	}

	// 投影歪みを抑えるため、注目領域を南極へ回転してから投影する
	rotated, err := s.rotation.RotateToSouthPole(meshPoints)
	if err != nil {
		return nil, err
	}

	projected := make([]orb.Point, 0, len(rotated))
	for _, p := range rotated {
		projectedPoint, err := s.projection.StereographicProject(p)
		if err != nil {
			return nil, err
		}
		projected = append(projected, projectedPoint)
	}

	triangles, err := s.triangulator.Triangulate(projected, edges)
	if err != nil {
		return nil, err
	}

	// 頂点は回転前の座標を返す（回転は分割のための一時的な座標系）
	return &model.PolygonMeshData{
		Vertices:  meshPoints,
		Triangles: triangles,
	}, nil
}

// distinctRingPoints 閉じたリングから終端の重複点を除いた頂点列を返す
// 一致した2頂点は三角形分割で必須辺を表現できないため、ここで取り除く
func distinctRingPoints(ring orb.Ring) []orb.Point {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}
