package service

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"

	"GeoTiler-App/internal/domain/model"
)

const (
	// 浮動小数点誤差として許容する範囲外のずれ（度）
	coordinateSlack = 0.1

	// 境界値（±180/±90）へスナップする許容誤差
	snapEpsilon = 1e-10
)

// machineEpsilon f64の計算機イプシロン
var machineEpsilon = math.Nextafter(1.0, 2.0) - 1.0

// ProjectionService 経緯度と単位球上の直交座標の相互変換、ステレオ投影を行う
type ProjectionService interface {
	// ToCartesian 十進度の経緯度を単位球上の3D直交座標に変換する
	ToCartesian(longitude, latitude float64) (r3.Vec, error)

	// StereographicProject 単位球上の点を北極 (0,0,1) から平面 z=0 へ投影する
	StereographicProject(point r3.Vec) (orb.Point, error)

	// InverseStereographicProject 平面上の点を単位球へ引き戻す
	InverseStereographicProject(point orb.Point) (r3.Vec, error)
}

type projectionServiceImpl struct{}

// NewProjectionService 新しいProjectionServiceインスタンスを作成
func NewProjectionService() ProjectionService {
	return &projectionServiceImpl{}
}

// ToCartesian 経緯度を単位球上の直交座標に変換する
//
// x = cos(lat)·cos(lon), y = cos(lat)·sin(lon), z = sin(lat)
// |lon| > 180.1 または |lat| > 90.1 は座標範囲エラー。
// 境界から1e-10以内の値は境界値へスナップしてから変換する
func (s *projectionServiceImpl) ToCartesian(longitude, latitude float64) (r3.Vec, error) {
	if math.Abs(longitude) > 180.0+coordinateSlack || math.Abs(latitude) > 90.0+coordinateSlack {
		return r3.Vec{}, model.NewCoordinateRangeError(longitude, latitude)
	}

	longitude, latitude = sanitizeCoordinates(longitude, latitude, snapEpsilon)

	longitudeRad := longitude * math.Pi / 180.0
	latitudeRad := latitude * math.Pi / 180.0

	return r3.Vec{
		X: math.Cos(latitudeRad) * math.Cos(longitudeRad),
		Y: math.Cos(latitudeRad) * math.Sin(longitudeRad),
		Z: math.Sin(latitudeRad),
	}, nil
}

// StereographicProject 北極からのステレオ投影
//
// (x, y, z) -> (x/(1-z), y/(1-z))
// 北極そのもの（投影の特異点）は投影エラー。南極 (0,0,-1) は (0,0) に写る
func (s *projectionServiceImpl) StereographicProject(point r3.Vec) (orb.Point, error) {
	if math.Abs(point.Z-1.0) < machineEpsilon {
		return orb.Point{}, model.NewProjectionError("cannot project from the north pole (0, 0, 1)")
	}

	return orb.Point{
		point.X / (1.0 - point.Z),
		point.Y / (1.0 - point.Z),
	}, nil
}

// InverseStereographicProject ステレオ投影の逆変換
//
// x = 2x'/(1+x'²+y'²), y = 2y'/(1+x'²+y'²), z = (x'²+y'²-1)/(x'²+y'²+1)
// NaN・無限大を含む入力は逆投影エラー
func (s *projectionServiceImpl) InverseStereographicProject(point orb.Point) (r3.Vec, error) {
	x, y := point[0], point[1]
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return r3.Vec{}, model.NewInverseProjectionError("input coordinates must be finite")
	}

	d := 1.0 + x*x + y*y
	return r3.Vec{
		X: 2.0 * x / d,
		Y: 2.0 * y / d,
		Z: (x*x + y*y - 1.0) / d,
	}, nil
}

// sanitizeCoordinates 境界からepsilon以内の経緯度を境界値に補正する
func sanitizeCoordinates(longitude, latitude, epsilon float64) (float64, float64) {
	if longitude > 180.0 && longitude <= 180.0+epsilon {
		longitude = 180.0
	} else if longitude < -180.0 && longitude >= -180.0-epsilon {
		longitude = -180.0
	}

	if latitude > 90.0 && latitude <= 90.0+epsilon {
		latitude = 90.0
	} else if latitude < -90.0 && latitude >= -90.0-epsilon {
		latitude = -90.0
	}

	return longitude, latitude
}
