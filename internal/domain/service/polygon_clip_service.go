package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"

	"GeoTiler-App/internal/domain/model"
)

// DefaultMaxEdgeLengthDegrees クリップ後の断片の辺の最大長（度）
// これより長い辺は等分割される。平面弦の誤差が球面投影後に
// 大きくなりすぎないよう抑えるための上限
const DefaultMaxEdgeLengthDegrees = 0.5

const (
	// これ未満の面積しか囲まないリングは交差なしとして捨てる
	minFragmentArea = 1e-12

	// 橋渡し辺上の頂点を検出する同一直線判定の許容誤差
	collinearEpsilon = 1e-9
)

// PolygonClipService 入力ポリゴンをタイルグリッドへクリップする
type PolygonClipService interface {
	// Clip 全タイルに対してタイル矩形とポリゴンの交差を計算し、
	// 得られた断片を高密度化してタイルの断片リストへ追記する
	Clip(tiles []*model.Tile, polygon orb.Polygon) error

	// ClampToTileBounds 各タイルの境界リングから矩形範囲を再計算し、
	// 全断片の座標をその範囲内へ丸め込む。ブーリアン交差は数ulpだけ
	// タイル外へはみ出た座標を生むことがあり、後段の三角形分割が要求する
	// 「断片はタイル内」の前提を壊すため必須
	ClampToTileBounds(tiles []*model.Tile)
}

type polygonClipServiceImpl struct {
	maxEdgeLength float64
}

// NewPolygonClipService 辺の最大長がデフォルト値のクリッパーを作成
func NewPolygonClipService() PolygonClipService {
	return NewPolygonClipServiceWithMaxEdge(DefaultMaxEdgeLengthDegrees)
}

// NewPolygonClipServiceWithMaxEdge 辺の最大長を指定してクリッパーを作成
func NewPolygonClipServiceWithMaxEdge(maxEdgeLength float64) PolygonClipService {
	return &polygonClipServiceImpl{maxEdgeLength: maxEdgeLength}
}

func (s *polygonClipServiceImpl) Clip(tiles []*model.Tile, polygon orb.Polygon) error {
	if len(polygon) == 0 || len(polygon[0]) < 4 {
		count := 0
		if len(polygon) > 0 {
			count = len(polygon[0])
		}
		return model.NewInvalidPolygonError(
			fmt.Sprintf("polygon must have at least 3 vertices, found %d", max(count-1, 0)))
	}

	for _, c := range polygon[0] {
		if !isFinite(c[0]) || !isFinite(c[1]) {
			return model.NewInvalidPolygonError("polygon contains NaN or infinite coordinates")
		}
	}

	for _, tile := range tiles {
		// タイルは軸平行な矩形なので、矩形範囲へのクリップが交差そのもの。
		// ただし交差が離れた複数片になる場合、矩形クリッパーはタイル境界に
		// 沿った橋渡し辺で繋いだ1本の自己接触リングを返すため、重複頂点で
		// 分割して素直な交差結果（0個以上の単純リング）に戻す
		clipped := clip.Polygon(tile.Bound(), polygon.Clone())
		if len(clipped) == 0 {
			continue
		}

		exteriors := splitSelfTouchingRing(clipped[0])
		if len(exteriors) == 0 {
			continue
		}

		fragments := make([]orb.Polygon, 0, len(exteriors))
		for _, ring := range exteriors {
			ring = orientCCW(ring)
			fragments = append(fragments, orb.Polygon{densifyRing(ring, s.maxEdgeLength)})
		}

		// 内側のリング（穴）は、それを含む外側リングの断片へ付ける
		for _, hole := range clipped[1:] {
			for _, piece := range splitSelfTouchingRing(hole) {
				piece = orientCCW(piece)
				for i, fragment := range fragments {
					if planar.RingContains(fragment[0], piece[0]) {
						fragments[i] = append(fragments[i], densifyRing(piece, s.maxEdgeLength))
						break
					}
				}
			}
		}

		tile.Fragments = append(tile.Fragments, fragments...)
	}

	return nil
}

func (s *polygonClipServiceImpl) ClampToTileBounds(tiles []*model.Tile) {
	for _, tile := range tiles {
		if len(tile.Bounds) == 0 {
			continue
		}
		bound := tile.Bounds[0].Bound()

		for _, fragment := range tile.Fragments {
			for _, ring := range fragment {
				for i, c := range ring {
					ring[i] = orb.Point{
						clampValue(c[0], bound.Min[0], bound.Max[0]),
						clampValue(c[1], bound.Min[1], bound.Max[1]),
					}
				}
			}
		}
	}
}

// densifyRing maxDistanceより長い辺を等分割し、どの線分もmaxDistance以下にする
func densifyRing(ring orb.Ring, maxDistance float64) orb.Ring {
	if len(ring) < 2 || maxDistance <= 0 {
		return ring
	}

	densified := make(orb.Ring, 0, len(ring))
	densified = append(densified, ring[0])

	for i := 0; i < len(ring)-1; i++ {
		c1, c2 := ring[i], ring[i+1]
		distance := planar.Distance(c1, c2)

		if distance > maxDistance {
			segments := int(math.Ceil(distance / maxDistance))
			for j := 1; j < segments; j++ {
				t := float64(j) / float64(segments)
				densified = append(densified, orb.Point{
					c1[0] + t*(c2[0]-c1[0]),
					c1[1] + t*(c2[1]-c1[1]),
				})
			}
		}

		densified = append(densified, c2)
	}

	return densified
}

// splitSelfTouchingRing 自己接触リングを単純な閉リングの列に分解する
//
// 矩形クリッパーの出力は、離れた交差片を橋渡し辺（往路と復路が同じ線分を
// 逆向きになぞる）で1本に繋いでいることがある。復路の辺上に乗っている
// 頂点を挿入して接触を頂点の再訪として顕在化させ、再訪で囲まれた
// ループを切り出す。面積を持たないループ（橋渡し辺そのものや、タイル境界に
// 接しただけの退化リング）は捨てる
func splitSelfTouchingRing(ring orb.Ring) []orb.Ring {
	vertices := dedupeClosedRing(ring)
	if len(vertices) < 3 {
		return nil
	}
	vertices = insertCollinearVertices(vertices)

	var rings []orb.Ring
	path := make([]orb.Point, 0, len(vertices))
	index := make(map[orb.Point]int, len(vertices))

	for _, p := range vertices {
		if j, seen := index[p]; seen {
			loop := make(orb.Ring, 0, len(path)-j+1)
			loop = append(loop, path[j:]...)
			loop = append(loop, p)
			for _, q := range path[j+1:] {
				delete(index, q)
			}
			path = path[:j+1]
			if r := normalizeRing(loop); r != nil {
				rings = append(rings, r)
			}
			continue
		}
		index[p] = len(path)
		path = append(path, p)
	}

	if len(path) >= 3 {
		closed := make(orb.Ring, 0, len(path)+1)
		closed = append(closed, path...)
		closed = append(closed, path[0])
		if r := normalizeRing(closed); r != nil {
			rings = append(rings, r)
		}
	}

	return rings
}

// dedupeClosedRing 連続する重複頂点と終端の閉鎖点を取り除いた頂点列を返す
func dedupeClosedRing(ring orb.Ring) []orb.Point {
	vertices := make([]orb.Point, 0, len(ring))
	for _, p := range ring {
		if len(vertices) > 0 && vertices[len(vertices)-1] == p {
			continue
		}
		vertices = append(vertices, p)
	}
	if len(vertices) > 1 && vertices[0] == vertices[len(vertices)-1] {
		vertices = vertices[:len(vertices)-1]
	}
	return vertices
}

// insertCollinearVertices 他の頂点が辺の内部に乗っている場合、その辺へ挿入する
// 橋渡し辺の復路は往路の頂点の上を素通りするため、この挿入で再訪が現れる
func insertCollinearVertices(vertices []orb.Point) []orb.Point {
	unique := make(map[orb.Point]struct{}, len(vertices))
	for _, p := range vertices {
		unique[p] = struct{}{}
	}

	result := make([]orb.Point, 0, len(vertices))
	for i, a := range vertices {
		b := vertices[(i+1)%len(vertices)]
		result = append(result, a)

		var onEdge []orb.Point
		for p := range unique {
			if p == a || p == b {
				continue
			}
			if pointOnSegment(p, a, b) {
				onEdge = append(onEdge, p)
			}
		}
		sort.Slice(onEdge, func(x, y int) bool {
			return planar.Distance(a, onEdge[x]) < planar.Distance(a, onEdge[y])
		})
		result = append(result, onEdge...)
	}
	return result
}

// pointOnSegment 点pが線分a-bの内部（端点を除く）に乗っているかどうか
func pointOnSegment(p, a, b orb.Point) bool {
	cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
	if math.Abs(cross) > collinearEpsilon {
		return false
	}
	dot := (p[0]-a[0])*(b[0]-a[0]) + (p[1]-a[1])*(b[1]-a[1])
	length2 := (b[0]-a[0])*(b[0]-a[0]) + (b[1]-a[1])*(b[1]-a[1])
	return dot > 0 && dot < length2
}

// normalizeRing 閉じた有効なリングならそのまま返し、退化していればnil
func normalizeRing(ring orb.Ring) orb.Ring {
	if len(ring) < 4 {
		return nil
	}
	if math.Abs(shoelaceArea(ring)) < minFragmentArea {
		return nil
	}
	return ring
}

// shoelaceArea 閉リングの符号付き面積
func shoelaceArea(ring orb.Ring) float64 {
	var area float64
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return area / 2
}

// orientCCW リングを反時計回りに揃える
func orientCCW(ring orb.Ring) orb.Ring {
	if ring.Orientation() != orb.CCW {
		reversed := make(orb.Ring, len(ring))
		for i, c := range ring {
			reversed[len(ring)-1-i] = c
		}
		return reversed
	}
	return ring
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
