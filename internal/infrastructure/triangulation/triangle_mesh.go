package triangulation

import (
	"fmt"

	"github.com/fogleman/delaunay"

	"GeoTiler-App/internal/domain/model"
)

// edgeKey 無向辺のキー。常に a < b
type edgeKey struct {
	a, b int
}

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// triangleMesh フリップ操作が可能な三角形メッシュ
// tris の各三角形は反時計回り。edges は無向辺から隣接三角形（最大2つ）への索引
type triangleMesh struct {
	points      []delaunay.Point
	tris        [][3]int
	alive       []bool
	edges       map[edgeKey][]int
	constrained map[edgeKey]bool
}

func newTriangleMesh(points []delaunay.Point, flat []int) *triangleMesh {
	m := &triangleMesh{
		points:      points,
		tris:        make([][3]int, 0, len(flat)/3),
		alive:       make([]bool, 0, len(flat)/3),
		edges:       make(map[edgeKey][]int, len(flat)),
		constrained: make(map[edgeKey]bool),
	}
	for i := 0; i+2 < len(flat); i += 3 {
		m.tris = append(m.tris, [3]int{flat[i], flat[i+1], flat[i+2]})
		m.alive = append(m.alive, true)
		m.linkEdges(len(m.tris) - 1)
	}
	return m
}

func (m *triangleMesh) linkEdges(ti int) {
	t := m.tris[ti]
	for e := 0; e < 3; e++ {
		k := makeEdgeKey(t[e], t[(e+1)%3])
		m.edges[k] = append(m.edges[k], ti)
	}
}

func (m *triangleMesh) unlinkEdges(ti int) {
	t := m.tris[ti]
	for e := 0; e < 3; e++ {
		k := makeEdgeKey(t[e], t[(e+1)%3])
		adjacent := m.edges[k]
		for i, v := range adjacent {
			if v == ti {
				adjacent = append(adjacent[:i], adjacent[i+1:]...)
				break
			}
		}
		if len(adjacent) == 0 {
			delete(m.edges, k)
		} else {
			m.edges[k] = adjacent
		}
	}
}

func (m *triangleMesh) hasEdge(a, b int) bool {
	_, ok := m.edges[makeEdgeKey(a, b)]
	return ok
}

// opposite 辺kを持つ三角形tiの、k以外の頂点を返す
func (m *triangleMesh) opposite(ti int, k edgeKey) int {
	for _, v := range m.tris[ti] {
		if v != k.a && v != k.b {
			return v
		}
	}
	return -1
}

// orient 点cが有向線分a→bの左にあれば正、右にあれば負の外積を返す
func orient(a, b, c delaunay.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// crossesSegment 辺kが線分a-bと真に交差するかどうか
// 端点を共有する辺や接触のみの辺は交差とみなさない
func (m *triangleMesh) crossesSegment(k edgeKey, a, b int) bool {
	if k.a == a || k.a == b || k.b == a || k.b == b {
		return false
	}
	p1, p2 := m.points[k.a], m.points[k.b]
	q1, q2 := m.points[a], m.points[b]

	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	return d1*d2 < 0 && d3*d4 < 0
}

// flip 辺kを共有する2つの三角形の対角線を付け替える
// 4頂点が真に凸の四角形をなす場合のみフリップでき、新しい辺を返す
func (m *triangleMesh) flip(k edgeKey) (edgeKey, bool) {
	if m.constrained[k] {
		return edgeKey{}, false
	}
	adjacent := m.edges[k]
	if len(adjacent) != 2 {
		return edgeKey{}, false
	}
	t1, t2 := adjacent[0], adjacent[1]

	r := m.opposite(t1, k)
	s := m.opposite(t2, k)
	if r < 0 || s < 0 || r == s {
		return edgeKey{}, false
	}

	// rがp→qの左に来るように向きを揃える
	p, q := k.a, k.b
	if orient(m.points[p], m.points[q], m.points[r]) < 0 {
		p, q = q, p
	}

	// 四角形 p,s,q,r が真に凸であることを確認する
	if orient(m.points[p], m.points[q], m.points[r])*orient(m.points[p], m.points[q], m.points[s]) >= 0 {
		return edgeKey{}, false
	}
	if orient(m.points[r], m.points[s], m.points[p])*orient(m.points[r], m.points[s], m.points[q]) >= 0 {
		return edgeKey{}, false
	}

	// (p,q,r) と (q,p,s) を (p,s,r) と (s,q,r) に置き換える
	m.unlinkEdges(t1)
	m.unlinkEdges(t2)
	m.tris[t1] = [3]int{p, s, r}
	m.tris[t2] = [3]int{s, q, r}
	m.linkEdges(t1)
	m.linkEdges(t2)

	return makeEdgeKey(r, s), true
}

// insertConstraint 必須辺a-bがメッシュに現れるまで、交差する辺をフリップする
func (m *triangleMesh) insertConstraint(a, b int) error {
	if a == b {
		return nil
	}
	if m.hasEdge(a, b) {
		m.constrained[makeEdgeKey(a, b)] = true
		return nil
	}

	queue := make([]edgeKey, 0)
	for k := range m.edges {
		if m.crossesSegment(k, a, b) {
			queue = append(queue, k)
		}
	}
	if len(queue) == 0 {
		return model.NewTriangulationError(
			fmt.Sprintf("constraint edge (%d, %d) cannot be recovered: no crossing edges found", a, b))
	}

	// 交差辺の数は有限で、凸な四角形のフリップは必ず交差を1つ減らすため収束する。
	// 退化配置（共線・重複点）では進まないことがあるので反復上限で打ち切る
	maxIterations := 100 * (len(queue) + 1) * (len(queue) + 1)
	for iteration := 0; len(queue) > 0; iteration++ {
		if iteration > maxIterations {
			return model.NewTriangulationError(
				fmt.Sprintf("constraint edge (%d, %d) recovery did not converge", a, b))
		}

		k := queue[0]
		queue = queue[1:]

		if _, exists := m.edges[k]; !exists {
			continue
		}
		if !m.crossesSegment(k, a, b) {
			continue
		}

		flipped, ok := m.flip(k)
		if !ok {
			// 非凸の四角形は後回しにする。周囲のフリップで凸になる
			queue = append(queue, k)
			continue
		}
		if m.crossesSegment(flipped, a, b) {
			queue = append(queue, flipped)
		}
	}

	if !m.hasEdge(a, b) {
		return model.NewTriangulationError(
			fmt.Sprintf("constraint edge (%d, %d) could not be enforced", a, b))
	}
	m.constrained[makeEdgeKey(a, b)] = true
	return nil
}

// removeOutside 制約ループの外側にある三角形を取り除く
// 凸包の縁（隣接三角形が1つだけの辺）から、制約辺を越えないように
// フラッドフィルで到達できる三角形が外側
func (m *triangleMesh) removeOutside() {
	visited := make([]bool, len(m.tris))
	stack := make([]int, 0)

	for k, adjacent := range m.edges {
		if len(adjacent) == 1 && !m.constrained[k] {
			ti := adjacent[0]
			if m.alive[ti] && !visited[ti] {
				visited[ti] = true
				stack = append(stack, ti)
			}
		}
	}

	for len(stack) > 0 {
		ti := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.alive[ti] = false

		t := m.tris[ti]
		for e := 0; e < 3; e++ {
			k := makeEdgeKey(t[e], t[(e+1)%3])
			if m.constrained[k] {
				continue
			}
			for _, tn := range m.edges[k] {
				if tn != ti && m.alive[tn] && !visited[tn] {
					visited[tn] = true
					stack = append(stack, tn)
				}
			}
		}
	}
}

// flatten 生きている三角形をフラットなインデックス列にする
func (m *triangleMesh) flatten() []int {
	flat := make([]int, 0, len(m.tris)*3)
	for ti, t := range m.tris {
		if !m.alive[ti] {
			continue
		}
		flat = append(flat, t[0], t[1], t[2])
	}
	return flat
}
