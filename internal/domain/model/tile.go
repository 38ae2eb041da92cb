package model

import (
	"github.com/paulmach/orb"
)

// Tile 地球表面を分割した矩形タイル1枚
// Bounds は4隅からなる閉じた矩形リング。Fragments はこのタイルにクリップされた
// ポリゴン断片で、クリッパーによって追記のみ行われる（削除・並べ替えはされない）
type Tile struct {
	Bounds    orb.Polygon   `json:"bounds"`
	Fragments []orb.Polygon `json:"fragments"`
}

// Bound タイルの境界リングから矩形範囲を再計算する
func (t *Tile) Bound() orb.Bound {
	if len(t.Bounds) == 0 {
		return orb.Bound{}
	}
	return t.Bounds[0].Bound()
}
