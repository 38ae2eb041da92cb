package service

import (
	"fmt"

	"github.com/paulmach/orb"

	"GeoTiler-App/internal/domain/model"
)

// TileGridService 地球全体を覆う矩形タイルグリッドを生成する
type TileGridService interface {
	// GenerateGrid [-180,180)×[-90,90) を step×step 度のセルで敷き詰め、
	// 断片リストが空のタイルを (360/step)·(180/step) 枚返す。
	// stepが0、180超、または360・180を割り切れない場合はグリッド設定エラー
	GenerateGrid(step int) ([]*model.Tile, error)
}

type tileGridServiceImpl struct{}

// NewTileGridService 新しいTileGridServiceインスタンスを作成
func NewTileGridService() TileGridService {
	return &tileGridServiceImpl{}
}

func (s *tileGridServiceImpl) GenerateGrid(step int) ([]*model.Tile, error) {
	if step <= 0 {
		return nil, model.NewGridGenerationError("step size must be greater than 0")
	}
	if step > 180 {
		return nil, model.NewGridGenerationError(
			fmt.Sprintf("step size %d is too large. maximum allowed is 180 degrees", step))
	}
	if 360%step != 0 {
		return nil, model.NewGridGenerationError(
			fmt.Sprintf("step size %d does not evenly divide 360 degrees. this would result in incomplete longitude coverage", step))
	}
	if 180%step != 0 {
		return nil, model.NewGridGenerationError(
			fmt.Sprintf("step size %d does not evenly divide 180 degrees. this would result in incomplete latitude coverage", step))
	}

	grid := make([]*model.Tile, 0, (360/step)*(180/step))

	for i := -180; i < 180; i += step {
		for j := -90; j < 90; j += step {
			minLon, minLat := float64(i), float64(j)
			maxLon, maxLat := float64(i+step), float64(j+step)

			// 反時計回りの閉じた矩形リング
			ring := orb.Ring{
				{minLon, minLat},
				{maxLon, minLat},
				{maxLon, maxLat},
				{minLon, maxLat},
				{minLon, minLat},
			}

			grid = append(grid, &model.Tile{
				Bounds:    orb.Polygon{ring},
				Fragments: nil,
			})
		}
	}

	return grid, nil
}
