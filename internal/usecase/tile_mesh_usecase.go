package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/domain/repository"
	"GeoTiler-App/internal/domain/service"
)

// TileMeshUseCase 地理ポリゴンからタイル分割されたメッシュ群を生成するユースケース
type TileMeshUseCase interface {
	// GenerateTileMeshes グリッド生成 → クリップ → クランプ → 断片ごとの
	// メッシュ生成を実行し、結果のサマリーを返す。
	// 個々の断片のメッシュ生成失敗はスキップして数えるだけで、処理は続行する
	GenerateTileMeshes(ctx context.Context, req *model.TileMeshGenerateRequest, polygon orb.Polygon) (*model.TileMeshGenerateResponse, error)
}

type tileMeshUseCaseImpl struct {
	gridService  service.TileGridService
	projection   service.ProjectionService
	rotation     service.RotationService
	fibonacci    service.FibonacciService
	triangulator service.Triangulator
	meshRepo     repository.MeshRepository
}

// NewTileMeshUseCase 新しいTileMeshUseCaseインスタンスを作成
// meshRepo はnil可（保存しない構成）
func NewTileMeshUseCase(
	gridService service.TileGridService,
	projection service.ProjectionService,
	rotation service.RotationService,
	fibonacci service.FibonacciService,
	triangulator service.Triangulator,
	meshRepo repository.MeshRepository,
) TileMeshUseCase {
	return &tileMeshUseCaseImpl{
		gridService:  gridService,
		projection:   projection,
		rotation:     rotation,
		fibonacci:    fibonacci,
		triangulator: triangulator,
		meshRepo:     meshRepo,
	}
}

func (u *tileMeshUseCaseImpl) GenerateTileMeshes(ctx context.Context, req *model.TileMeshGenerateRequest, polygon orb.Polygon) (*model.TileMeshGenerateResponse, error) {
	log.Printf("🗺️ タイルメッシュ生成開始 (step: %d度)", req.StepDegrees)

	// Step 1: グリッド生成
	tiles, err := u.gridService.GenerateGrid(req.StepDegrees)
	if err != nil {
		return nil, fmt.Errorf("グリッド生成に失敗: %w", err)
	}

	// Step 2: ポリゴンを全タイルへクリップ
	clipService := u.buildClipService(req)
	if err := clipService.Clip(tiles, polygon); err != nil {
		return nil, fmt.Errorf("ポリゴンのクリップに失敗: %w", err)
	}

	// Step 3: 断片の座標をタイル境界内へ丸め込む
	clipService.ClampToTileBounds(tiles)

	// Step 4: 断片ごとにメッシュ生成
	meshService := u.buildMeshService(req)

	response := &model.TileMeshGenerateResponse{
		JobID:       uuid.New().String(),
		StepDegrees: req.StepDegrees,
		TileCount:   len(tiles),
		Tiles:       make([]model.TileMeshSummary, 0),
	}

	for index, tile := range tiles {
		if len(tile.Fragments) == 0 {
			continue
		}
		response.ClippedTileCount++

		meshes := make([]*model.PolygonMeshData, 0, len(tile.Fragments))
		for _, fragment := range tile.Fragments {
			mesh, err := meshService.GenerateMesh(fragment)
			if err != nil {
				// コアは失敗を返すだけ。スキップするかどうかはここで決める
				log.Printf("⚠️ 断片のメッシュ生成をスキップ (tile: %d): %v", index, err)
				response.SkippedFragments++
				continue
			}
			meshes = append(meshes, mesh)
		}

		if req.Persist && u.meshRepo != nil && len(meshes) > 0 {
			if err := u.meshRepo.SaveTileMesh(ctx, tile, meshes); err != nil {
				return nil, fmt.Errorf("メッシュの保存に失敗: %w", err)
			}
		}

		summary := model.TileMeshSummary{
			TileIndex:     index,
			FragmentCount: len(tile.Fragments),
			MeshCount:     len(meshes),
		}
		bound := tile.Bound()
		summary.MinLongitude = bound.Min[0]
		summary.MinLatitude = bound.Min[1]
		summary.MaxLongitude = bound.Max[0]
		summary.MaxLatitude = bound.Max[1]
		for _, mesh := range meshes {
			summary.VertexCount += len(mesh.Vertices)
			summary.TriangleCount += len(mesh.Triangles) / 3
		}

		response.MeshCount += len(meshes)
		response.Tiles = append(response.Tiles, summary)
	}

	log.Printf("✅ タイルメッシュ生成完了 (メッシュ: %d件, スキップ: %d件)", response.MeshCount, response.SkippedFragments)
	return response, nil
}

// buildClipService リクエストの辺長上限を反映したクリッパーを用意する
func (u *tileMeshUseCaseImpl) buildClipService(req *model.TileMeshGenerateRequest) service.PolygonClipService {
	if req.MaxEdgeLengthDegrees > 0 {
		return service.NewPolygonClipServiceWithMaxEdge(req.MaxEdgeLengthDegrees)
	}
	return service.NewPolygonClipService()
}

// buildMeshService リクエストのサンプル数を反映したメッシュ生成器を用意する
func (u *tileMeshUseCaseImpl) buildMeshService(req *model.TileMeshGenerateRequest) service.MeshGeneratorService {
	if req.FibonacciPointCount > 0 {
		return service.NewMeshGeneratorServiceWithPointCount(
			u.projection, u.rotation, u.fibonacci, u.triangulator, req.FibonacciPointCount)
	}
	return service.NewMeshGeneratorService(u.projection, u.rotation, u.fibonacci, u.triangulator)
}
