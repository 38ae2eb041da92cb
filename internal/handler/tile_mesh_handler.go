package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"GeoTiler-App/internal/domain/model"
	"GeoTiler-App/internal/domain/service"
	"GeoTiler-App/internal/usecase"
)

// TileMeshHandler タイルメッシュ生成に関するHTTPハンドラー
type TileMeshHandler struct {
	tileMeshUseCase usecase.TileMeshUseCase
	gridService     service.TileGridService
}

// NewTileMeshHandler TileMeshHandlerの新しいインスタンスを作成
func NewTileMeshHandler(tileMeshUseCase usecase.TileMeshUseCase, gridService service.TileGridService) *TileMeshHandler {
	return &TileMeshHandler{
		tileMeshUseCase: tileMeshUseCase,
		gridService:     gridService,
	}
}

// PostGenerate POST /meshes/generate - GeoJSONポリゴンからタイルメッシュを生成
func (h *TileMeshHandler) PostGenerate(c *gin.Context) {
	var req model.TileMeshGenerateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if len(req.Feature) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "feature is required (GeoJSON Polygon Feature)",
		})
		return
	}

	feature, err := geojson.UnmarshalFeature(req.Feature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid GeoJSON feature: " + err.Error(),
		})
		return
	}

	polygon, ok := feature.Geometry.(orb.Polygon)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "feature geometry must be a Polygon",
		})
		return
	}

	response, err := h.tileMeshUseCase.GenerateTileMeshes(c.Request.Context(), &req, polygon)
	if err != nil {
		// ドメインエラーは入力起因なので400で返す
		var gte *model.GeoTilerError
		if errors.As(err, &gte) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   string(gte.Kind),
				"message": gte.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate tile meshes: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetGrid GET /grid?step= - タイルグリッドのプレビューを取得
func (h *TileMeshHandler) GetGrid(c *gin.Context) {
	stepParam := c.Query("step")
	if stepParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "step parameter is required",
		})
		return
	}

	step, err := strconv.Atoi(stepParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "step must be an integer",
		})
		return
	}

	tiles, err := h.gridService.GenerateGrid(step)
	if err != nil {
		var gte *model.GeoTilerError
		if errors.As(err, &gte) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   string(gte.Kind),
				"message": gte.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate grid: " + err.Error(),
		})
		return
	}

	bounds := make([][4]float64, 0, len(tiles))
	for _, tile := range tiles {
		b := tile.Bound()
		bounds = append(bounds, [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]})
	}

	c.JSON(http.StatusOK, gin.H{
		"step":       step,
		"tile_count": len(tiles),
		"tiles":      bounds,
	})
}
