package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/service/packages"
)

type PackageHandler struct {
	service packages.PackageUseCase
}

type packageResponse struct {
	ID            int64  `json:"id"`
	TitleEN       string `json:"title_en"`
	TitleAR       string `json:"title_ar"`
	DescriptionEN string `json:"description_en"`
	DescriptionAR string `json:"description_ar"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
	MinTravelers  int    `json:"min_travelers"`
	MaxTravelers  int    `json:"max_travelers"`
	Availability  int    `json:"availability"`
	Featured      bool   `json:"featured"`
	CreatedAt     string `json:"created_at"`
}

func toPackageResponse(p *domain.Package) packageResponse {
	return packageResponse{
		ID:            p.ID,
		TitleEN:       p.TitleEN,
		TitleAR:       p.TitleAR,
		DescriptionEN: p.DescriptionEN,
		DescriptionAR: p.DescriptionAR,
		Price:         p.Price.StringFixed(2),
		Duration:      p.Duration,
		MinTravelers:  p.MinTravelers,
		MaxTravelers:  p.MaxTravelers,
		Availability:  p.Availability,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func NewPackageHandler(service packages.PackageUseCase) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *PackageHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]packageResponse, 0, len(list))
	for i := range list {
		out = append(out, toPackageResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PackageHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPackageResponse(p))
}
