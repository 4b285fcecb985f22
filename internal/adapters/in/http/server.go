// Package http is the inbound REST adapter. It turns requests into commands and
// queries, runs them and maps the errs taxonomy onto status codes.
//
// The caller is identified by the X-User-ID header, set by the authenticating proxy
// in front of the service. It is required to create a campaign and recorded as the
// actor of every other command when present.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/application/usecases/queries"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

const UserIDHeader = "X-User-ID"

type (
	CreateCampaignHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCampaignCommand) (commands.CreateCampaignResult, error)
	}
	UpdateCampaignStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCampaignStatusCommand) (commands.UpdateCampaignStatusResult, error)
	}
	UpdateCampaignDesignHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCampaignDesignCommand) (campaign.Design, error)
	}
	AssignAndPrintHandler interface {
		Handle(ctx context.Context, cmd commands.AssignPartnerAndSendToPrintCommand) (commands.BatchResult, error)
	}
	CreateBatchHandler interface {
		Handle(ctx context.Context, cmd commands.CreateBatchCommand) (commands.BatchResult, error)
	}
	AssignBatchPartnerHandler interface {
		Handle(ctx context.Context, cmd commands.AssignBatchPartnerCommand) (commands.BatchResult, error)
	}
	SendBatchToPrintHandler interface {
		Handle(ctx context.Context, cmd commands.SendBatchToPrintCommand) (commands.SendBatchToPrintResult, error)
	}
	CompletePrintOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CompletePrintOrderCommand) (commands.BatchResult, error)
	}
	SuggestBatchesHandler interface {
		Handle(ctx context.Context, q queries.SuggestBatchesQuery) ([]services.BatchSuggestion, error)
	}
	ListLogsHandler interface {
		HandleCampaign(ctx context.Context, q queries.ListCampaignLogsQuery) ([]queries.LogEntryResponse, error)
		HandleBatch(ctx context.Context, q queries.ListBatchLogsQuery) ([]queries.LogEntryResponse, error)
	}
	// AssetReader resolves a reference returned by the asset store.
	AssetReader interface {
		Open(ref string) (*os.File, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateCampaign       CreateCampaignHandler
	UpdateCampaignStatus UpdateCampaignStatusHandler
	UpdateCampaignDesign UpdateCampaignDesignHandler
	AssignAndPrint       AssignAndPrintHandler
	CreateBatch          CreateBatchHandler
	AssignBatchPartner   AssignBatchPartnerHandler
	SendBatchToPrint     SendBatchToPrintHandler
	CompletePrintOrder   CompletePrintOrderHandler
	SuggestBatches       SuggestBatchesHandler
	ListLogs             ListLogsHandler
	Assets               AssetReader
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{h: h, logger: logger.With("component", "http")}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.POST("/campaigns", s.CreateCampaign)
	api.PUT("/campaigns/:id/status", s.UpdateCampaignStatus)
	api.PUT("/campaigns/:id/design", s.UpdateCampaignDesign)
	api.GET("/campaigns/:id/logs", s.ListCampaignLogs)

	api.GET("/batches/suggestions", s.SuggestBatches)
	api.POST("/batches", s.CreateBatch)
	api.POST("/batches/assign-and-print", s.AssignAndPrint)
	api.PUT("/batches/:id/partner", s.AssignBatchPartner)
	api.POST("/batches/:id/print", s.SendBatchToPrint)
	api.GET("/batches/:id/logs", s.ListBatchLogs)

	api.POST("/print-orders/:id/complete", s.CompletePrintOrder)

	api.GET("/assets/:folder/:name", s.GetAsset)
}

// actor returns the caller id from X-User-ID, or nil when the header is absent.
func actor(c echo.Context) (*kernel.UUID, error) {
	raw := c.Request().Header.Get(UserIDHeader)
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}
