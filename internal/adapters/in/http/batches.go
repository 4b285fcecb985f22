package http

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"bagpub/internal/adapters/out/filestore"
	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/application/usecases/queries"
	"bagpub/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// SuggestBatches handles GET /api/v1/batches/suggestions.
func (s *Server) SuggestBatches(c echo.Context) error {
	suggestions, err := s.h.SuggestBatches.Handle(c.Request().Context(), queries.NewSuggestBatchesQuery())
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Suggestion, len(suggestions))
	for i, suggestion := range suggestions {
		response[i] = suggestionResponse(suggestion)
	}
	return c.JSON(http.StatusOK, response)
}

// AssignAndPrint handles POST /api/v1/batches/assign-and-print.
func (s *Server) AssignAndPrint(c echo.Context) error {
	var req AssignAndPrintRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ids, err := toKernelIDs(req.CampaignIDs)
	if err != nil {
		return s.fail(c, err)
	}
	partnerID, err := kernel.UUIDFromGoogle(req.PartnerID)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignPartnerAndSendToPrintCommand(ids, partnerID, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.AssignAndPrint.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, batchResponse(result))
}

// CreateBatch handles POST /api/v1/batches.
func (s *Server) CreateBatch(c echo.Context) error {
	var req CreateBatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ids, err := toKernelIDs(req.CampaignIDs)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateBatchCommand(ids, req.PostalCode, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.CreateBatch.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, batchResponse(result))
}

// AssignBatchPartner handles PUT /api/v1/batches/:id/partner.
func (s *Server) AssignBatchPartner(c echo.Context) error {
	var req AssignPartnerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	batchID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	partnerID, err := kernel.UUIDFromGoogle(req.PartnerID)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignBatchPartnerCommand(batchID, partnerID, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.AssignBatchPartner.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, batchResponse(result))
}

// SendBatchToPrint handles POST /api/v1/batches/:id/print.
func (s *Server) SendBatchToPrint(c echo.Context) error {
	batchID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSendBatchToPrintCommand(batchID, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.SendBatchToPrint.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	response := batchResponse(result.BatchResult)
	orderID := result.PrintOrderID.Google()
	response.PrintOrderID = &orderID
	response.PrintOrderNumber = result.PrintOrderNumber
	return c.JSON(http.StatusOK, response)
}

// ListBatchLogs handles GET /api/v1/batches/:id/logs?limit=N, newest first.
func (s *Server) ListBatchLogs(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var limit int
	if err = echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return badRequest(c, "Invalid limit")
	}

	query, err := queries.NewListBatchLogsQuery(id, limit)
	if err != nil {
		return s.fail(c, err)
	}
	entries, err := s.h.ListLogs.HandleBatch(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, logResponses(entries))
}

// CompletePrintOrder handles POST /api/v1/print-orders/:id/complete.
func (s *Server) CompletePrintOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCompletePrintOrderCommand(orderID, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.CompletePrintOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, batchResponse(result))
}

// GetAsset handles GET /api/v1/assets/:folder/:name and streams a stored upload.
func (s *Server) GetAsset(c echo.Context) error {
	ref := path.Join(c.Param("folder"), c.Param("name"))

	f, err := s.h.Assets.Open(ref)
	switch {
	case errors.Is(err, filestore.ErrInvalidRef):
		return badRequest(c, "Invalid asset reference")
	case errors.Is(err, fs.ErrNotExist):
		return c.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "Asset not found"})
	case err != nil:
		return s.fail(c, err)
	}
	defer func() { _ = f.Close() }()

	contentType := mime.TypeByExtension(path.Ext(ref))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, f)
}
