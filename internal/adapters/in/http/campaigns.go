package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/application/usecases/queries"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateCampaign handles POST /api/v1/campaigns (multipart/form-data).
//
// Form fields: name, postal_codes, faces, special_request, use_custom_card, the design
// fields of DesignRequest and the files custom_card and logo.
func (s *Server) CreateCampaign(c echo.Context) error {
	clientID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}
	if clientID == nil {
		return s.fail(c, errs.NewValueIsRequiredError(UserIDHeader))
	}

	useCustom, _ := strconv.ParseBool(c.FormValue("use_custom_card"))
	input := commands.CreateCampaignInput{
		Name:           c.FormValue("name"),
		PostalCodes:    c.FormValue("postal_codes"),
		UseCustomCard:  useCustom,
		Faces:          c.FormValue("faces"),
		SpecialRequest: c.FormValue("special_request"),
	}
	if !useCustom {
		input.Design = &campaign.DesignParams{
			Template:          c.FormValue("template"),
			Slogan:            c.FormValue("slogan"),
			CompanyEmail:      c.FormValue("company_email"),
			CompanyPhone:      c.FormValue("company_phone"),
			CompanyAddress:    c.FormValue("company_address"),
			CompanyPostalCode: c.FormValue("company_postal_code"),
			AccentColor:       c.FormValue("accent_color"),
			ContactMethod:     c.FormValue("contact_method"),
		}
	}

	customCard, closeCard, err := formUpload(c, "custom_card")
	if err != nil {
		return badRequest(c, "Invalid custom_card upload")
	}
	defer closeCard()
	input.CustomCard = customCard

	logo, closeLogo, err := formUpload(c, "logo")
	if err != nil {
		return badRequest(c, "Invalid logo upload")
	}
	defer closeLogo()
	input.Logo = logo

	cmd, err := commands.NewCreateCampaignCommand(*clientID, input)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.CreateCampaign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, campaignResponse(result))
}

// UpdateCampaignStatus handles PUT /api/v1/campaigns/:id/status.
func (s *Server) UpdateCampaignStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateCampaignStatusCommand(id, req.Status, actorID)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.UpdateCampaignStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, CampaignStatus{
		ID:             result.CampaignID.Google(),
		OrderNumber:    result.OrderNumber,
		OldStatus:      result.OldStatus.String(),
		NewStatus:      result.NewStatus.String(),
		PrintingStatus: result.PrintingStatus.String(),
	})
}

// UpdateCampaignDesign handles PUT /api/v1/campaigns/:id/design.
func (s *Server) UpdateCampaignDesign(c echo.Context) error {
	var req DesignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	actorID, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateCampaignDesignCommand(id, req.params(), actorID)
	if err != nil {
		return s.fail(c, err)
	}
	design, err := s.h.UpdateCampaignDesign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, designResponse(design))
}

// ListCampaignLogs handles GET /api/v1/campaigns/:id/logs?limit=N, newest first.
func (s *Server) ListCampaignLogs(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var limit int
	if err = echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return badRequest(c, "Invalid limit")
	}

	query, err := queries.NewListCampaignLogsQuery(id, limit)
	if err != nil {
		return s.fail(c, err)
	}
	entries, err := s.h.ListLogs.HandleCampaign(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, logResponses(entries))
}

// formUpload opens an optional multipart file. A missing field yields a nil upload.
func formUpload(c echo.Context, field string) (*commands.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}

	var src multipart.File
	if src, err = fh.Open(); err != nil {
		return nil, noop, err
	}
	return &commands.Upload{Name: fh.Filename, Size: fh.Size, Content: src}, func() { _ = src.Close() }, nil
}
