package commands

import (
	"errors"
	"io"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrCreateCampaignCommandIsNotConstructed = errors.New(
	"CreateCampaignCommand must be created via NewCreateCampaignCommand constructor",
)

// Upload is a file attached to a request, streamed to the asset store once the
// submission is accepted.
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// CreateCampaignInput is the raw client submission. Field values are checked by the
// campaign validator inside the handler, so the command itself only requires a client.
type CreateCampaignInput struct {
	Name           string
	PostalCodes    string
	UseCustomCard  bool
	CustomCard     *Upload
	Faces          string
	SpecialRequest string
	Design         *campaign.DesignParams
	Logo           *Upload
}

// CreateCampaignCommand submits a new campaign on behalf of a client.
//
// Example:
//
//	cmd, err := NewCreateCampaignCommand(clientID, CreateCampaignInput{
//	    PostalCodes: "75001,75002,75003,75004,75005",
//	    Design:      &campaign.DesignParams{Template: "template_3", Slogan: "Fresh bread daily"},
//	})
type CreateCampaignCommand struct {
	clientID kernel.UUID
	input    CreateCampaignInput
	guard    guard.ConstructorGuard
}

func NewCreateCampaignCommand(clientID kernel.UUID, input CreateCampaignInput) (CreateCampaignCommand, error) {
	c := CreateCampaignCommand{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		c.setClientID(clientID),
		c.setInput(input),
	); err != nil {
		return CreateCampaignCommand{}, err
	}
	return c, nil
}

func (c CreateCampaignCommand) ClientID() kernel.UUID { return c.clientID }
func (c CreateCampaignCommand) Input() CreateCampaignInput { return c.input }

func (c CreateCampaignCommand) Validate() error {
	return c.guard.Validate(ErrCreateCampaignCommandIsNotConstructed)
}

// validatorInput strips file contents, the validator only looks at names and sizes.
func (c CreateCampaignCommand) validatorInput() services.CampaignInput {
	in := services.CampaignInput{
		Name:           c.input.Name,
		PostalCodes:    c.input.PostalCodes,
		UseCustomCard:  c.input.UseCustomCard,
		Faces:          c.input.Faces,
		SpecialRequest: c.input.SpecialRequest,
		Design:         c.input.Design,
	}
	if c.input.CustomCard != nil {
		in.CustomCard = &services.UploadedFile{Name: c.input.CustomCard.Name, Size: c.input.CustomCard.Size}
	}
	return in
}

func (c *CreateCampaignCommand) setClientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client_id", err)
	}
	c.clientID = id
	return nil
}

func (c *CreateCampaignCommand) setInput(in CreateCampaignInput) error {
	if in.UseCustomCard && in.CustomCard != nil && in.CustomCard.Content == nil {
		return errs.NewValueIsRequiredError("custom_card")
	}
	if in.Logo != nil && in.Logo.Content == nil {
		return errs.NewValueIsRequiredError("logo")
	}
	c.input = in
	return nil
}
