package campaign

import (
	"strings"

	"bagpub/internal/pkg/errs"
)

// CardKind names the variant of a CardSource.
type CardKind string

const (
	CardKindTemplate    CardKind = "template"
	CardKindCustomAsset CardKind = "custom_asset"
)

// CardSource is what the print shop prints for a campaign: either a Design
// rendered from a template or a file supplied by the client. It is closed to
// TemplateCard and CustomAssetCard.
type CardSource interface {
	Kind() CardKind
	cardSource()
}

// TemplateCard carries a template Design.
type TemplateCard struct {
	design Design
}

// NewTemplateCard wraps design.
func NewTemplateCard(design Design) TemplateCard {
	return TemplateCard{design: design}
}

func (TemplateCard) Kind() CardKind { return CardKindTemplate }
func (TemplateCard) cardSource() {}

func (c TemplateCard) Design() Design { return c.design }

// CustomAssetCard references a client-supplied print file in the asset store.
// The contact fields are handed to the partner with the file.
type CustomAssetCard struct {
	assetRef     string
	fileName     string
	contactEmail string
	contactPhone string
}

// NewCustomAssetCard requires a non-empty asset reference. Overlong file names
// and phones are truncated.
func NewCustomAssetCard(assetRef, fileName, contactEmail, contactPhone string) (CustomAssetCard, error) {
	if strings.TrimSpace(assetRef) == "" {
		return CustomAssetCard{}, errs.NewValueIsRequiredError("custom_card")
	}
	return CustomAssetCard{
		assetRef:     assetRef,
		fileName:     truncate(fileName, maxFileNameLen),
		contactEmail: contactEmail,
		contactPhone: truncate(contactPhone, maxPhoneLen),
	}, nil
}

func (CustomAssetCard) Kind() CardKind { return CardKindCustomAsset }
func (CustomAssetCard) cardSource() {}

func (c CustomAssetCard) AssetRef() string { return c.assetRef }
func (c CustomAssetCard) FileName() string { return c.fileName }
func (c CustomAssetCard) ContactEmail() string { return c.contactEmail }
func (c CustomAssetCard) ContactPhone() string { return c.contactPhone }
