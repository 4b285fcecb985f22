package ports

import "context"

// Template names a notification message.
type Template string

const (
	TemplateCampaignCreated Template = "campaign_created"
	TemplatePartnerAssigned Template = "partner_assigned"
	TemplateSentToPrint     Template = "sent_to_print"
	TemplateBatchPrintOrder Template = "batch_print_order"
	TemplateStatusChanged   Template = "status_changed"
	TemplatePrintCompleted  Template = "print_completed"
)

// Notification is one message to one or more e-mail recipients.
type Notification struct {
	Template   Template
	Recipients []string
	Context    map[string]any
}

// Notifier accepts notifications for best-effort, at-least-once delivery.
// Notify must not block on delivery and reports nothing back; failures are the
// implementation's to log.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
