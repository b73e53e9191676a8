package models

// Model enumerates the CMS collection types the pipeline projects.
type Model string

const (
	ModelShop     Model = "shop"
	ModelBrand    Model = "brand"
	ModelBean     Model = "bean"
	ModelLocation Model = "location"
	ModelCountry  Model = "country"
	ModelCityArea Model = "city-area"
)

// AllModels lists every handled model.
var AllModels = []Model{ModelShop, ModelBrand, ModelBean, ModelLocation, ModelCountry, ModelCityArea}

// IsHandled reports whether the model is part of the projection.
func (m Model) IsHandled() bool {
	switch m {
	case ModelShop, ModelBrand, ModelBean, ModelLocation, ModelCountry, ModelCityArea:
		return true
	}
	return false
}

const (
	// EventTriggerTest is the connectivity test event sent from the CMS
	// webhook settings screen. It is acknowledged without touching any model.
	EventTriggerTest = "trigger-test"

	// EventEntryDelete marks a delete delivery. Every other event value is
	// collapsed into the upsert path.
	EventEntryDelete = "entry.delete"
)

// WebhookPayload is the inbound change notification. The entry is
// intentionally minimal; relation data is rehydrated from the CMS.
type WebhookPayload struct {
	Event string        `json:"event"`
	Model string        `json:"model"`
	Entry *WebhookEntry `json:"entry"`
}

// WebhookEntry carries the identity of the changed entry.
type WebhookEntry struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
}

// IsDelete reports whether the payload selects the delete branch.
func (p *WebhookPayload) IsDelete() bool {
	return p.Event == EventEntryDelete
}
