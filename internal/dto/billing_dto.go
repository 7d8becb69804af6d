package dto

type BillingSessionResponse struct {
	URL string `json:"url"`
}
