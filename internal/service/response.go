package service

type UpsertOutcome string

const (
	UpsertCreated UpsertOutcome = "created"
	UpsertUpdated UpsertOutcome = "updated"
)

type SendResult struct {
	Phone      string `json:"phone"`
	ExternalID string `json:"external_id"`
	ZaapID     string `json:"zaap_id,omitempty"`
	Status     string `json:"status"`
	HistoryID  int64  `json:"history_id,omitempty"`
}

type BulkFailure struct {
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Total    int           `json:"total"`
	Sent     int           `json:"sent"`
	Queued   int           `json:"queued"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Failures []BulkFailure `json:"failures"`
}

type SyncResult struct {
	Pages   int `json:"pages"`
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type GatewayStatus struct {
	Connected           bool   `json:"connected"`
	SmartphoneConnected bool   `json:"smartphone_connected"`
	Error               string `json:"error,omitempty"`
}
