package zapi

type SendResponse struct {
	ZaapID    string `json:"zaapId"`
	MessageID string `json:"messageId"`
	ID        string `json:"id"`
}

type StatusResponse struct {
	Connected           bool   `json:"connected"`
	Status              string `json:"status,omitempty"`
	Error               string `json:"error,omitempty"`
	SmartphoneConnected bool   `json:"smartphoneConnected"`
}

type RestartResponse struct {
	Value bool `json:"value"`
}
