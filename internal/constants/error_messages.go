package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidPhone        = "INVALID_PHONE"
	ErrCodeEmptyPayload        = "EMPTY_PAYLOAD"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeInvalidSchedule     = "INVALID_SCHEDULE"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeScheduleNotFound    = "SCHEDULE_NOT_FOUND"
	ErrCodeSyncInProgress      = "SYNC_IN_PROGRESS"
	ErrCodeGatewayDisconnected = "GATEWAY_DISCONNECTED"
	ErrCodeRemoteAPIError      = "REMOTE_API_ERROR"
	ErrCodeQueueUnavailable    = "QUEUE_UNAVAILABLE"
	ErrCodeSchedulerDisabled   = "SCHEDULER_DISABLED"
	ErrCodePersistenceError    = "PERSISTENCE_ERROR"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

const (
	MessageSent         = "message sent successfully"
	MessagesQueued      = "messages queued successfully"
	BulkCompleted       = "bulk send completed"
	HistoryRetrieved    = "history retrieved successfully"
	HistoryCleared      = "history cleared successfully"
	StatusUpdated       = "status updated successfully"
	ContactsRetrieved   = "contacts retrieved successfully"
	ContactRetrieved    = "contact retrieved successfully"
	SyncCompleted       = "contact sync completed"
	TaskScheduled       = "task scheduled successfully"
	TasksRetrieved      = "scheduled tasks retrieved successfully"
	TaskCancelled       = "scheduled task cancelled"
	GatewayRetrieved    = "gateway status retrieved successfully"
	GatewayRestarted    = "gateway restart requested"
	WebhookReceived     = "received"
	WebhookIgnored      = "ignored"
	ResponseCodeSuccess = "success"
)

const (
	ErrMsgValidationFailed    = "validation failed"
	ErrMsgInvalidPhone        = "invalid phone number"
	ErrMsgEmptyPayload        = "payload carries no message content"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgInvalidStatus       = "unknown contact status"
	ErrMsgInvalidSchedule     = "invalid schedule"
	ErrMsgUnauthorized        = "invalid client token"
	ErrMsgNotFound            = "resource not found"
	ErrMsgScheduleNotFound    = "scheduled task not found"
	ErrMsgSyncInProgress      = "a contact sync is already running"
	ErrMsgGatewayDisconnected = "whatsapp gateway is not connected"
	ErrMsgRemoteAPIError      = "remote api call failed"
	ErrMsgQueueUnavailable    = "send queue is not configured"
	ErrMsgSchedulerDisabled   = "scheduler is disabled"
	ErrMsgPersistenceError    = "failed to persist data"
	ErrMsgInternalError       = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeInvalidPhone:        ErrMsgInvalidPhone,
	ErrCodeEmptyPayload:        ErrMsgEmptyPayload,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeInvalidStatus:       ErrMsgInvalidStatus,
	ErrCodeInvalidSchedule:     ErrMsgInvalidSchedule,
	ErrCodeUnauthorized:        ErrMsgUnauthorized,
	ErrCodeNotFound:            ErrMsgNotFound,
	ErrCodeScheduleNotFound:    ErrMsgScheduleNotFound,
	ErrCodeSyncInProgress:      ErrMsgSyncInProgress,
	ErrCodeGatewayDisconnected: ErrMsgGatewayDisconnected,
	ErrCodeRemoteAPIError:      ErrMsgRemoteAPIError,
	ErrCodeQueueUnavailable:    ErrMsgQueueUnavailable,
	ErrCodeSchedulerDisabled:   ErrMsgSchedulerDisabled,
	ErrCodePersistenceError:    ErrMsgPersistenceError,
	ErrCodeInternalError:       ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidPhone, ErrCodeEmptyPayload,
		ErrCodeInvalidRequestBody, ErrCodeInvalidStatus, ErrCodeInvalidSchedule:
		return 400
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeNotFound, ErrCodeScheduleNotFound:
		return 404
	case ErrCodeSyncInProgress:
		return 409
	case ErrCodeRemoteAPIError:
		return 502
	case ErrCodeGatewayDisconnected, ErrCodeQueueUnavailable, ErrCodeSchedulerDisabled:
		return 503
	default:
		return 500
	}
}
