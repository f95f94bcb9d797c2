package handlers

// Recorder receives request outcomes for metrics.
type Recorder interface {
	WebhookRequest(bank string, status int)
	TransferResult(status int)
}

type nopRecorder struct{}

func (nopRecorder) WebhookRequest(string, int) {}
func (nopRecorder) TransferResult(int)         {}
