// Package notify defines the notification sink the agent fires when a match
// clears the notification threshold. The transport (email/SMS) lives behind
// the Notifier interface; the default sink just logs.
package notify

import (
	"context"
	"log/slog"

	"github.com/Kavirubc/findora/pkg/models"
)

// Notifier delivers a high-confidence match to both reporters
type Notifier interface {
	Notify(ctx context.Context, lost, found *models.Item, confidence float64) error
}

// LogNotifier writes notifications to the structured log. It stands in for a
// real email/SMS transport.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notification sink
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the match with both reporters' contact details
func (n *LogNotifier) Notify(ctx context.Context, lost, found *models.Item, confidence float64) error {
	n.logger.Info("match notification",
		"lost_item", lost.Title,
		"lost_contact", lost.ContactInfo,
		"found_item", found.Title,
		"found_contact", found.ContactInfo,
		"confidence", confidence)
	return nil
}
