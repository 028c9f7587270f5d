// Package notify announces release events.
//
// A Notifier receives an Event when a release is published or fails.
// WebhookNotifier posts the event as JSON to a configured URL;
// LogNotifier writes it to slog. Notification failures never fail the
// release itself.
package notify
