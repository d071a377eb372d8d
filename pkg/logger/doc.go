// Package logger builds configured log/slog loggers with consistent attribute
// naming for the notification service.
//
// The factory supports JSON and text formats, static attributes, and context
// extractors that pull request-scoped values (request id, recipient id) into
// every record. Attribute helpers keep log keys uniform across packages:
//
//	log := logger.New(
//		logger.WithProduction("notifyhub"),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.LogAttrs(ctx, slog.LevelInfo, "notification delivered",
//		logger.RecipientID(id),
//		logger.NotificationID(notifID),
//	)
package logger
