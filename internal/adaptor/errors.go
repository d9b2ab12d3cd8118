package adaptor

import (
	"net/http"

	"transit-booking/internal/usecase"
	"transit-booking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps a usecase error kind to its HTTP status.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := usecase.KindOf(err)
	msg := usecase.MessageOf(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", kind.String()),
	}

	switch kind {
	case usecase.KindValidation:
		log.Warn(operation+" validation failed", fields...)
		utils.ResponseBadRequest(w, msg, nil)

	case usecase.KindNotFound:
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, msg)

	case usecase.KindForbidden:
		log.Warn(operation+" failed - invalid state", fields...)
		utils.ResponseForbidden(w, msg)

	case usecase.KindInsufficientSeats:
		log.Info(operation+" failed - insufficient seats", fields...)
		utils.ResponseConflict(w, msg, map[string]any{"kind": kind.String(), "retryable": false})

	case usecase.KindConflict:
		log.Warn(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, msg, map[string]any{"kind": kind.String(), "retryable": usecase.IsRetryable(err)})

	case usecase.KindTimedOut:
		log.Info(operation+" failed - reservation expired", fields...)
		utils.ResponseGone(w, msg)

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
