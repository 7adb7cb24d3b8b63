package mongodb

import (
	"context"
	"errors"
	"fmt"

	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// translateError maps driver errors onto the application taxonomy.
func translateError(err error, resource, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return utils.NewNotFoundError(resource)
	case mongo.IsDuplicateKeyError(err):
		return interfaces.ErrDuplicateKey
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return utils.NewUnavailableError(fmt.Sprintf("failed to %s", op), err)
	default:
		var appErr *utils.AppError
		if errors.As(err, &appErr) || errors.Is(err, interfaces.ErrConditionFailed) {
			return err
		}
		return utils.NewInternalError(fmt.Sprintf("failed to %s", op), err)
	}
}
