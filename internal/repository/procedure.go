package repository

import (
	"strings"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

// procedureError turns an exception raised by a stored procedure into a business
// rejection carrying the procedure's own message. Other errors are returned as is.
func procedureError(err error) error {
	msg, ok := db.RaisedMessage(err)
	if !ok {
		return err
	}
	if strings.HasPrefix(msg, "insufficient stock") {
		return apperr.ErrInsufficientStock.WithMsg(msg).WrapParent(err)
	}
	return apperr.ErrBusinessRejection.WithMsg(msg).WrapParent(err)
}
