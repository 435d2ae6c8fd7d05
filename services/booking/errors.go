package booking

import (
	"errors"

	"healthcart/database"
	"healthcart/utils"
)

var (
	errOrderNotFound = utils.NotFoundError("Order not found")
	errNotOwner      = utils.ForbiddenError("Not authorized to manage bookings for this order")
	errNoBooking     = utils.StateError("No booking found for this order")
	errNotScheduled  = utils.StateError("Only scheduled orders can be cancelled")
)

func orderLookupError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return errOrderNotFound
	}
	return utils.RepoError("Failed to fetch order", err)
}
