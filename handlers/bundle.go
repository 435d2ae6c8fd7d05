package handlers

import (
	userRepoPkg "healthcart/database/repository/user"
)

// HandlerBundle groups the endpoint handlers and the repositories the auth middleware needs.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Booking   *BookingHandler
	Collector *CollectorHandler
	Order     *OrderHandler
	Admin     *AdminHandler
}
