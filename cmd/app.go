package cmd

import (
	"time"

	"healthcart/config"
	"healthcart/database"
	collectorRepo "healthcart/database/repository/collector"
	orderRepo "healthcart/database/repository/order"
	timeslotRepo "healthcart/database/repository/timeslot"
	userRepoPkg "healthcart/database/repository/user"
	"healthcart/services/booking"
	"healthcart/services/collector"
	"healthcart/services/order"
	"healthcart/services/reconcile"
)

// app holds the wired repositories and services shared by every command.
type app struct {
	Folders collectorRepo.CollectorRepository
	Slots   timeslotRepo.TimeSlotRepository
	Orders  orderRepo.OrderRepository
	Users   userRepoPkg.UserRepository

	Collector  *collector.DefaultCollectorService
	Booking    *booking.DefaultBookingService
	Order      *order.DefaultOrderService
	Reconciler *reconcile.Reconciler
}

// bootstrap loads configuration, connects MongoDB and builds the service graph.
func bootstrap() *app {
	db := database.DB()
	tx := database.NewTransactor(database.MongoClient, config.AppConfig.MongoTransactions)

	a := &app{
		Folders: collectorRepo.NewMongoCollectorRepo(db),
		Slots:   timeslotRepo.NewMongoTimeSlotRepo(db),
		Orders:  orderRepo.NewMongoOrderRepo(db),
		Users:   userRepoPkg.NewMongoUserRepo(db),
	}

	cacheTTL := time.Duration(config.AppConfig.RegionCacheTTLSeconds) * time.Second
	a.Collector = collector.NewCollectorService(a.Folders, a.Slots, tx, cacheTTL)
	a.Booking = booking.NewBookingService(a.Collector, a.Slots, a.Orders, a.Users, tx)
	a.Order = order.NewOrderService(a.Orders, a.Booking)

	grace := time.Duration(config.AppConfig.ReconcileGraceMinutes) * time.Minute
	a.Reconciler = reconcile.NewReconciler(a.Slots, a.Orders, grace)
	return a
}
