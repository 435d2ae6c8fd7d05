package collector

import (
	"context"
	"time"

	"healthcart/database"
	collectorRepo "healthcart/database/repository/collector"
	timeslotRepo "healthcart/database/repository/timeslot"
	"healthcart/models"
	"healthcart/utils"

	"github.com/patrickmn/go-cache"
)

// CollectorService manages service regions and resolves pincodes to them.
type CollectorService interface {
	Lookup(ctx context.Context, pincode string) (*models.CollectorFolder, error)
	Get(ctx context.Context, id string) (*models.CollectorFolder, error)
	List(ctx context.Context, active *bool) ([]models.CollectorFolder, error)
	Create(ctx context.Context, req models.CollectorFolderRequest) (*models.CollectorFolder, error)
	Update(ctx context.Context, id string, upd models.CollectorFolderUpdate) (*models.CollectorFolder, error)
	SetActive(ctx context.Context, id string, active bool) (*models.CollectorFolder, error)
	// Delete removes the folder and its ledger rows, returning how many slots went with it.
	Delete(ctx context.Context, id string) (int64, error)
	DailyStats(ctx context.Context, id string) (*models.SlotStats, error)
}

// DefaultCollectorService is the production implementation.
type DefaultCollectorService struct {
	Repo  collectorRepo.CollectorRepository
	Slots timeslotRepo.TimeSlotRepository
	Tx    database.Transactor
	// Cache holds pincode lookups only. Capacity counters are always read from the ledger.
	Cache *cache.Cache
	Now   func() time.Time
	Loc   *time.Location
}

// NewCollectorService wires a service with a pincode cache of the given TTL.
func NewCollectorService(
	repo collectorRepo.CollectorRepository,
	slots timeslotRepo.TimeSlotRepository,
	tx database.Transactor,
	cacheTTL time.Duration,
) *DefaultCollectorService {
	return &DefaultCollectorService{
		Repo:  repo,
		Slots: slots,
		Tx:    tx,
		Cache: cache.New(cacheTTL, 2*cacheTTL),
		Now:   time.Now,
		Loc:   utils.Location(),
	}
}
