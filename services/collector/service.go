package collector

import (
	"context"
	"errors"
	"math"
	"strings"

	"healthcart/database"
	"healthcart/models"
	"healthcart/utils"
)

const pincodeKeyPrefix = "pincode:"

func (s *DefaultCollectorService) Lookup(ctx context.Context, pincode string) (*models.CollectorFolder, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, utils.ValidationError("Pincode is required")
	}
	if !ValidPincode(pincode) {
		return nil, utils.ValidationError("Invalid pincode %q: expected 6 digits", pincode)
	}

	if cached, ok := s.Cache.Get(pincodeKeyPrefix + pincode); ok {
		folder := cached.(models.CollectorFolder)
		return &folder, nil
	}

	folder, err := s.Repo.FindActiveByPincode(ctx, pincode)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("No collection service available for pincode %s", pincode)
		}
		return nil, utils.RepoError("Failed to look up pincode", err)
	}
	s.Cache.SetDefault(pincodeKeyPrefix+pincode, *folder)
	return folder, nil
}

func (s *DefaultCollectorService) Get(ctx context.Context, id string) (*models.CollectorFolder, error) {
	folder, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("Collector folder %s not found", id)
		}
		return nil, utils.RepoError("Failed to fetch collector folder", err)
	}
	return folder, nil
}

func (s *DefaultCollectorService) List(ctx context.Context, active *bool) ([]models.CollectorFolder, error) {
	folders, err := s.Repo.List(ctx, active)
	if err != nil {
		return nil, utils.RepoError("Failed to list collector folders", err)
	}
	return folders, nil
}

func (s *DefaultCollectorService) Create(ctx context.Context, req models.CollectorFolderRequest) (*models.CollectorFolder, error) {
	folder := &models.CollectorFolder{
		Name:             req.Name,
		CollectorID:      strings.TrimSpace(req.CollectorID),
		Pincodes:         req.Pincodes,
		MaxOrdersPerHour: models.DefaultMaxOrdersPerHour,
		WorkingHours:     models.WorkingHours{Start: models.DefaultWorkingStart, End: models.DefaultWorkingEnd},
		IsActive:         true,
	}
	if req.MaxOrdersPerHour != nil {
		folder.MaxOrdersPerHour = *req.MaxOrdersPerHour
	}
	if req.WorkingHours != nil {
		folder.WorkingHours = *req.WorkingHours
	}
	if req.IsActive != nil {
		folder.IsActive = *req.IsActive
	}

	if err := validateFolder(folder); err != nil {
		return nil, err
	}
	if err := s.checkPincodeClaims(ctx, folder); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, folder); err != nil {
		return nil, utils.RepoError("Failed to create collector folder", err)
	}
	s.Cache.Flush()
	return folder, nil
}

func (s *DefaultCollectorService) Update(ctx context.Context, id string, upd models.CollectorFolderUpdate) (*models.CollectorFolder, error) {
	folder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		folder.Name = *upd.Name
	}
	if upd.CollectorID != nil {
		folder.CollectorID = strings.TrimSpace(*upd.CollectorID)
	}
	if upd.Pincodes != nil {
		folder.Pincodes = upd.Pincodes
	}
	if upd.MaxOrdersPerHour != nil {
		folder.MaxOrdersPerHour = *upd.MaxOrdersPerHour
	}
	if upd.WorkingHours != nil {
		folder.WorkingHours = *upd.WorkingHours
	}
	if upd.IsActive != nil {
		folder.IsActive = *upd.IsActive
	}

	return s.save(ctx, folder)
}

func (s *DefaultCollectorService) SetActive(ctx context.Context, id string, active bool) (*models.CollectorFolder, error) {
	folder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	folder.IsActive = active
	return s.save(ctx, folder)
}

func (s *DefaultCollectorService) save(ctx context.Context, folder *models.CollectorFolder) (*models.CollectorFolder, error) {
	if err := validateFolder(folder); err != nil {
		return nil, err
	}
	if err := s.checkPincodeClaims(ctx, folder); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, folder); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("Collector folder %s not found", folder.ID)
		}
		return nil, utils.RepoError("Failed to update collector folder", err)
	}
	s.Cache.Flush()
	return folder, nil
}

// checkPincodeClaims keeps every pincode owned by at most one active folder.
func (s *DefaultCollectorService) checkPincodeClaims(ctx context.Context, folder *models.CollectorFolder) error {
	if !folder.IsActive {
		return nil
	}
	others, err := s.Repo.FindActiveClaiming(ctx, folder.Pincodes, folder.ID)
	if err != nil {
		return utils.RepoError("Failed to check pincode coverage", err)
	}
	if len(others) == 0 {
		return nil
	}

	mine := make(map[string]bool, len(folder.Pincodes))
	for _, p := range folder.Pincodes {
		mine[p] = true
	}
	var clashes []string
	for _, p := range others[0].Pincodes {
		if mine[p] {
			clashes = append(clashes, p)
		}
	}
	return utils.ConflictError("Pincode(s) %s already covered by active folder %q",
		strings.Join(clashes, ", "), others[0].Name)
}

func (s *DefaultCollectorService) Delete(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.Delete(ctx, id); err != nil {
			return err
		}
		n, err := s.Slots.DeleteByFolder(ctx, id)
		removed = n
		return err
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, utils.NotFoundError("Collector folder %s not found", id)
		}
		return 0, utils.RepoError("Failed to delete collector folder", err)
	}
	s.Cache.Flush()
	return removed, nil
}

func (s *DefaultCollectorService) DailyStats(ctx context.Context, id string) (*models.SlotStats, error) {
	folder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	today := utils.CalendarDate(s.Now(), s.Loc)
	agg, err := s.Slots.DailyAggregate(ctx, folder.ID, today)
	if err != nil {
		return nil, utils.RepoError("Failed to compute folder stats", err)
	}

	return &models.SlotStats{
		FolderID:       folder.ID,
		Date:           utils.FormatDate(today),
		TotalSlots:     agg.TotalSlots,
		TotalBookings:  agg.TotalBookings,
		AvailableSlots: agg.AvailableSlots,
		Utilization:    Utilization(agg.TotalBookings, agg.TotalSlots, folder.MaxOrdersPerHour),
	}, nil
}

// Utilization is booked capacity as a percentage, rounded to two decimals; zero when no
// slots exist yet.
func Utilization(totalBookings, totalSlots, maxPerHour int) float64 {
	if totalSlots == 0 || maxPerHour == 0 {
		return 0
	}
	pct := float64(totalBookings) / float64(totalSlots*maxPerHour) * 100
	return math.Round(pct*100) / 100
}
