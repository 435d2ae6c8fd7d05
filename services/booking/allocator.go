package booking

import (
	"context"
	"fmt"
	"time"

	"healthcart/models"
	"healthcart/utils"
)

// today is the current calendar date in the business timezone.
func (s *DefaultBookingService) today() time.Time {
	return utils.CalendarDate(s.Now(), s.Loc)
}

// parseBookableDate parses raw and rejects days before today. Time of day is ignored.
func (s *DefaultBookingService) parseBookableDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, utils.ValidationError("Date is required")
	}
	date, err := utils.ParseDate(raw, s.Loc)
	if err != nil {
		return time.Time{}, utils.ValidationError("%s", err.Error())
	}
	if date.Before(s.today()) {
		return time.Time{}, utils.ValidationError("Cannot book or view slots for past dates")
	}
	return date, nil
}

func (s *DefaultBookingService) AvailableSlots(ctx context.Context, pincode, rawDate string) (*models.DaySlots, error) {
	if pincode == "" {
		return nil, utils.ValidationError("Pincode is required")
	}
	date, err := s.parseBookableDate(rawDate)
	if err != nil {
		return nil, err
	}
	folder, err := s.Folders.Lookup(ctx, pincode)
	if err != nil {
		return nil, err
	}

	slots, err := s.ensureDay(ctx, folder, date)
	if err != nil {
		return nil, err
	}

	out := &models.DaySlots{
		FolderID:   folder.ID,
		FolderName: folder.Name,
		Date:       utils.FormatDate(date),
		Slots:      make([]models.AvailableSlot, 0, len(slots)),
	}
	for _, ts := range slots {
		out.Slots = append(out.Slots, models.NewAvailableSlot(ts))
	}
	return out, nil
}

// ensureDay returns one ledger row per working hour, creating the missing ones with the
// folder's current capacity. Rows created earlier keep the ceiling they were created with.
func (s *DefaultBookingService) ensureDay(ctx context.Context, folder *models.CollectorFolder, date time.Time) ([]models.TimeSlot, error) {
	existing, err := s.Slots.FindByFolderAndDate(ctx, folder.ID, date)
	if err != nil {
		return nil, utils.RepoError("Failed to load timeslots", err)
	}
	byHour := make(map[int]models.TimeSlot, len(existing))
	for _, ts := range existing {
		byHour[ts.Hour] = ts
	}

	hours := folder.WorkingHours.Hours()
	day := make([]models.TimeSlot, 0, len(hours))
	for _, h := range hours {
		if ts, ok := byHour[h]; ok {
			day = append(day, ts)
			continue
		}
		ts, err := s.Slots.GetOrCreate(ctx, folder.ID, date, h, folder.MaxOrdersPerHour)
		if err != nil {
			return nil, utils.RepoError("Failed to create timeslot", err)
		}
		day = append(day, *ts)
	}
	return day, nil
}

func (s *DefaultBookingService) NextAvailable(ctx context.Context, pincode, rawDate string, currentHour *int) (*models.NextAvailable, error) {
	if pincode == "" {
		return nil, utils.ValidationError("Pincode is required")
	}
	date, err := s.parseBookableDate(rawDate)
	if err != nil {
		return nil, err
	}
	if currentHour != nil && (*currentHour < 0 || *currentHour > 23) {
		return nil, utils.ValidationError("currentHour must be between 0 and 23")
	}
	folder, err := s.Folders.Lookup(ctx, pincode)
	if err != nil {
		return nil, err
	}

	ref := folder.WorkingHours.Start - 1
	switch {
	case currentHour != nil:
		ref = *currentHour
	case date.Equal(s.today()):
		ref = s.Now().In(s.Loc).Hour()
	}
	return s.nextAvailable(ctx, folder, date, ref)
}

// nextAvailable scans hours strictly after ref up to closing. A missing ledger row counts
// as free. When the day is exhausted it suggests the next day's opening hour without
// checking that day's capacity.
func (s *DefaultBookingService) nextAvailable(ctx context.Context, folder *models.CollectorFolder, date time.Time, ref int) (*models.NextAvailable, error) {
	existing, err := s.Slots.FindByFolderAndDate(ctx, folder.ID, date)
	if err != nil {
		return nil, utils.RepoError("Failed to load timeslots", err)
	}
	byHour := make(map[int]models.TimeSlot, len(existing))
	for _, ts := range existing {
		byHour[ts.Hour] = ts
	}

	start := ref + 1
	if start < folder.WorkingHours.Start {
		start = folder.WorkingHours.Start
	}
	for h := start; h < folder.WorkingHours.End; h++ {
		remaining := folder.MaxOrdersPerHour
		if ts, ok := byHour[h]; ok {
			remaining = ts.RemainingSlots()
		}
		if remaining > 0 {
			hour := h
			return &models.NextAvailable{
				Available:      true,
				Date:           utils.FormatDate(date),
				Hour:           &hour,
				TimeSlot:       models.HourRange(h),
				RemainingSlots: remaining,
			}, nil
		}
	}

	opening := folder.WorkingHours.Start
	return &models.NextAvailable{
		Available:     false,
		Date:          utils.FormatDate(date),
		Message:       fmt.Sprintf("No slots available on %s", utils.FormatDate(date)),
		NextDate:      utils.FormatDate(date.AddDate(0, 0, 1)),
		SuggestedHour: &opening,
		SuggestedTime: models.HourRange(opening),
	}, nil
}

func (s *DefaultBookingService) FolderSlots(ctx context.Context, folderID, rawDate string) ([]models.TimeSlot, error) {
	folder, err := s.Folders.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var date *time.Time
	if rawDate != "" {
		d, err := utils.ParseDate(rawDate, s.Loc)
		if err != nil {
			return nil, utils.ValidationError("%s", err.Error())
		}
		date = &d
	}

	slots, err := s.Slots.ListByFolder(ctx, folder.ID, date)
	if err != nil {
		return nil, utils.RepoError("Failed to list timeslots", err)
	}
	return slots, nil
}
