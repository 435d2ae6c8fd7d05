package collector

import (
	"regexp"
	"sort"
	"strings"

	"healthcart/models"
	"healthcart/utils"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// ValidPincode reports whether p is a 6-digit postal code.
func ValidPincode(p string) bool {
	return pincodePattern.MatchString(p)
}

func normalizePincodes(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func validateFolder(f *models.CollectorFolder) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return utils.ValidationError("Folder name is required")
	}

	f.Pincodes = normalizePincodes(f.Pincodes)
	if len(f.Pincodes) == 0 {
		return utils.ValidationError("At least one pincode is required")
	}
	for _, p := range f.Pincodes {
		if !ValidPincode(p) {
			return utils.ValidationError("Invalid pincode %q: expected 6 digits", p)
		}
	}

	if f.MaxOrdersPerHour < 1 || f.MaxOrdersPerHour > models.MaxOrdersPerHourLimit {
		return utils.ValidationError("maxOrdersPerHour must be between 1 and %d", models.MaxOrdersPerHourLimit)
	}

	wh := f.WorkingHours
	if wh.Start < 0 || wh.Start > 23 || wh.End < 0 || wh.End > 23 {
		return utils.ValidationError("Working hours must be between 0 and 23")
	}
	if wh.Start >= wh.End {
		return utils.ValidationError("Working hours start must be before end")
	}
	return nil
}
