package sites

import (
	"github.com/rotisserie/eris"

	"github.com/greenprism/siteopt/internal/model"
)

// ErrInvalidSite marks malformed demand-site input. Input is rejected here,
// before the optimizer ever sees it.
var ErrInvalidSite = eris.New("sites: invalid demand site")

// Validate checks every site for plausible coordinates and non-negative
// waste. The set itself must be non-empty.
func Validate(sites []model.DemandSite) error {
	if len(sites) == 0 {
		return eris.Wrap(ErrInvalidSite, "no sites provided")
	}
	for i, s := range sites {
		if s.Name == "" {
			return eris.Wrapf(ErrInvalidSite, "site %d has no name", i+1)
		}
		if s.Location.Lng < -180 || s.Location.Lng > 180 {
			return eris.Wrapf(ErrInvalidSite, "site %q longitude %v out of range", s.Name, s.Location.Lng)
		}
		if s.Location.Lat < -90 || s.Location.Lat > 90 {
			return eris.Wrapf(ErrInvalidSite, "site %q latitude %v out of range", s.Name, s.Location.Lat)
		}
		if s.DailyWaste < 0 {
			return eris.Wrapf(ErrInvalidSite, "site %q daily waste %v is negative", s.Name, s.DailyWaste)
		}
	}
	return nil
}
