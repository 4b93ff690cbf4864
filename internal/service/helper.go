package service

import (
	"context"
	"errors"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
)

var ErrNotHelper = errors.New("caller is not a registered helper")

// HelperService is the engine's thin face on the helper directory: browse
// available helpers and flip the caller's availability bit. Profile
// management itself lives in the directory service.
type HelperService struct {
	helpers HelperDirectory
}

func NewHelperService(helpers HelperDirectory) *HelperService {
	return &HelperService{helpers: helpers}
}

// ListAvailable returns helpers currently accepting requests.
func (s *HelperService) ListAvailable(ctx context.Context, limit int) ([]*model.HelperProfile, error) {
	return s.helpers.ListAvailable(ctx, limit)
}

// SetAvailability toggles the caller's flag. Fails when the caller has no
// helper profile.
func (s *HelperService) SetAvailability(ctx context.Context, callerID string, available bool) (*model.HelperProfile, error) {
	updated, err := s.helpers.SetAvailability(ctx, callerID, available)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotHelper
	}
	return s.helpers.Get(ctx, callerID)
}
