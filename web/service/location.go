package service

import (
	"time"

	"loctrack/database"
	"loctrack/database/model"
)

// LocationService persists geolocation records. Ownership checks live in
// the handlers; the store only enforces the owner reference itself.
type LocationService struct{}

// LocationUpdate is a partial location update. Nil fields are left
// untouched; the owner reference is immutable after creation.
type LocationUpdate struct {
	Latitude  *float64
	Longitude *float64
	Info      *string
}

// CreateLocation stores a new record, stamping PostedAt server-side.
func (s *LocationService) CreateLocation(location *model.Location) error {
	db := database.GetDB()

	location.PostedAt = time.Now().UTC()
	return db.Create(location).Error
}

func (s *LocationService) GetLocations() ([]model.Location, error) {
	db := database.GetDB()

	var locations []model.Location
	err := db.Model(model.Location{}).
		Find(&locations).
		Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *LocationService) GetLocation(id int) (*model.Location, error) {
	db := database.GetDB()

	location := &model.Location{}
	err := db.Model(model.Location{}).
		Where("id = ?", id).
		First(location).
		Error
	if err != nil {
		return nil, err
	}
	return location, nil
}

// GetLocationsByDates returns records whose PostedAt falls within
// [start, end], both bounds inclusive. No match is an empty slice, not an
// error; ordering is not guaranteed.
func (s *LocationService) GetLocationsByDates(start, end time.Time) ([]model.Location, error) {
	db := database.GetDB()

	var locations []model.Location
	err := db.Model(model.Location{}).
		Where("posted_at BETWEEN ? AND ?", start, end).
		Find(&locations).
		Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// UpdateLocation merges the given fields into the record and refreshes
// PostedAt regardless of which fields changed.
func (s *LocationService) UpdateLocation(location *model.Location, upd LocationUpdate) error {
	db := database.GetDB()

	if upd.Latitude != nil {
		location.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		location.Longitude = *upd.Longitude
	}
	if upd.Info != nil {
		location.Info = *upd.Info
	}
	location.PostedAt = time.Now().UTC()

	return db.Save(location).Error
}

func (s *LocationService) DeleteLocation(id int) error {
	db := database.GetDB()
	return db.Delete(&model.Location{}, id).Error
}
