package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
)

// DefaultTimeout matches the browser position request used by the report form.
const DefaultTimeout = 10 * time.Second

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location information unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnknown             = errors.New("unknown location error")
	ErrOutOfRange          = errors.New("coordinates out of range")
)

// Locator produces the device position.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// Resolve asks the locator for a position, waiting at most timeout. Failures are
// mapped onto the Err* reasons above.
func Resolve(ctx context.Context, locator Locator, timeout time.Duration) (models.Coordinates, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		coords models.Coordinates
		err    error
	}
	done := make(chan result, 1)
	go func() {
		coords, err := locator.Locate(ctx)
		done <- result{coords, err}
	}()

	select {
	case <-ctx.Done():
		return models.Coordinates{}, ErrTimeout
	case r := <-done:
		if r.err != nil {
			return models.Coordinates{}, classify(r.err)
		}
		if err := Validate(r.coords); err != nil {
			return models.Coordinates{}, err
		}
		return r.coords, nil
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrPositionUnavailable),
		errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}

// Validate checks that both components are finite and inside the lat/lon ranges.
func Validate(c models.Coordinates) error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return ErrOutOfRange
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return ErrOutOfRange
	}
	return nil
}

// Browser geolocation error codes.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// ClientReport is a position (or failure code) reported by the browser.
type ClientReport struct {
	Latitude  *float64
	Longitude *float64
	ErrorCode int
}

func (r ClientReport) Locate(context.Context) (models.Coordinates, error) {
	switch r.ErrorCode {
	case 0:
	case CodePermissionDenied:
		return models.Coordinates{}, ErrPermissionDenied
	case CodePositionUnavailable:
		return models.Coordinates{}, ErrPositionUnavailable
	case CodeTimeout:
		return models.Coordinates{}, ErrTimeout
	default:
		return models.Coordinates{}, fmt.Errorf("browser error code %d", r.ErrorCode)
	}
	if r.Latitude == nil || r.Longitude == nil {
		return models.Coordinates{}, ErrPositionUnavailable
	}
	return models.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
}

// Label formats coordinates for display next to a report.
func Label(c models.Coordinates) string {
	return fmt.Sprintf("Lat %.6f, Lng %.6f", c.Latitude, c.Longitude)
}

// Message returns the user-facing text for a resolution failure.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access was denied. Allow location access in the browser settings."
	case errors.Is(err, ErrPositionUnavailable):
		return "Location information is unavailable."
	case errors.Is(err, ErrTimeout):
		return "The location request timed out."
	case errors.Is(err, ErrOutOfRange):
		return "The reported coordinates are out of range."
	}
	return "An unknown error occurred while getting the location."
}
