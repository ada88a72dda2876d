// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. Uniqueness violations raised by
// MySQL (error 1062) are translated here into the same sentinel a
// pre-check would have produced, so a race between two concurrent
// transactions surfaces as an ordinary validation failure.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateCarriageNumber is returned when a carriage with the
// same number already exists for the same train.  It covers both the
// application-level pre-check and the unique key violation observed
// at insert time.
var ErrDuplicateCarriageNumber = errors.New("carriage with this number already exists for this train")

// ErrDuplicateTrainNumber is returned when a train with the same
// number already exists.
var ErrDuplicateTrainNumber = errors.New("train with this number already exists")

// Not-found sentinels, one per entity.  Handlers translate these into
// HTTP 404 responses.
var (
	ErrTrainTypeNotFound = errors.New("train type not found")
	ErrTrainNotFound     = errors.New("train not found")
	ErrCarriageNotFound  = errors.New("carriage not found")
	ErrStationNotFound   = errors.New("station not found")
	ErrRouteNotFound     = errors.New("route not found")
	ErrCrewNotFound      = errors.New("crew member not found")
	ErrJourneyNotFound   = errors.New("journey not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// isDuplicateEntry reports whether err is a MySQL duplicate entry
// error (1062) raised by a unique key.
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
