package location

import (
	"fmt"
	"math"
	"strings"
)

const (
	maxNameLength     = 100
	maxTypeLength     = 50
	maxBuildingLength = 100
)

// ValidateName checks if a location name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateLocation validates a Location before persistence.
func ValidateLocation(l *Location) error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidLocation)
	}
	if err := ValidateName(l.Name); err != nil {
		return err
	}
	if l.Type == "" {
		return fmt.Errorf("%w: type cannot be empty", ErrInvalidLocation)
	}
	if len(l.Type) > maxTypeLength {
		return fmt.Errorf("%w: type exceeds %d characters", ErrInvalidLocation, maxTypeLength)
	}
	if l.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidLocation)
	}
	if len(l.Building) > maxBuildingLength {
		return fmt.Errorf("%w: building exceeds %d characters", ErrInvalidLocation, maxBuildingLength)
	}
	if l.ParentID != nil && *l.ParentID == l.ID {
		return fmt.Errorf("%w: location cannot be its own parent", ErrInvalidLocation)
	}
	return nil
}

// ValidateConnection validates a Connection before persistence.
func ValidateConnection(c *Connection) error {
	if c.FromID == "" || c.ToID == "" {
		return fmt.Errorf("%w: from_id and to_id are required", ErrInvalidConnection)
	}
	if c.FromID == c.ToID {
		return fmt.Errorf("%w: connection cannot loop to itself", ErrInvalidConnection)
	}
	if c.DistanceMeters < 0 || math.IsNaN(c.DistanceMeters) || math.IsInf(c.DistanceMeters, 0) {
		return fmt.Errorf("%w: distance_meters must be a non-negative number", ErrInvalidConnection)
	}
	if c.TravelTimeSeconds < 0 {
		return fmt.Errorf("%w: travel_time_seconds must not be negative", ErrInvalidConnection)
	}
	return nil
}
