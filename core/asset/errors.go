package asset

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID       = errors.New("asset does not have ID")
	ErrUnknownLayer  = errors.New("unknown layer")
	ErrUnknownStatus = errors.New("unknown status")
)

type NotFoundError struct {
	AssetID string
}

func (err NotFoundError) Error() string {
	if err.AssetID != "" {
		return fmt.Sprintf("no such asset: %q", err.AssetID)
	}
	return "could not find asset"
}

type DuplicateIDError struct {
	AssetID string
}

func (err DuplicateIDError) Error() string {
	return fmt.Sprintf("asset already registered with id %q", err.AssetID)
}

type InvalidPositionError struct {
	Lat float64
	Lng float64
}

func (err InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat %v, lng %v", err.Lat, err.Lng)
}
