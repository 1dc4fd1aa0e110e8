package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile               = errors.New("no image file was uploaded")
	ErrMissingTags          = errors.New("tags string is required")
	ErrUnsupportedType      = errors.New("uploaded file is not an image")
	ErrTooManyCustom        = errors.New("at most 3 custom annotations are allowed")
	ErrReservedAnnotation   = errors.New("custom annotation key is reserved")
	ErrInvalidAnnotationKey = errors.New("invalid custom annotation key")
	ErrNotAnImage           = errors.New("entity is not an image of this application")
	ErrParentNotFound       = errors.New("parent not found")
	ErrInvalidDimensions    = errors.New("width and height must be positive integers")
	ErrThumbnail            = errors.New("could not derive thumbnail")
)

// PartialWriteError is returned when the root entity was committed but a
// later entity of the same object was not. The entities already written
// stay in the store until their lease runs out.
type PartialWriteError struct {
	RootKey        string
	Stage          string
	CommittedParts uint64
	PartOf         uint64
	Err            error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial object %s: %s failed after %d of %d parts: %v",
		e.RootKey, e.Stage, e.CommittedParts, e.PartOf, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// ReconstructionError reports an object whose stored entities do not add up
// to a complete, consistent byte sequence.
type ReconstructionError struct {
	RootKey string
	Part    uint64
	Matches int
	Reason  string
}

func (e *ReconstructionError) Error() string {
	if e.Part == 0 {
		return fmt.Sprintf("reconstruct %s: %s", e.RootKey, e.Reason)
	}

	return fmt.Sprintf("reconstruct %s: part %d: %s (%d matches)", e.RootKey, e.Part, e.Reason, e.Matches)
}
