package painpoint

import "errors"

var (
	// ErrInsufficientData is returned by Classifier.Fit when the training set
	// is too small or has too few distinct labels.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrNotTrained is returned by operations that need a fitted classifier.
	ErrNotTrained = errors.New("classifier is not trained")

	// ErrSerialization is returned when a classifier artifact cannot be
	// encoded or decoded.
	ErrSerialization = errors.New("classifier artifact serialization failed")

	// ErrInvalidLabel is returned when a training sample carries a label
	// outside positive, negative and neutral.
	ErrInvalidLabel = errors.New("invalid sentiment label")
)
