package store

import (
	"errors"
	"time"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentFilter narrows ListDocuments. Zero fields match everything.
type DocumentFilter struct {
	Source string
	Label  painpoint.Label
	Since  time.Time // created_at at or after
	Limit  int
}

// PainPointFilter narrows ListPainPoints. Zero fields match everything.
type PainPointFilter struct {
	Category    painpoint.Tier
	Product     string
	MinSeverity float64
	Limit       int
}

// Artifact is a stored classifier model.
type Artifact struct {
	Name      string
	Blob      []byte
	TrainedAt time.Time
}
