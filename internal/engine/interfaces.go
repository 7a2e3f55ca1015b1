package engine

import (
	"context"

	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/model"
)

// Confirmer asks the user whether to save a sheet that still has empty parts.
type Confirmer interface {
	ConfirmSave(ctx context.Context, advisory grid.Advisory) (bool, error)
}

// SessionCache is the local copy of saved sessions.
type SessionCache interface {
	Record(sess model.Session) error
	Last() (model.Session, bool)
}
