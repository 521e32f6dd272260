// internal/app/features/petitions/handler.go
package petitions

import (
	petitionstore "github.com/dalemusser/kairo/internal/app/store/petitions"
	userstore "github.com/dalemusser/kairo/internal/app/store/users"
	"github.com/dalemusser/kairo/internal/app/system/activitylog"
	"github.com/dalemusser/kairo/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the petition endpoints: public and own listings,
// creation, detail and signing.
type Handler struct {
	Petitions *petitionstore.Store
	Users     *userstore.Store
	Activity  *activitylog.Logger
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// NewHandler creates a petitions Handler. act and m may be nil.
func NewHandler(db *mongo.Database, act *activitylog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Petitions: petitionstore.New(db),
		Users:     userstore.New(db),
		Activity:  act,
		Metrics:   m,
		Log:       logger,
	}
}
