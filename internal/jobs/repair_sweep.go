package jobs

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/fieldgraph/internal/dependency"
	"github.com/emrgen/fieldgraph/internal/fieldtype"
	"github.com/emrgen/fieldgraph/internal/queue"
	"github.com/emrgen/fieldgraph/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var _ CronJob = (*RepairSweep)(nil)

// RepairSweep periodically retries broken references against the live
// fields. Lifecycle events already repair eagerly; the sweep catches
// fields that appeared outside them, for example rows written by an
// import or another process.
type RepairSweep struct {
	store    store.Store
	registry *fieldtype.Registry
	queue    queue.InvalidationQueue
}

func NewRepairSweep(s store.Store, registry *fieldtype.Registry, q queue.InvalidationQueue) *RepairSweep {
	return &RepairSweep{
		store:    s,
		registry: registry,
		queue:    q,
	}
}

func (j *RepairSweep) Schedule() string {
	return "@every 10m"
}

func (j *RepairSweep) Run() {
	ctx := context.Background()

	broken, err := j.store.ListAllBrokenReferences(ctx)
	if err != nil {
		logrus.Errorf("repair sweep: listing broken references: %v", err)
		return
	}
	if len(broken) == 0 {
		return
	}

	// Each (table, name) pair needs at most one repair attempt no matter
	// how many edges wait on it.
	type reference struct {
		tableID string
		name    string
	}
	pending := mapset.NewSet[reference]()
	for _, edge := range broken {
		if edge.BrokenReferenceTableID == nil || edge.BrokenReferenceFieldName == nil {
			continue
		}
		pending.Add(reference{tableID: *edge.BrokenReferenceTableID, name: *edge.BrokenReferenceFieldName})
	}

	repaired := mapset.NewSet[string]()
	for ref := range pending.Iter() {
		err := j.store.Transaction(ctx, func(tx store.Store) error {
			field, err := tx.GetFieldByName(ctx, ref.tableID, ref.name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Still missing; the edges stay broken until it appears.
				return nil
			}
			if err != nil {
				return err
			}
			handler := dependency.NewHandler(tx, j.registry)
			dependants, err := handler.RepairDependencies(ctx, field)
			if err != nil {
				return err
			}
			repaired.Append(dependants...)
			return nil
		})
		if err != nil {
			logrus.Errorf("repair sweep: repairing %q: %v", ref.name, err)
		}
	}

	if j.queue != nil && repaired.Cardinality() > 0 {
		err := j.queue.Publish(ctx, &queue.Invalidation{
			FieldIDs: repaired.ToSlice(),
			Reason:   "repair_sweep",
		})
		if err != nil {
			logrus.Errorf("repair sweep: publishing invalidation: %v", err)
		}
	}
}
