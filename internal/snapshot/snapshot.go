// Package snapshot saves named recovery points of a plan. Writes go to a
// remote store first and fall back to a local cache, so the list the user
// sees keeps growing while the remote is unreachable.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// Kind separates scheduled saves from user saves. Each kind has its own cap.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindManual Kind = "manual"
)

// Default caps per kind.
const (
	DefaultMaxAuto   = 10
	DefaultMaxManual = 20
)

var (
	// ErrNotFound is returned when no store knows the snapshot.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidPayload is returned when a stored snapshot fails validation.
	ErrInvalidPayload = errors.New("invalid snapshot payload")
)

// Record is one saved snapshot.
type Record struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"project_id"`
	Kind      Kind                `json:"kind"`
	Label     string              `json:"label"`
	CreatedAt time.Time           `json:"created_at"`
	Scene     model.Scene         `json:"scene"`
	View      *model.ViewSettings `json:"view,omitempty"`
	Lot       *model.Lot          `json:"lot,omitempty"`
}

// Validate checks a record before it is restored.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	if r.Kind != KindAuto && r.Kind != KindManual {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, r.Kind)
	}
	if err := r.Scene.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if r.View != nil {
		if err := r.View.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	if r.Lot != nil {
		if err := r.Lot.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	return nil
}

// Remote is the authoritative store for snapshots and lot records.
type Remote interface {
	SaveLot(ctx context.Context, lot model.Lot) (model.Lot, error)
	CreateSnapshot(ctx context.Context, rec Record) (Record, error)
	ListSnapshots(ctx context.Context, projectID string) ([]Record, error)
	GetSnapshot(ctx context.Context, id string) (Record, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// Cache keeps the last known snapshot list of each project locally.
type Cache interface {
	Load(projectID string) ([]Record, error)
	Store(projectID string, recs []Record) error
}

// Bridge combines a remote store and a local cache for one project.
type Bridge struct {
	projectID string
	remote    Remote
	cache     Cache
	caps      map[Kind]int
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewBridge creates a bridge. Either store may be nil.
func NewBridge(projectID string, remote Remote, cache Cache, log logrus.FieldLogger) *Bridge {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bridge{
		projectID: projectID,
		remote:    remote,
		cache:     cache,
		caps:      map[Kind]int{KindAuto: DefaultMaxAuto, KindManual: DefaultMaxManual},
		log:       log.WithField("project", projectID),
		now:       time.Now,
	}
}

// SetCap changes how many snapshots of kind are kept.
func (b *Bridge) SetCap(kind Kind, n int) {
	if n > 0 {
		b.caps[kind] = n
	}
}

// Create saves a snapshot of scene with optional view settings and lot.
// A remote failure is logged and the record is kept in the cache only.
func (b *Bridge) Create(ctx context.Context, kind Kind, label string, scene model.Scene, view *model.ViewSettings, lot *model.Lot) (Record, error) {
	rec := Record{
		ID:        uuid.New().String(),
		ProjectID: b.projectID,
		Kind:      kind,
		Label:     label,
		CreatedAt: b.now().UTC(),
		Scene:     scene.Clone(),
	}
	if view != nil {
		v := *view
		rec.View = &v
	}
	if lot != nil {
		l := lot.Clone()
		rec.Lot = &l
	}

	remoteOK := false
	if b.remote != nil {
		saved, err := b.remote.CreateSnapshot(ctx, rec)
		if err != nil {
			b.log.WithError(err).Warn("remote snapshot save failed, keeping local copy")
		} else {
			rec = saved
			remoteOK = true
		}
	}

	cached := b.loadCache()
	merged, evicted := b.trim(append(withoutID(cached, rec.ID), rec))
	if remoteOK {
		for _, old := range evicted {
			if err := b.remote.DeleteSnapshot(ctx, old.ID); err != nil {
				b.log.WithError(err).WithField("snapshot", old.ID).Warn("remote prune failed")
			}
		}
	}
	if err := b.storeCache(merged); err != nil && !remoteOK {
		return Record{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return rec, nil
}

// List returns the project's snapshots, newest first: from the remote
// when reachable, otherwise from the cache.
func (b *Bridge) List(ctx context.Context) ([]Record, error) {
	if b.remote != nil {
		recs, err := b.remote.ListSnapshots(ctx, b.projectID)
		if err == nil {
			sortNewestFirst(recs)
			if err := b.storeCache(recs); err != nil {
				b.log.WithError(err).Warn("snapshot cache refresh failed")
			}
			return recs, nil
		}
		b.log.WithError(err).Warn("remote snapshot list failed, using cache")
	}
	if b.cache == nil {
		return nil, nil
	}
	recs, err := b.cache.Load(b.projectID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot cache: %w", err)
	}
	sortNewestFirst(recs)
	return recs, nil
}

// Restore fetches a snapshot, validates it and hands it to apply. Nothing
// is applied when the snapshot cannot be found or fails validation. A lot
// carried by the snapshot is written back to the remote; failures there
// are only logged.
func (b *Bridge) Restore(ctx context.Context, id string, apply func(Record)) error {
	rec, err := b.get(ctx, id)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	apply(rec)
	if rec.Lot != nil && b.remote != nil {
		if _, err := b.remote.SaveLot(ctx, *rec.Lot); err != nil {
			b.log.WithError(err).Warn("restoring lot data failed")
		}
	}
	return nil
}

func (b *Bridge) get(ctx context.Context, id string) (Record, error) {
	if b.remote != nil {
		rec, err := b.remote.GetSnapshot(ctx, id)
		if err == nil {
			return rec, nil
		}
		b.log.WithError(err).WithField("snapshot", id).Warn("remote snapshot fetch failed, using cache")
	}
	for _, rec := range b.loadCache() {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes a snapshot from both stores.
func (b *Bridge) Delete(ctx context.Context, id string) error {
	if b.remote != nil {
		if err := b.remote.DeleteSnapshot(ctx, id); err != nil {
			b.log.WithError(err).WithField("snapshot", id).Warn("remote snapshot delete failed")
		}
	}
	return b.storeCache(withoutID(b.loadCache(), id))
}

// trim keeps the newest records of each kind up to its cap.
func (b *Bridge) trim(recs []Record) (kept, evicted []Record) {
	sortNewestFirst(recs)
	counts := make(map[Kind]int)
	for _, r := range recs {
		counts[r.Kind]++
		if limit, ok := b.caps[r.Kind]; ok && counts[r.Kind] > limit {
			evicted = append(evicted, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, evicted
}

func (b *Bridge) loadCache() []Record {
	if b.cache == nil {
		return nil
	}
	recs, err := b.cache.Load(b.projectID)
	if err != nil {
		b.log.WithError(err).Warn("snapshot cache unreadable")
		return nil
	}
	return recs
}

func (b *Bridge) storeCache(recs []Record) error {
	if b.cache == nil {
		return nil
	}
	return b.cache.Store(b.projectID, recs)
}

func withoutID(recs []Record, id string) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func sortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

// Filter returns the records of kind.
func Filter(recs []Record, kind Kind) []Record {
	var out []Record
	for _, r := range recs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
