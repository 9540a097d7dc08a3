package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

// Synthetic root identifiers.
const (
	RootID   = "all"
	RootType = "root"

	rootNamePrisons   = "All Prisons"
	rootNameLocations = "All Locations"
)

// topLevelFallback are the parentless types used when no prison roots exist.
var topLevelFallback = []location.Type{location.TypeHouseblock, location.TypeWing, location.TypeBlock}

// Logger defines the logging interface used by the Aggregator and
// Broadcaster.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Node is one treemap node. Value is the occupant count.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Value    int      `json:"value"`
	Status   Status   `json:"status"`
	Children []*Node  `json:"children,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the counts behind a node's status.
type Metadata struct {
	OccupantCount   int              `json:"occupant_count"`
	VerifiedCount   int              `json:"verified_count"`
	FailedCount     int              `json:"failed_count"`
	Due             bool             `json:"due,omitempty"`
	OccupantDetails []OccupantDetail `json:"occupant_details,omitempty"`
}

// OccupantDetail is the latest known outcome for one occupant at a leaf.
type OccupantDetail struct {
	OccupantID string     `json:"occupant_id"`
	Status     string     `json:"status"`
	Resident   bool       `json:"resident"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// Query selects what BuildTreemap evaluates.
type Query struct {
	RollCallIDs  []string
	At           time.Time
	IncludeEmpty bool
	Details      bool
}

// Aggregator builds status treemaps. It holds no state between calls.
type Aggregator struct {
	locations location.Reader
	schedule  schedule.Reader
	rollCalls rollcall.Reader
	policy    Policy
	logger    Logger
}

// NewAggregator creates an Aggregator over the given read contracts.
func NewAggregator(locations location.Reader, sched schedule.Reader, rollCalls rollcall.Reader, policy Policy) *Aggregator {
	return &Aggregator{
		locations: locations,
		schedule:  sched,
		rollCalls: rollCalls,
		policy:    policy,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the aggregator.
func (a *Aggregator) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	a.logger = logger
}

// BuildTreemap evaluates the supplied roll calls at q.At and folds leaf
// statuses up to a synthetic root. Unknown roll-call ids are skipped.
func (a *Aggregator) BuildTreemap(ctx context.Context, q Query) (*Node, error) {
	idx, err := location.LoadIndex(ctx, a.locations)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}

	occupants, err := a.schedule.ListOccupants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing occupants: %w", err)
	}
	residents := make(map[string][]string)
	for _, o := range occupants {
		if home := o.Home(); home != "" {
			residents[home] = append(residents[home], o.ID)
		}
	}

	rcs, outcomes, err := a.loadRollCalls(ctx, q.RollCallIDs)
	if err != nil {
		return nil, err
	}

	b := &treeBuilder{
		idx:       idx,
		residents: residents,
		leaves:    EvaluateLeaves(a.policy, rcs, outcomes, q.At),
		query:     q,
		seen:      make(map[string]bool),
	}

	tops, name := topLevel(idx)
	root := &Node{ID: RootID, Name: name, Type: RootType}
	b.fold(root, tops)

	a.logger.Debug("treemap built",
		"roll_calls", len(rcs),
		"leaves_on_route", len(b.leaves),
		"status", string(root.Status),
	)
	return root, nil
}

// loadRollCalls resolves ids, skipping unknown ones.
func (a *Aggregator) loadRollCalls(ctx context.Context, ids []string) ([]*rollcall.RollCall, map[string][]rollcall.Verification, error) {
	var rcs []*rollcall.RollCall
	outcomes := make(map[string][]rollcall.Verification)
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		rc, err := a.rollCalls.GetRollCall(ctx, id)
		if errors.Is(err, rollcall.ErrRollCallNotFound) {
			a.logger.Debug("skipping unknown roll call", "roll_call_id", id)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("loading roll call %s: %w", id, err)
		}

		vs, err := a.rollCalls.VerificationsByRollCall(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("loading verifications for %s: %w", id, err)
		}
		rcs = append(rcs, rc)
		outcomes[id] = vs
	}
	return rcs, outcomes, nil
}

// topLevel picks the children of the synthetic root.
func topLevel(idx *location.Index) ([]location.Location, string) {
	roots := idx.Roots()

	var prisons, fallback []location.Location
	for _, l := range roots {
		switch {
		case l.Type == location.TypePrison:
			prisons = append(prisons, l)
		case location.HasType(l.Type, topLevelFallback):
			fallback = append(fallback, l)
		}
	}
	if len(prisons) > 0 {
		return prisons, rootNamePrisons
	}
	if len(fallback) > 0 {
		return fallback, rootNameLocations
	}
	return roots, rootNameLocations
}

type treeBuilder struct {
	idx       *location.Index
	residents map[string][]string
	leaves    map[string]*LeafState
	query     Query
	seen      map[string]bool
}

// build returns the node for l, or nil when it should be left out.
func (b *treeBuilder) build(l location.Location) *Node {
	if b.seen[l.ID] {
		return nil
	}
	b.seen[l.ID] = true

	n := &Node{ID: l.ID, Name: l.Name, Type: string(l.Type)}
	if b.idx.HasChildren(l.ID) {
		b.fold(n, b.idx.Children(l.ID))
	} else {
		b.leaf(n)
	}

	if n.Value == 0 && len(n.Children) == 0 && n.Status == Grey && !b.query.IncludeEmpty {
		return nil
	}
	return n
}

// fold builds children under n and derives n's status and counts from them.
// Omitted children still take part in the status.
func (b *treeBuilder) fold(n *Node, children []location.Location) {
	statuses := make([]Status, 0, len(children))
	for _, c := range children {
		child := b.build(c)
		if child == nil {
			statuses = append(statuses, Grey)
			continue
		}
		statuses = append(statuses, child.Status)
		n.Children = append(n.Children, child)
		n.Value += child.Value
		n.Metadata.OccupantCount += child.Metadata.OccupantCount
		n.Metadata.VerifiedCount += child.Metadata.VerifiedCount
		n.Metadata.FailedCount += child.Metadata.FailedCount
		n.Metadata.Due = n.Metadata.Due || child.Metadata.Due
	}
	n.Status = Aggregate(statuses)
}

func (b *treeBuilder) leaf(n *Node) {
	residents := b.residents[n.ID]
	n.Value = len(residents)
	n.Metadata.OccupantCount = n.Value
	n.Status = Grey

	st := b.leaves[n.ID]
	if st != nil {
		n.Status = st.Status
		n.Metadata.VerifiedCount = st.Verified
		n.Metadata.FailedCount = st.Failed
		n.Metadata.Due = st.Due
	}
	if b.query.Details {
		n.Metadata.OccupantDetails = details(residents, st)
	}
}

// details lists residents first, then anyone else checked at the leaf.
func details(residents []string, st *LeafState) []OccupantDetail {
	var out []OccupantDetail
	listed := make(map[string]bool, len(residents))

	sorted := append([]string(nil), residents...)
	sort.Strings(sorted)
	for _, id := range sorted {
		listed[id] = true
		d := OccupantDetail{OccupantID: id, Status: string(rollcall.VerificationPending), Resident: true}
		if st != nil {
			if v, ok := st.Latest[id]; ok {
				ts := v.Timestamp
				d.Status = string(v.Status)
				d.Timestamp = &ts
			}
		}
		out = append(out, d)
	}

	if st != nil {
		for _, v := range st.latestSorted() {
			if listed[v.OccupantID] {
				continue
			}
			ts := v.Timestamp
			out = append(out, OccupantDetail{OccupantID: v.OccupantID, Status: string(v.Status), Timestamp: &ts})
		}
	}
	return out
}
