package service

import (
	"context"
	"fmt"
	"time"

	"autoradar/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the data contract the pipeline consumes. The repository backs it
// in production; tests supply stubs.
type Store interface {
	FetchListings(ctx context.Context) ([]model.Listing, error)
	FetchPriceStats(ctx context.Context) (map[string]model.PriceStatistic, error)
	LogOpportunityRun(ctx context.Context, runID string, limit, candidates, returned int, tookMs int64) error
}

// AlertPublisher pushes detected opportunities to an external stream.
type AlertPublisher interface {
	Publish(ctx context.Context, vehicle model.ScoredVehicle) error
}

// OpportunityService orchestrates the detection pipeline: base grouping →
// representative selection → opportunity scoring → facet partition.
// Everything is recomputed from scratch per call; nothing is cached.
type OpportunityService struct {
	store        Store
	keys         *KeyBuilder
	ranker       *InGroupRanker
	scorer       *OpportunityScorer
	cabs         *CabClassifier
	publisher    AlertPublisher // optional
	minGroupSize int
	log          zerolog.Logger
}

// NewOpportunityService wires the pipeline components. publisher may be nil.
func NewOpportunityService(
	store Store,
	keys *KeyBuilder,
	ranker *InGroupRanker,
	scorer *OpportunityScorer,
	cabs *CabClassifier,
	publisher AlertPublisher,
	minGroupSize int,
	log zerolog.Logger,
) *OpportunityService {
	return &OpportunityService{
		store:        store,
		keys:         keys,
		ranker:       ranker,
		scorer:       scorer,
		cabs:         cabs,
		publisher:    publisher,
		minGroupSize: minGroupSize,
		log:          log,
	}
}

// TopOpportunities runs the full pipeline over the current catalog scope.
// A failed fetch surfaces as an error with no partial result; an
// empty-but-successful fetch yields a report with InsufficientData set.
func (s *OpportunityService) TopOpportunities(ctx context.Context, limit int) (*model.OpportunityReport, error) {
	start := time.Now()

	listings, err := s.store.FetchListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	stats, err := s.store.FetchPriceStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch price statistics: %w", err)
	}

	report := s.Compute(listings, stats, limit)
	report.RunID = uuid.NewString()
	report.GeneratedAt = time.Now().UTC()
	report.Took = time.Since(start).Milliseconds()

	s.log.Info().
		Str("run_id", report.RunID).
		Int("listings", report.TotalListings).
		Int("eligible_groups", report.EligibleGroups).
		Int("returned", len(report.All)).
		Int64("took_ms", report.Took).
		Msg("opportunity run complete")

	// Audit log (non-blocking, best effort)
	go func() {
		if err := s.store.LogOpportunityRun(context.Background(), report.RunID, limit, report.EligibleGroups, len(report.All), report.Took); err != nil {
			s.log.Warn().Err(err).Str("run_id", report.RunID).Msg("failed to log opportunity run")
		}
	}()

	s.publishAlerts(ctx, report)

	return report, nil
}

// Compute is the pure pipeline: deterministic for fixed inputs, no I/O.
// Kept separate from TopOpportunities so the computation is testable
// without a store.
func (s *OpportunityService) Compute(listings []model.Listing, stats map[string]model.PriceStatistic, limit int) *model.OpportunityReport {
	baseGroups := groupListings(listings, s.keys.BaseKey)

	var candidates []model.Listing
	repGroups := make(map[string]model.GroupInfo)
	eligible := 0

	for _, base := range baseGroups {
		// Statistical floor: sparse configurations are noise.
		if len(base.members) < s.minGroupSize {
			continue
		}
		eligible++

		// One representative per detailed sub-group, scored against the
		// sub-group's own average price.
		subGroups := groupListings(base.members, s.keys.DetailedKey)
		reps := make([]model.Listing, 0, len(subGroups))
		for _, sub := range subGroups {
			if rep := s.ranker.BestOfGroup(sub.members); rep != nil {
				reps = append(reps, *rep)
			}
		}

		// One overall representative per base group, scored against the
		// base group's average price (not the sub-group's).
		rep := s.ranker.BestWithAverage(reps, AveragePrice(base.members))
		if rep == nil {
			continue
		}

		candidates = append(candidates, *rep)
		memberIDs := make([]string, len(base.members))
		for i, m := range base.members {
			memberIDs[i] = m.ID
		}
		repGroups[rep.ID] = model.GroupInfo{
			BaseKey:   base.key,
			Size:      len(base.members),
			MemberIDs: memberIDs,
		}
	}

	scored := s.scorer.TopOpportunities(candidates, stats, limit)

	report := &model.OpportunityReport{
		Limit:            limit,
		TotalListings:    len(listings),
		EligibleGroups:   eligible,
		InsufficientData: eligible == 0,
		All:              scored,
		DoubleCab:        []model.ScoredVehicle{},
		SingleCab:        []model.ScoredVehicle{},
		Groups:           make(map[string]model.GroupInfo, len(scored)),
	}
	if report.All == nil {
		report.All = []model.ScoredVehicle{}
	}

	for i := range report.All {
		sv := &report.All[i]
		sv.Facet = s.cabs.Classify(sv.Listing)
		switch sv.Facet {
		case model.FacetDoubleCab:
			report.DoubleCab = append(report.DoubleCab, *sv)
		case model.FacetSingleCab:
			report.SingleCab = append(report.SingleCab, *sv)
		}
		if info, ok := repGroups[sv.ID]; ok {
			report.Groups[sv.ID] = info
		}
	}

	return report
}

func (s *OpportunityService) publishAlerts(ctx context.Context, report *model.OpportunityReport) {
	if s.publisher == nil {
		return
	}
	for _, sv := range report.All {
		if err := s.publisher.Publish(ctx, sv); err != nil {
			s.log.Warn().Err(err).Str("listing_id", sv.ID).Msg("failed to publish opportunity alert")
			return
		}
	}
}

// listingGroup is an ordered group: groups and their members keep the
// first-encountered input order, so representative selection never depends
// on map iteration order.
type listingGroup struct {
	key     string
	members []model.Listing
}

func groupListings(listings []model.Listing, keyFn func(model.Listing) string) []listingGroup {
	index := make(map[string]int, len(listings))
	var groups []listingGroup
	for _, l := range listings {
		key := keyFn(l)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, listingGroup{key: key})
		}
		groups[i].members = append(groups[i].members, l)
	}
	return groups
}
