package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fitlens/backend/internal/logger"
	"github.com/fitlens/backend/internal/models"
	"github.com/fitlens/backend/internal/repository"
)

type aggregator struct {
	nutritionRepo repository.NutritionRepository
	exerciseRepo  repository.ExerciseRepository
	classifier    Classifier
	loc           *time.Location
}

// NewAggregator creates a new aggregator. loc sets the clock used to
// bucket records by hour of day; nil means time.Local.
func NewAggregator(
	nutritionRepo repository.NutritionRepository,
	exerciseRepo repository.ExerciseRepository,
	classifier Classifier,
	loc *time.Location,
) Aggregator {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if loc == nil {
		loc = time.Local
	}
	return &aggregator{
		nutritionRepo: nutritionRepo,
		exerciseRepo:  exerciseRepo,
		classifier:    classifier,
		loc:           loc,
	}
}

func (a *aggregator) Aggregate(ctx context.Context, userID string, dsl models.ChartDSL, since time.Time) (*models.DailyTotals, error) {
	if err := dsl.Validate(); err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)
	totals := models.NewDailyTotals()
	plan := newFoldPlan(dsl)

	switch dsl.Source {
	case models.SourceFood:
		entries, err := a.nutritionRepo.ListNutritionEntries(ctx, userID, since)
		if err != nil {
			log.Error("failed to fetch nutrition entries", logger.Err(err))
			return nil, &UpstreamError{Source: models.SourceFood, Err: err}
		}
		a.foldFood(totals, entries, plan)
		log.Debug("aggregated nutrition entries",
			logger.Int("entries", len(entries)),
			logger.Int("days", len(totals.Food)),
		)
	case models.SourceExercise:
		entries, err := a.exerciseRepo.ListExerciseEntries(ctx, userID, since, plan.query)
		if err != nil {
			log.Error("failed to fetch exercise entries", logger.Err(err))
			return nil, &UpstreamError{Source: models.SourceExercise, Err: err}
		}
		a.foldExercise(totals, entries, plan)
		log.Debug("aggregated exercise entries",
			logger.Int("entries", len(entries)),
			logger.Int("days", len(totals.Exercise)),
		)
	}

	return totals, nil
}

func (a *aggregator) AggregateAll(ctx context.Context, userID string, since time.Time) (*models.DailyTotals, error) {
	totals := models.NewDailyTotals()
	plan := foldPlan{}

	// Each goroutine writes a different map of totals.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := a.nutritionRepo.ListNutritionEntries(gctx, userID, since)
		if err != nil {
			return &UpstreamError{Source: models.SourceFood, Err: err}
		}
		a.foldFood(totals, entries, plan)
		return nil
	})
	g.Go(func() error {
		entries, err := a.exerciseRepo.ListExerciseEntries(gctx, userID, since, models.ExerciseQuery{})
		if err != nil {
			return &UpstreamError{Source: models.SourceExercise, Err: err}
		}
		a.foldExercise(totals, entries, plan)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Ctx(ctx).Error("failed to aggregate records", logger.Err(err))
		return nil, err
	}
	return totals, nil
}

// foldPlan is what a DSL asks of the fold: which lazy maps to build and
// which records to keep.
type foldPlan struct {
	byHour     bool
	byItem     bool
	byCategory bool
	days       map[time.Weekday]bool
	query      models.ExerciseQuery
	category   models.ExerciseCategory
}

func newFoldPlan(dsl models.ChartDSL) foldPlan {
	p := foldPlan{
		byHour:     dsl.GroupBy == models.GroupByHourOfDay,
		byItem:     dsl.GroupBy == models.GroupByItem,
		byCategory: dsl.GroupBy == models.GroupByCategory,
	}
	if f := dsl.Filter; f != nil {
		p.query = models.ExerciseQuery{ExerciseKey: f.ExerciseKey, Subtype: f.ExerciseSubtype}
		p.category = f.Category
		if len(f.DayOfWeek) > 0 {
			p.days = make(map[time.Weekday]bool, len(f.DayOfWeek))
			for _, d := range f.DayOfWeek {
				p.days[time.Weekday(d)] = true
			}
		}
	}
	return p
}

// keepDay reports whether a record dated date may feed the hour, item and
// category maps. The day maps keep every date; the engine filters those.
func (p foldPlan) keepDay(date string) bool {
	if p.days == nil {
		return true
	}
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return false
	}
	return p.days[t.Weekday()]
}

func (a *aggregator) foldFood(totals *models.DailyTotals, entries []models.NutritionEntry, p foldPlan) {
	if p.byHour {
		totals.FoodByHour = make(map[int][]models.FoodDayTotals)
	}
	if p.byItem {
		totals.FoodByItem = make(map[string]models.FoodItemTotals)
	}

	for _, e := range entries {
		entry := models.FoodDayTotals{Entries: 1}
		for _, item := range e.Items {
			entry.AddItem(item)
		}

		day := totals.Food[e.Date]
		day.Add(entry)
		day.Entries++
		totals.Food[e.Date] = day

		if !p.keepDay(e.Date) {
			continue
		}
		if p.byHour {
			hour := e.CreatedAt.In(a.loc).Hour()
			totals.FoodByHour[hour] = append(totals.FoodByHour[hour], entry)
		}
		if p.byItem {
			for _, item := range e.Items {
				label := strings.ToLower(strings.TrimSpace(item.Description))
				if label == "" {
					continue
				}
				t := totals.FoodByItem[label]
				t.Count++
				t.AddItem(item)
				totals.FoodByItem[label] = t
			}
		}
	}
}

// distinct counts unique values per bucket key
type distinct[K comparable] map[K]map[string]struct{}

func (d distinct[K]) add(key K, value string) {
	set, ok := d[key]
	if !ok {
		set = make(map[string]struct{})
		d[key] = set
	}
	set[value] = struct{}{}
}

func (d distinct[K]) count(key K) int {
	return len(d[key])
}

func (a *aggregator) foldExercise(totals *models.DailyTotals, entries []models.ExerciseEntry, p foldPlan) {
	if p.byHour {
		totals.ExerciseByHour = make(map[int][]models.ExerciseDayTotals)
	}
	if p.byItem {
		totals.ExerciseByItem = make(map[string]models.ExerciseItemTotals)
	}
	if p.byCategory {
		totals.ExerciseByCategory = make(map[models.ExerciseCategory]models.ExerciseItemTotals)
	}

	dayKeys, dayGroups := distinct[string]{}, distinct[string]{}
	itemGroups := distinct[string]{}
	catKeys, catGroups := distinct[models.ExerciseCategory]{}, distinct[models.ExerciseCategory]{}

	for i := range entries {
		e := &entries[i]
		if !matchesQuery(e, p.query) {
			continue
		}
		category := a.classifier.Classify(e.ExerciseKey)
		if p.category != "" && category != p.category {
			continue
		}

		row := exerciseRow(e)

		day := totals.Exercise[e.Date]
		addExercise(&day, row)
		totals.Exercise[e.Date] = day
		dayKeys.add(e.Date, e.ExerciseKey)
		dayGroups.add(e.Date, e.GroupID())

		if !p.keepDay(e.Date) {
			continue
		}
		if p.byHour {
			hour := e.CreatedAt.In(a.loc).Hour()
			totals.ExerciseByHour[hour] = append(totals.ExerciseByHour[hour], row)
		}
		if p.byItem {
			t := totals.ExerciseByItem[e.ExerciseKey]
			t.Count++
			t.UniqueExercises = 1
			addExercise(&t.ExerciseDayTotals, row)
			totals.ExerciseByItem[e.ExerciseKey] = t
			itemGroups.add(e.ExerciseKey, e.GroupID())
		}
		if p.byCategory {
			c := totals.ExerciseByCategory[category]
			c.Count++
			addExercise(&c.ExerciseDayTotals, row)
			totals.ExerciseByCategory[category] = c
			catKeys.add(category, e.ExerciseKey)
			catGroups.add(category, e.GroupID())
		}
	}

	for date, day := range totals.Exercise {
		day.UniqueExercises = dayKeys.count(date)
		day.Entries = dayGroups.count(date)
		totals.Exercise[date] = day
	}
	for key, t := range totals.ExerciseByItem {
		t.Entries = itemGroups.count(key)
		totals.ExerciseByItem[key] = t
	}
	for category, c := range totals.ExerciseByCategory {
		c.UniqueExercises = catKeys.count(category)
		c.Entries = catGroups.count(category)
		totals.ExerciseByCategory[category] = c
	}
}

// exerciseRow is one set row's own contribution. Each row counts as one set.
func exerciseRow(e *models.ExerciseEntry) models.ExerciseDayTotals {
	row := models.ExerciseDayTotals{
		Sets:            1,
		CaloriesBurned:  e.CaloriesBurned(),
		UniqueExercises: 1,
		Entries:         1,
	}
	if e.DurationMinutes != nil {
		row.DurationMinutes = *e.DurationMinutes
	}
	if e.DistanceMiles != nil {
		row.DistanceMiles = *e.DistanceMiles
	}
	return row
}

// addExercise folds the summable fields of row into t. Distinct counts are
// settled after the fold.
func addExercise(t *models.ExerciseDayTotals, row models.ExerciseDayTotals) {
	t.Sets += row.Sets
	t.DurationMinutes += row.DurationMinutes
	t.DistanceMiles += row.DistanceMiles
	t.CaloriesBurned += row.CaloriesBurned
}

func matchesQuery(e *models.ExerciseEntry, q models.ExerciseQuery) bool {
	if q.ExerciseKey != "" && e.ExerciseKey != q.ExerciseKey {
		return false
	}
	if q.Subtype != "" && (e.Subtype == nil || *e.Subtype != q.Subtype) {
		return false
	}
	return true
}
