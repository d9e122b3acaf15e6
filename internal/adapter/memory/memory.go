// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fooddiary/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	foods    []domain.FoodItem
	diary    []domain.DiaryEntry
	goals    map[int64]*domain.Goal
	weights  []domain.WeightRecord
	water    []domain.WaterIntakeRecord

	userIDCounter   int64
	foodIDCounter   int64
	diaryIDCounter  int64
	goalIDCounter   int64
	weightIDCounter int64
	waterIDCounter  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
		goals:    make(map[int64]*domain.Goal),
	}
}

// Ensure interfaces are met.
var (
	_ domain.FoodRepository    = (*DB)(nil)
	_ domain.DiaryRepository   = (*DB)(nil)
	_ domain.GoalRepository    = (*DB)(nil)
	_ domain.WeightRepository  = (*DB)(nil)
	_ domain.WaterRepository   = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// --- FoodRepository ---

// CreateFoodItem adds a food item, returning the existing one on a barcode clash.
func (db *DB) CreateFoodItem(ctx context.Context, item domain.NewFoodItem) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if item.Barcode != nil {
		if existing := db.foodByBarcode(*item.Barcode); existing != nil {
			ret := *existing
			return &ret, nil
		}
	}

	db.foodIDCounter++
	f := domain.FoodItem{
		ID:                  db.foodIDCounter,
		Name:                item.Name,
		StandardServingSize: item.StandardServingSize,
		CaloriesPerServing:  item.CaloriesPerServing,
		ServingUnit:         item.ServingUnit,
		CreatedAt:           time.Now().UTC(),
	}
	if item.Barcode != nil {
		b := *item.Barcode
		f.Barcode = &b
	}
	db.foods = append(db.foods, f)
	ret := f
	return &ret, nil
}

// GetFoodItem retrieves a food item by ID.
func (db *DB) GetFoodItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if f := db.foodByID(id); f != nil {
		ret := *f
		return &ret, nil
	}
	return nil, nil
}

// GetFoodItemByBarcode retrieves a food item by barcode.
func (db *DB) GetFoodItemByBarcode(ctx context.Context, barcode string) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if f := db.foodByBarcode(barcode); f != nil {
		ret := *f
		return &ret, nil
	}
	return nil, nil
}

// SearchFoodItems lists food items whose name contains name, ignoring case.
func (db *DB) SearchFoodItems(ctx context.Context, name string, limit int) ([]domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	needle := strings.ToLower(name)
	var out []domain.FoodItem
	for _, f := range db.foods {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (db *DB) foodByID(id int64) *domain.FoodItem {
	for i := range db.foods {
		if db.foods[i].ID == id {
			return &db.foods[i]
		}
	}
	return nil
}

func (db *DB) foodByBarcode(barcode string) *domain.FoodItem {
	for i := range db.foods {
		if b := db.foods[i].Barcode; b != nil && *b == barcode {
			return &db.foods[i]
		}
	}
	return nil
}

// --- DiaryRepository ---

// AddDiaryEntry adds a diary entry. An unknown food item fails like a
// foreign-key violation would.
func (db *DB) AddDiaryEntry(ctx context.Context, userID, foodItemID int64, category domain.MealCategory, eatenServingSize float64, date time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.foodByID(foodItemID) == nil {
		return 0, domain.ErrNotFound
	}

	db.diaryIDCounter++
	db.diary = append(db.diary, domain.DiaryEntry{
		ID:               db.diaryIDCounter,
		UserID:           userID,
		FoodItemID:       foodItemID,
		MealCategory:     category,
		EatenServingSize: eatenServingSize,
		Date:             date.UTC().Round(time.Microsecond), // same precision as timestamptz
	})
	return db.diaryIDCounter, nil
}

// UpdateDiaryEntryServing updates the serving size of an entry owned by userID.
func (db *DB) UpdateDiaryEntryServing(ctx context.Context, userID, id int64, eatenServingSize float64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.diary {
		if db.diary[i].ID == id && db.diary[i].UserID == userID {
			db.diary[i].EatenServingSize = eatenServingSize
			return true, nil
		}
	}
	return false, nil
}

// DeleteDiaryEntry deletes an entry owned by userID.
func (db *DB) DeleteDiaryEntry(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, e := range db.diary {
		if e.ID == id && e.UserID == userID {
			db.diary = append(db.diary[:i], db.diary[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListDiaryEntries lists a user's entries for a day, joined with food items.
func (db *DB) ListDiaryEntries(ctx context.Context, userID int64, day domain.DayBounds, category *domain.MealCategory) ([]domain.DiaryEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DiaryEntry
	for _, e := range db.diary {
		if e.UserID != userID || !day.Contains(e.Date) {
			continue
		}
		if category != nil && e.MealCategory != *category {
			continue
		}
		out = append(out, db.joinFood(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListRecentDiaryEntries lists the newest entry per food item since a time.
func (db *DB) ListRecentDiaryEntries(ctx context.Context, userID int64, category domain.MealCategory, since time.Time, limit int) ([]domain.DiaryEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var matched []domain.DiaryEntry
	for _, e := range db.diary {
		if e.UserID == userID && e.MealCategory == category && !e.Date.Before(since) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	seen := make(map[int64]bool)
	out := make([]domain.DiaryEntry, 0, limit)
	for _, e := range matched {
		if seen[e.FoodItemID] {
			continue
		}
		seen[e.FoodItemID] = true
		out = append(out, db.joinFood(e))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// CountDiaryEntries counts a user's entries in a category for a day.
func (db *DB) CountDiaryEntries(ctx context.Context, userID int64, day domain.DayBounds, category domain.MealCategory) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, e := range db.diary {
		if e.UserID == userID && e.MealCategory == category && day.Contains(e.Date) {
			n++
		}
	}
	return n, nil
}

func (db *DB) joinFood(e domain.DiaryEntry) domain.DiaryEntry {
	if f := db.foodByID(e.FoodItemID); f != nil {
		food := *f
		e.Food = &food
	}
	return e
}

// --- GoalRepository ---

// EnsureGoal creates a default goal for userID if none exists.
func (db *DB) EnsureGoal(ctx context.Context, userID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.goals[userID]; ok {
		return nil
	}
	db.goalIDCounter++
	db.goals[userID] = &domain.Goal{
		ID:          db.goalIDCounter,
		UserID:      userID,
		WaterIntake: domain.DefaultWaterIntake,
	}
	return nil
}

// GetGoal retrieves a user's goal.
func (db *DB) GetGoal(ctx context.Context, userID int64) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.goals[userID]
	if !ok {
		return nil, nil
	}
	return copyGoal(g), nil
}

// UpdateGoal applies a partial update to a user's goal.
func (db *DB) UpdateGoal(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.goals[userID]
	if !ok {
		return nil, nil
	}
	if u.CalorieLimit != nil {
		g.CalorieLimit = *u.CalorieLimit
	}
	if u.GoalWeight != nil {
		if *u.GoalWeight == 0 {
			g.GoalWeight = nil
		} else {
			w := *u.GoalWeight
			g.GoalWeight = &w
		}
	}
	if u.WaterIntake != nil {
		g.WaterIntake = *u.WaterIntake
	}
	return copyGoal(g), nil
}

func copyGoal(g *domain.Goal) *domain.Goal {
	ret := *g
	if g.GoalWeight != nil {
		w := *g.GoalWeight
		ret.GoalWeight = &w
	}
	return &ret
}

// --- WeightRepository ---

// AddWeightRecord appends a weight record.
func (db *DB) AddWeightRecord(ctx context.Context, userID int64, weight float64, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.weightIDCounter++
	db.weights = append(db.weights, domain.WeightRecord{
		ID:        db.weightIDCounter,
		UserID:    userID,
		Weight:    weight,
		CreatedAt: createdAt.UTC(),
	})
	return db.weightIDCounter, nil
}

// LatestWeightRecord returns a user's newest weight record.
func (db *DB) LatestWeightRecord(ctx context.Context, userID int64) (*domain.WeightRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.latestWeight(userID, func(time.Time) bool { return true }), nil
}

// LatestWeightForDay returns a user's newest weight record within a day.
func (db *DB) LatestWeightForDay(ctx context.Context, userID int64, day domain.DayBounds) (*domain.WeightRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.latestWeight(userID, day.Contains), nil
}

// ListWeightRecordsSince lists a user's weight records since a time, oldest first.
func (db *DB) ListWeightRecordsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.WeightRecord
	for _, w := range db.weights {
		if w.UserID == userID && !w.CreatedAt.Before(since) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (db *DB) latestWeight(userID int64, match func(time.Time) bool) *domain.WeightRecord {
	var latest *domain.WeightRecord
	for i := range db.weights {
		w := &db.weights[i]
		if w.UserID != userID || !match(w.CreatedAt) {
			continue
		}
		if latest == nil || !w.CreatedAt.Before(latest.CreatedAt) {
			latest = w
		}
	}
	if latest == nil {
		return nil
	}
	ret := *latest
	return &ret
}

// --- WaterRepository ---

// AddWaterEntry adds a water record.
func (db *DB) AddWaterEntry(ctx context.Context, userID int64, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.waterIDCounter++
	db.water = append(db.water, domain.WaterIntakeRecord{
		ID:        db.waterIDCounter,
		UserID:    userID,
		CreatedAt: createdAt.UTC(),
	})
	return db.waterIDCounter, nil
}

// DeleteWaterEntry deletes a water record owned by userID.
func (db *DB) DeleteWaterEntry(ctx context.Context, userID int64, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, w := range db.water {
		if w.ID == id && w.UserID == userID {
			db.water = append(db.water[:i], db.water[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteLatestWaterEntry deletes a user's newest water record.
func (db *DB) DeleteLatestWaterEntry(ctx context.Context, userID int64) (int64, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	lastIdx := -1
	for i, w := range db.water {
		if w.UserID != userID {
			continue
		}
		if lastIdx == -1 || !w.CreatedAt.Before(db.water[lastIdx].CreatedAt) {
			lastIdx = i
		}
	}
	if lastIdx == -1 {
		return 0, false, nil
	}
	id := db.water[lastIdx].ID
	db.water = append(db.water[:lastIdx], db.water[lastIdx+1:]...)
	return id, true, nil
}

// ListWaterEntriesForDay lists a user's water records for a day.
func (db *DB) ListWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) ([]domain.WaterIntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.WaterIntakeRecord
	for _, w := range db.water {
		if w.UserID == userID && day.Contains(w.CreatedAt) {
			out = append(out, w)
		}
	}
	return out, nil
}

// CountWaterEntriesForDay counts a user's water records for a day.
func (db *DB) CountWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) (int, error) {
	items, err := db.ListWaterEntriesForDay(ctx, userID, day)
	return len(items), err
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
