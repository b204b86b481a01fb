package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"lume/internal/catalog"
	"lume/internal/models"
)

// Memory — хранилище без БД (database.driver == ""). Per-entity
// представления (Watches/Favorites/Users) делят одно состояние под одним
// мьютексом; семантика операций та же, что у gorm-хранилищ:
// идемпотентные delete/remove, не больше одной закладки на пару,
// каскадное удаление закладок вместе с часами.
type Memory struct {
	mu        sync.RWMutex
	watches   map[uint]models.Watch
	users     map[uint]models.User
	favorites map[favKey]models.Favorite

	nextWatchID uint
	nextUserID  uint
	nextFavID   uint
}

type favKey struct{ userID, watchID uint }

func NewMemory() *Memory {
	return &Memory{
		watches:   make(map[uint]models.Watch),
		users:     make(map[uint]models.User),
		favorites: make(map[favKey]models.Favorite),
	}
}

func (m *Memory) Watches() *MemoryWatches     { return &MemoryWatches{m} }
func (m *Memory) Favorites() *MemoryFavorites { return &MemoryFavorites{m} }
func (m *Memory) Users() *MemoryUsers         { return &MemoryUsers{m} }

// -------- каталог --------

type MemoryWatches struct{ m *Memory }

func (s *MemoryWatches) All(_ context.Context) ([]models.Watch, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.Watch, 0, len(s.m.watches))
	for _, w := range s.m.watches {
		out = append(out, w)
	}
	return out, nil
}

func (s *MemoryWatches) ByID(_ context.Context, id uint) (*models.Watch, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	w, ok := s.m.watches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *MemoryWatches) ByFilter(ctx context.Context, f catalog.Filter) ([]models.Watch, error) {
	all, _ := s.All(ctx)
	return f.Apply(all), nil
}

func (s *MemoryWatches) Create(_ context.Context, in models.WatchInput) (*models.Watch, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.nextWatchID++
	now := time.Now().UTC()
	w := models.Watch{
		ID:        s.m.nextWatchID,
		Brand:     in.Brand,
		Model:     in.Model,
		Reference: in.Reference,
		Size:      in.Size,
		Material:  in.Material,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.m.watches[w.ID] = w
	return &w, nil
}

func (s *MemoryWatches) Update(_ context.Context, id uint, p models.WatchPatch) (*models.Watch, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	w, ok := s.m.watches[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Brand != nil {
		w.Brand = *p.Brand
	}
	if p.Model != nil {
		w.Model = *p.Model
	}
	if p.Reference != nil {
		w.Reference = *p.Reference
	}
	if p.Size != nil {
		w.Size = *p.Size
	}
	if p.Material != nil {
		w.Material = *p.Material
	}
	if p.Price != nil {
		w.Price = *p.Price
	}
	if p.ImageURL != nil {
		w.ImageURL = *p.ImageURL
	}
	w.UpdatedAt = time.Now().UTC()
	s.m.watches[id] = w
	return &w, nil
}

func (s *MemoryWatches) Delete(_ context.Context, id uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.watches[id]; !ok {
		return false, nil
	}
	delete(s.m.watches, id)
	// каскад, как у FK в БД
	for k := range s.m.favorites {
		if k.watchID == id {
			delete(s.m.favorites, k)
		}
	}
	return true, nil
}

func (s *MemoryWatches) Analytics(_ context.Context) (*models.Analytics, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var a models.Analytics
	brands := map[string]int64{}
	materials := map[string]int64{}
	sizes := map[float64]int64{}
	for _, w := range s.m.watches {
		a.TotalWatches++
		a.TotalValue += w.Price
		brands[w.Brand]++
		materials[w.Material]++
		sizes[w.Size]++
	}
	if a.TotalWatches > 0 {
		a.AveragePrice = a.TotalValue / a.TotalWatches
	}
	a.ByBrand = bucketize(brands)
	a.ByMaterial = bucketize(materials)
	for sz, n := range sizes {
		a.BySize = append(a.BySize, models.SizeCount{Size: sz, Count: n})
	}
	sort.Slice(a.BySize, func(i, j int) bool { return a.BySize[i].Size < a.BySize[j].Size })
	return &a, nil
}

func bucketize(counts map[string]int64) []models.BucketCount {
	out := make([]models.BucketCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.BucketCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// -------- закладки --------

type MemoryFavorites struct{ m *Memory }

func (s *MemoryFavorites) ListForUser(_ context.Context, userID uint) ([]models.Watch, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []models.Watch
	for k := range s.m.favorites {
		if k.userID != userID {
			continue
		}
		if w, ok := s.m.watches[k.watchID]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *MemoryFavorites) Add(_ context.Context, userID, watchID uint) (*models.Favorite, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	key := favKey{userID, watchID}
	if f, ok := s.m.favorites[key]; ok {
		return &f, nil
	}
	if _, ok := s.m.watches[watchID]; !ok {
		return nil, ErrNotFound
	}
	s.m.nextFavID++
	f := models.Favorite{
		ID:        s.m.nextFavID,
		UserID:    userID,
		WatchID:   watchID,
		CreatedAt: time.Now().UTC(),
	}
	s.m.favorites[key] = f
	return &f, nil
}

func (s *MemoryFavorites) Remove(_ context.Context, userID, watchID uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	key := favKey{userID, watchID}
	if _, ok := s.m.favorites[key]; !ok {
		return false, nil
	}
	delete(s.m.favorites, key)
	return true, nil
}

func (s *MemoryFavorites) IsFavorite(_ context.Context, userID, watchID uint) (bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	_, ok := s.m.favorites[favKey{userID, watchID}]
	return ok, nil
}

// -------- пользователи --------

type MemoryUsers struct{ m *Memory }

func (s *MemoryUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUsers) ByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *MemoryUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *MemoryUsers) ByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return s.find(func(u models.User) bool {
		return u.GoogleID != nil && *u.GoogleID == googleID
	})
}

func (s *MemoryUsers) find(match func(models.User) bool) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, u := range s.m.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUsers) Create(_ context.Context, u models.User) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, old := range s.m.users {
		if old.Username == u.Username || old.Email == u.Email {
			return nil, ErrConflict
		}
		if u.GoogleID != nil && old.GoogleID != nil && *old.GoogleID == *u.GoogleID {
			return nil, ErrConflict
		}
	}
	s.m.nextUserID++
	now := time.Now().UTC()
	u.ID = s.m.nextUserID
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = models.RoleDealer
	}
	s.m.users[u.ID] = u
	return &u, nil
}

func (s *MemoryUsers) Update(_ context.Context, id uint, p models.UserPatch) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = p.Password
	}
	if p.GoogleID != nil {
		u.GoogleID = p.GoogleID
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	u.UpdatedAt = time.Now().UTC()
	s.m.users[id] = u
	return &u, nil
}

func (s *MemoryUsers) List(_ context.Context) ([]models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
