// Package testutil provides in-memory stores and testify mocks for service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/pkg/database"
)

// UserStore is an in-memory db.UserRepository. Values are copied in and out so
// tests cannot alias stored documents.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	order []string
	// Err, when set, is returned by every call.
	Err error
}

func NewUserStore(users ...*models.User) *UserStore {
	s := &UserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.put(u)
	}
	return s
}

func (s *UserStore) put(u *models.User) {
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = cloneUser(u)
}

// Peek returns a copy of the stored user, or nil.
func (s *UserStore) Peek(uid string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[uid]; ok {
		return cloneUser(u)
	}
	return nil
}

func (s *UserStore) GetByID(_ context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[u.ID]; ok {
		return db.ErrAlreadyExists
	}
	s.put(u)
	return nil
}

func (s *UserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	s.put(u)
	return nil
}

func (s *UserStore) Mutate(_ context.Context, uid string, fn func(*models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.users[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	u := cloneUser(stored)
	if err := fn(u); err != nil {
		return nil, err
	}
	s.put(u)
	return cloneUser(u), nil
}

// List returns users newest first, like the Firestore implementation.
func (s *UserStore) List(_ context.Context, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]*models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneUser(s.users[id]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LoginHistory != nil {
		c.LoginHistory = append([]models.LoginRecord(nil), u.LoginHistory...)
	}
	if u.LastLogin != nil {
		last := *u.LastLogin
		c.LastLogin = &last
	}
	if u.BusinessInfo != nil {
		info := *u.BusinessInfo
		info.Branches = append([]models.Branch(nil), u.BusinessInfo.Branches...)
		c.BusinessInfo = &info
	}
	if u.TrialStartDate != nil {
		t := *u.TrialStartDate
		c.TrialStartDate = &t
	}
	if u.TrialEndDate != nil {
		t := *u.TrialEndDate
		c.TrialEndDate = &t
	}
	return &c
}

// LinkStore is an in-memory db.LinkRepository.
type LinkStore struct {
	mu    sync.Mutex
	links map[string]models.SharableLink
}

func NewLinkStore() *LinkStore {
	return &LinkStore{links: make(map[string]models.SharableLink)}
}

func linkKey(owner, slug string) string { return owner + "/" + slug }

func (s *LinkStore) Create(_ context.Context, l *models.SharableLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := linkKey(l.OwnerID, l.Slug)
	if _, ok := s.links[k]; ok {
		return db.ErrAlreadyExists
	}
	s.links[k] = *l
	return nil
}

func (s *LinkStore) Get(_ context.Context, owner, slug string) (*models.SharableLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkKey(owner, slug)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (s *LinkStore) ListByOwner(_ context.Context, owner string) ([]*models.SharableLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.SharableLink
	for _, l := range s.links {
		if l.OwnerID == owner {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *LinkStore) Update(_ context.Context, l *models.SharableLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := linkKey(l.OwnerID, l.Slug)
	if _, ok := s.links[k]; !ok {
		return db.ErrNotFound
	}
	s.links[k] = *l
	return nil
}

// ReviewStore is an in-memory db.ReviewRepository keyed by review ID.
type ReviewStore struct {
	mu      sync.Mutex
	reviews map[string]map[string]models.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[string]map[string]models.Review)}
}

func (s *ReviewStore) Upsert(_ context.Context, owner string, reviews []models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reviews[owner] == nil {
		s.reviews[owner] = make(map[string]models.Review)
	}
	for _, r := range reviews {
		s.reviews[owner][r.ID] = r
	}
	return nil
}

func (s *ReviewStore) ListByOwner(_ context.Context, owner string) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Review, 0, len(s.reviews[owner]))
	for _, r := range s.reviews[owner] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

// CareerStore is an in-memory db.CareerRepository.
type CareerStore struct {
	mu           sync.Mutex
	seq          int
	openings     map[string]models.JobOpening
	applications map[string]models.JobApplication
	replies      []models.EmailReply
}

func NewCareerStore() *CareerStore {
	return &CareerStore{
		openings:     make(map[string]models.JobOpening),
		applications: make(map[string]models.JobApplication),
	}
}

func (s *CareerStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *CareerStore) CreateOpening(_ context.Context, o *models.JobOpening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = s.nextID("job")
	}
	s.openings[o.ID] = *o
	return nil
}

func (s *CareerStore) GetOpening(_ context.Context, id string) (*models.JobOpening, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.openings[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &o, nil
}

func (s *CareerStore) ListOpenings(_ context.Context, activeOnly bool) ([]*models.JobOpening, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.JobOpening
	for _, o := range s.openings {
		if activeOnly && !o.Active {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CareerStore) UpdateOpening(_ context.Context, o *models.JobOpening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.openings[o.ID]; !ok {
		return db.ErrNotFound
	}
	s.openings[o.ID] = *o
	return nil
}

func (s *CareerStore) DeleteOpening(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.openings[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.openings, id)
	return nil
}

func (s *CareerStore) CreateApplication(_ context.Context, a *models.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = s.nextID("app")
	}
	s.applications[a.ID] = *a
	return nil
}

func (s *CareerStore) GetApplication(_ context.Context, id string) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &a, nil
}

func (s *CareerStore) ListApplications(_ context.Context, f db.ApplicationFilter) ([]*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.JobApplication
	for _, a := range s.applications {
		if f.JobID != "" && a.JobID != f.JobID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CareerStore) UpdateApplication(_ context.Context, a *models.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[a.ID]; !ok {
		return db.ErrNotFound
	}
	s.applications[a.ID] = *a
	return nil
}

func (s *CareerStore) CreateReply(_ context.Context, r *models.EmailReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.nextID("reply")
	}
	s.replies = append(s.replies, *r)
	return nil
}

func (s *CareerStore) ListReplies(_ context.Context, applicationID string) ([]*models.EmailReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.EmailReply
	for _, r := range s.replies {
		if r.ApplicationID == applicationID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

// DocStore is an in-memory database.FirestoreDB. Merge recurses into nested maps, like MergeAll.
type DocStore struct {
	mu   sync.Mutex
	docs map[string]map[string]interface{}
	// GetErr, when set, is returned by Get.
	GetErr error
}

func NewDocStore() *DocStore {
	return &DocStore{docs: make(map[string]map[string]interface{})}
}

func (s *DocStore) Get(_ context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	d, ok := s.docs[collection+"/"+id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return mergeMaps(nil, d), nil
}

func (s *DocStore) Merge(_ context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := collection + "/" + id
	s.docs[k] = mergeMaps(s.docs[k], data)
	return nil
}

func (s *DocStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, collection+"/"+id)
	return nil
}

func mergeMaps(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		om, ok1 := v.(map[string]interface{})
		bm, ok2 := out[k].(map[string]interface{})
		if ok1 && ok2 {
			out[k] = mergeMaps(bm, om)
			continue
		}
		out[k] = v
	}
	return out
}
