// Package testutil provides in-memory stand-ins for the MongoDB repositories
// and the chat provider.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps users, friend requests and notifications in memory. It
// satisfies services.UserStore, services.FriendStore and
// services.NotificationStore.
type Store struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]models.User
	requests      map[primitive.ObjectID]models.FriendRequest
	notifications map[primitive.ObjectID]models.Notification

	// FailSecondFriendWrite makes AcceptRequest stop after the status
	// update and the sender's friend-set write, as a non-transactional
	// acceptance would on a crash.
	FailSecondFriendWrite bool
	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{
		users:         make(map[primitive.ObjectID]models.User),
		requests:      make(map[primitive.ObjectID]models.FriendRequest),
		notifications: make(map[primitive.ObjectID]models.Notification),
	}
}

// AddUser seeds a user and returns it with its id set.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Friends == nil {
		u.Friends = []primitive.ObjectID{}
	}
	s.users[u.ID] = cloneUser(u)
	return u
}

// User returns a copy of the stored user.
func (s *Store) User(id primitive.ObjectID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.users[id])
}

// Requests returns every stored friend request.
func (s *Store) Requests() []models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FriendRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	sortRequests(out)
	return out
}

// AddRequest seeds a friend request.
func (s *Store) AddRequest(r models.FriendRequest) models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.Pair = models.PairKey(r.Sender, r.Recipient)
	s.requests[r.ID] = r
	return r
}

// Notifications returns the stored notifications of userID.
func (s *Store) Notifications(userID primitive.ObjectID) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// AddNotification seeds a notification as is, without touching its timestamps.
func (s *Store) AddNotification(n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	s.notifications[n.ID] = n
	return n
}

func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	s.users[user.ID] = cloneUser(*user)
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (s *Store) CompleteOnboarding(_ context.Context, id primitive.ObjectID, p models.OnboardingProfile) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.FullName = p.FullName
	u.Bio = p.Bio
	u.NativeLanguage = p.NativeLanguage
	u.LearningLanguage = p.LearningLanguage
	u.Location = p.Location
	if p.ProfilePic != "" {
		u.ProfilePic = p.ProfilePic
	}
	u.IsOnboarded = true
	u.UpdatedAt = time.Now()
	s.users[id] = u
	c := cloneUser(u)
	return &c, nil
}

func (s *Store) GetRecommendedUsers(_ context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	skip := make(map[primitive.ObjectID]bool, len(exclude)+1)
	skip[userID] = true
	for _, id := range exclude {
		skip[id] = true
	}
	out := []models.User{}
	for id, u := range s.users {
		if !skip[id] && u.IsOnboarded {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.User{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *Store) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.addFriend(userID, friendID)
	return nil
}

func (s *Store) addFriend(userID, friendID primitive.ObjectID) {
	u, ok := s.users[userID]
	if !ok || u.HasFriend(friendID) {
		return
	}
	u.Friends = append(u.Friends, friendID)
	s.users[userID] = u
}

func (s *Store) CreateRequest(_ context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	pair := models.PairKey(req.Sender, req.Recipient)
	for _, r := range s.requests {
		if r.Pair == pair {
			return nil, repository.ErrDuplicate
		}
	}
	req.ID = primitive.NewObjectID()
	req.Status = models.FriendRequestPending
	req.Pair = pair
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	s.requests[req.ID] = *req
	return req, nil
}

func (s *Store) FindBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, r := range s.requests {
		if (r.Sender == a && r.Recipient == b) || (r.Sender == b && r.Recipient == a) {
			c := r
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListByRecipient(_ context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error) {
	return s.filter(func(r models.FriendRequest) bool { return r.Recipient == userID && r.Status == status })
}

func (s *Store) ListBySender(_ context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error) {
	return s.filter(func(r models.FriendRequest) bool { return r.Sender == userID && r.Status == status })
}

func (s *Store) ListAccepted(_ context.Context, after primitive.ObjectID, limit int64) ([]models.FriendRequest, error) {
	all, err := s.filter(func(r models.FriendRequest) bool {
		return r.Status == models.FriendRequestAccepted && (after.IsZero() || r.ID.Hex() > after.Hex())
	})
	if err != nil {
		return nil, err
	}
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) filter(keep func(models.FriendRequest) bool) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.FriendRequest{}
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sortRequests(out)
	return out, nil
}

func (s *Store) AcceptRequest(_ context.Context, req *models.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	r, ok := s.requests[req.ID]
	if !ok || r.Status != models.FriendRequestPending {
		return repository.ErrNotPending
	}
	r.Status = models.FriendRequestAccepted
	r.UpdatedAt = time.Now()
	s.requests[r.ID] = r

	s.addFriend(r.Sender, r.Recipient)
	if s.FailSecondFriendWrite {
		return nil
	}
	s.addFriend(r.Recipient, r.Sender)
	return nil
}

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.ExpiresAt = n.CreatedAt.Add(7 * 24 * time.Hour)
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	now := time.Now()
	out := []models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID && n.ExpiresAt.After(now) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) MarkAsRead(_ context.Context, userID, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}

func (s *Store) DeleteExpiredNotifications(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	now := time.Now()
	var deleted int64
	for id, n := range s.notifications {
		if !n.ExpiresAt.After(now) {
			delete(s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func cloneUser(u models.User) models.User {
	if u.Friends != nil {
		u.Friends = append([]primitive.ObjectID{}, u.Friends...)
	}
	return u
}

func sortRequests(reqs []models.FriendRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID.Hex() < reqs[j].ID.Hex() })
}
