package jobs

import (
	"context"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const reconcilePageSize = 200

type acceptedLister interface {
	ListAccepted(ctx context.Context, after primitive.ObjectID, limit int64) ([]models.FriendRequest, error)
}

type friendSets interface {
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
}

// FriendshipReconciler restores friend-set entries that an interrupted
// acceptance left out. Every accepted request must appear in both users'
// friend sets.
type FriendshipReconciler struct {
	requests acceptedLister
	users    friendSets
}

// NewFriendshipReconciler creates a new instance of FriendshipReconciler
func NewFriendshipReconciler(requests acceptedLister, users friendSets) *FriendshipReconciler {
	return &FriendshipReconciler{requests: requests, users: users}
}

// Run walks every accepted request and re-adds missing friends. It returns
// the number of entries it repaired.
func (f *FriendshipReconciler) Run(ctx context.Context) (int, error) {
	var (
		after    primitive.ObjectID
		repaired int
	)

	for {
		page, err := f.requests.ListAccepted(ctx, after, reconcilePageSize)
		if err != nil {
			return repaired, fmt.Errorf("failed to list accepted requests: %w", err)
		}
		if len(page) == 0 {
			break
		}

		n, err := f.repairPage(ctx, page)
		repaired += n
		if err != nil {
			return repaired, err
		}

		after = page[len(page)-1].ID
		if len(page) < reconcilePageSize {
			break
		}
	}

	if repaired > 0 {
		logrus.WithField("repaired", repaired).Warn("Friendship reconciler restored missing friends")
	}
	return repaired, nil
}

func (f *FriendshipReconciler) repairPage(ctx context.Context, page []models.FriendRequest) (int, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(page))
	for _, req := range page {
		ids = append(ids, req.Sender, req.Recipient)
	}

	users, err := f.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	repaired := 0
	for _, req := range page {
		for _, edge := range [2][2]primitive.ObjectID{{req.Sender, req.Recipient}, {req.Recipient, req.Sender}} {
			user, ok := byID[edge[0]]
			if !ok || user.HasFriend(edge[1]) {
				continue
			}
			if err := f.users.AddFriend(ctx, edge[0], edge[1]); err != nil {
				return repaired, fmt.Errorf("failed to repair friend set of %s: %w", edge[0].Hex(), err)
			}
			user.Friends = append(user.Friends, edge[1])
			repaired++
			metrics.FriendshipRepairs.Inc()
		}
	}
	return repaired, nil
}
