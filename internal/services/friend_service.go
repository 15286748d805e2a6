package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrRequestExists is not a failure: it tells the caller a request between
// the two users is already on the ledger and nothing was written.
var ErrRequestExists = errors.New("a friend request already exists between you and this user")

// Notifier receives friend request events. Implementations must not fail
// the calling operation.
type Notifier interface {
	FriendRequestReceived(ctx context.Context, req *models.FriendRequest, sender *models.User)
	FriendRequestAccepted(ctx context.Context, req *models.FriendRequest, recipient *models.User)
}

// FriendService runs the friend request state machine:
// no relationship -> pending -> accepted.
type FriendService struct {
	friends  FriendStore
	users    UserStore
	notifier Notifier
}

// NewFriendService creates a new FriendService.
func NewFriendService(friends FriendStore, users UserStore, notifier Notifier) *FriendService {
	return &FriendService{
		friends:  friends,
		users:    users,
		notifier: notifier,
	}
}

// SendFriendRequest creates a pending request from sender to recipient.
// It returns ErrRequestExists when either user already asked the other.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, apierror.Validation("You can't send friend request to yourself")
	}

	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.NotFound("Recipient not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	if recipient.HasFriend(senderID) {
		return nil, apierror.Validation("You are already friends with this user")
	}

	existing, err := s.friends.FindBetween(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.FriendRequests.WithLabelValues("duplicate").Inc()
		return nil, ErrRequestExists
	}

	req, err := s.friends.CreateRequest(ctx, &models.FriendRequest{
		Sender:    senderID,
		Recipient: recipientID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request for the pair won the insert.
		metrics.FriendRequests.WithLabelValues("duplicate").Inc()
		return nil, ErrRequestExists
	}
	if err != nil {
		return nil, err
	}

	metrics.FriendRequests.WithLabelValues("created").Inc()
	logrus.WithFields(logrus.Fields{
		"requestID": req.ID.Hex(),
		"sender":    senderID.Hex(),
		"recipient": recipientID.Hex(),
	}).Info("Friend request created")

	if sender, err := s.users.GetUserByID(ctx, senderID); err == nil {
		s.notifier.FriendRequestReceived(ctx, req, sender)
	}
	return req, nil
}

// AcceptFriendRequest lets the recipient accept a pending request, making
// both users friends.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, requestID, actingUserID primitive.ObjectID) error {
	req, err := s.friends.GetRequestByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFound("Friend request not found")
	}
	if err != nil {
		return fmt.Errorf("could not find request: %w", err)
	}

	if req.Recipient != actingUserID {
		logrus.WithFields(logrus.Fields{
			"requestID": requestID.Hex(),
			"userID":    actingUserID.Hex(),
		}).Warn("Non-recipient tried to accept friend request")
		return apierror.Forbidden("You are not authorized to accept this request")
	}

	if req.Status != models.FriendRequestPending {
		return apierror.Validation("Friend request already accepted")
	}

	if err := s.friends.AcceptRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return apierror.Validation("Friend request already accepted")
		}
		return err
	}
	req.Status = models.FriendRequestAccepted

	metrics.FriendRequests.WithLabelValues("accepted").Inc()

	if recipient, err := s.users.GetUserByID(ctx, actingUserID); err == nil {
		s.notifier.FriendRequestAccepted(ctx, req, recipient)
	}
	return nil
}

// GetIncomingRequests lists the pending requests addressed to userID with
// the sender's profile.
func (s *FriendService) GetIncomingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.IncomingRequest, error) {
	reqs, err := s.friends.ListByRecipient(ctx, userID, models.FriendRequestPending)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles(ctx, reqs, func(r models.FriendRequest) primitive.ObjectID { return r.Sender })
	if err != nil {
		return nil, err
	}

	incoming := make([]models.IncomingRequest, 0, len(reqs))
	for _, r := range reqs {
		sender, ok := profiles[r.Sender]
		if !ok {
			continue
		}
		incoming = append(incoming, models.IncomingRequest{
			ID:        r.ID,
			Sender:    sender,
			Recipient: r.Recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return incoming, nil
}

// GetOutgoingRequests lists the pending requests userID has sent.
func (s *FriendService) GetOutgoingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.OutgoingRequest, error) {
	return s.sent(ctx, userID, models.FriendRequestPending)
}

// GetAcceptedSentRequests lists the requests userID sent that were accepted.
func (s *FriendService) GetAcceptedSentRequests(ctx context.Context, userID primitive.ObjectID) ([]models.OutgoingRequest, error) {
	sent, err := s.sent(ctx, userID, models.FriendRequestAccepted)
	if err != nil {
		return nil, err
	}
	// Accepted entries only carry name and picture.
	for i := range sent {
		sent[i].Recipient.NativeLanguage = ""
		sent[i].Recipient.LearningLanguage = ""
	}
	return sent, nil
}

func (s *FriendService) sent(ctx context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.OutgoingRequest, error) {
	reqs, err := s.friends.ListBySender(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles(ctx, reqs, func(r models.FriendRequest) primitive.ObjectID { return r.Recipient })
	if err != nil {
		return nil, err
	}

	out := make([]models.OutgoingRequest, 0, len(reqs))
	for _, r := range reqs {
		recipient, ok := profiles[r.Recipient]
		if !ok {
			continue
		}
		out = append(out, models.OutgoingRequest{
			ID:        r.ID,
			Sender:    r.Sender,
			Recipient: recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// profiles loads the public profile of the user pick selects from each request.
func (s *FriendService) profiles(ctx context.Context, reqs []models.FriendRequest, pick func(models.FriendRequest) primitive.ObjectID) (map[primitive.ObjectID]models.PublicUser, error) {
	if len(reqs) == 0 {
		return map[primitive.ObjectID]models.PublicUser{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, pick(r))
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand friend requests: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Public()
	}
	return byID, nil
}
