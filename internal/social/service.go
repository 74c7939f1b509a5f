package social

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/models"
)

type State string

const (
	Following  State = "following"
	Pending    State = "pending"
	Unfollowed State = "unfollowed"
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) FollowState(viewerID, targetID uint) (State, error) {
	var edge models.Follow
	err := s.DB.Where("follower_id = ? AND followed_id = ?", viewerID, targetID).First(&edge).Error
	if err == nil {
		return Following, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Unfollowed, fmt.Errorf("db error: %w", err)
	}

	var req models.FollowRequest
	err = s.DB.Where("sender_id = ? AND receiver_id = ?", viewerID, targetID).First(&req).Error
	if err == nil {
		return Pending, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Unfollowed, fmt.Errorf("db error: %w", err)
	}

	return Unfollowed, nil
}

// CanView decides whether viewer may see target's content. Public accounts
// are open to everyone, anonymous viewers included. Private accounts open
// only to the owner, confirmed followers and the admin credential. Nothing
// about the target leaks on a deny.
func (s *Service) CanView(viewer *authz.Principal, target *models.User) (bool, error) {
	if !target.IsPrivate {
		return true, nil
	}
	if viewer == nil {
		return false, nil
	}
	if viewer.Admin || viewer.ID == target.ID {
		return true, nil
	}

	state, err := s.FollowState(viewer.ID, target.ID)
	if err != nil {
		return false, err
	}
	return state == Following, nil
}

// ToggleFollow runs one transition of the follow state machine:
//
//	unfollowed -> following  (public target)
//	unfollowed -> pending    (private target)
//	pending    -> unfollowed (cancel request)
//	following  -> unfollowed
//
// The whole transition runs in one transaction so a concurrent toggle never
// leaves both an edge and a request behind.
func (s *Service) ToggleFollow(viewerID, targetID uint) (State, error) {
	if viewerID == targetID {
		return Unfollowed, authz.ErrInvalidOperation
	}

	var result State
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followed_id = ?", viewerID, targetID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			result = Unfollowed
			return nil
		}

		res = tx.Where("sender_id = ? AND receiver_id = ?", viewerID, targetID).
			Delete(&models.FollowRequest{})
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			result = Unfollowed
			return nil
		}

		var target models.User
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authz.ErrInvalidOperation
			}
			return fmt.Errorf("db error: %w", err)
		}

		if target.IsPrivate {
			if err := tx.Create(&models.FollowRequest{SenderID: viewerID, ReceiverID: targetID}).Error; err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			result = Pending
			return nil
		}

		if err := tx.Create(&models.Follow{FollowerID: viewerID, FollowedID: targetID}).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		result = Following
		return nil
	})
	if err != nil {
		return Unfollowed, err
	}
	return result, nil
}

// AcceptRequest turns a pending request into a confirmed edge. Deleting the
// request and creating the edge happen in one transaction, and the
// conditional delete makes concurrent accepts safe: whichever call finds
// the request already gone fails with ErrInvalidOperation.
func (s *Service) AcceptRequest(receiverID, senderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
			Delete(&models.FollowRequest{})
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return authz.ErrInvalidOperation
		}
		if err := tx.Create(&models.Follow{FollowerID: senderID, FollowedID: receiverID}).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (s *Service) RejectRequest(receiverID, senderID uint) error {
	res := s.DB.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return authz.ErrInvalidOperation
	}
	return nil
}

func (s *Service) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (s *Service) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}
