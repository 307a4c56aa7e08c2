package service

import (
	"context"
	"fmt"

	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
)

const maxCommentLen = 500

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) AddReview(ctx context.Context, userID, productID uint, rating int, comment string) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.add", "user_id", userID, "product_id", productID)

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	if len(comment) > maxCommentLen {
		return nil, fmt.Errorf("comment exceeds %d characters: %w", maxCommentLen, ErrValidation)
	}

	if _, err := s.Repo.ReviewByUserAndProduct(ctx, userID, productID); err == nil {
		l.Warn("add_review_failed", "status", 400, "reason", "duplicate")
		return nil, fmt.Errorf("one review per product: %w", ErrDuplicateReview)
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Repo.CreateReview(ctx, &review); err != nil {
		switch {
		case repo.IsNotFound(err):
			l.Warn("add_review_failed", "status", 404, "reason", "product missing")
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		case repo.IsDuplicate(err):
			// Lost the race with a concurrent duplicate; same answer.
			return nil, fmt.Errorf("one review per product: %w", ErrDuplicateReview)
		default:
			return nil, err
		}
	}

	l.Info("review_added", "review_id", review.ID, "rating", rating)
	return &review, nil
}

func (s *ReviewService) GetReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.ReviewsByProduct(ctx, productID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uint, comment string) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.update", "user_id", userID, "review_id", reviewID)

	if comment == "" {
		return nil, fmt.Errorf("comment required: %w", ErrValidation)
	}
	if len(comment) > maxCommentLen {
		return nil, fmt.Errorf("comment exceeds %d characters: %w", maxCommentLen, ErrValidation)
	}

	review, err := s.Repo.ReviewByID(ctx, reviewID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("review not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if review.UserID != userID {
		l.Warn("update_review_failed", "status", 403, "reason", "not author")
		return nil, fmt.Errorf("not the author: %w", ErrForbidden)
	}

	review.Comment = comment
	if err := s.Repo.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the row but leaves the product's rating list and
// average as they are. Retracting a rating would need the list rebuilt
// from surviving reviews, which the aggregate does not track per entry.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	l := logging.FromContext(ctx).With("svc", "review.delete", "user_id", userID, "review_id", reviewID)

	review, err := s.Repo.ReviewByID(ctx, reviewID)
	if err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("review not found: %w", ErrNotFound)
		}
		return err
	}
	if review.UserID != userID {
		l.Warn("delete_review_failed", "status", 403, "reason", "not author")
		return fmt.Errorf("not the author: %w", ErrForbidden)
	}

	if err := s.Repo.DeleteReview(ctx, reviewID); err != nil {
		return err
	}
	l.Info("review_deleted")
	return nil
}
