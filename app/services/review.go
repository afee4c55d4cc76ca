package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/validate"
	"gorm.io/gorm"
)

// ReviewInput is the review form posted to a product page.
type ReviewInput struct {
	Rating  int    `form:"rating"  json:"rating"  validate:"required,min=1,max=5"`
	Comment string `form:"comment" json:"comment" validate:"required"`
}

// ReviewService records one rating per (user, product).
type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// Submit stores a review. A second review by the same user for the same
// product is ErrDuplicateReview, including when two submissions race.
func (s *ReviewService) Submit(ctx context.Context, userID, productID uint, in ReviewInput) (models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Review{}, invalid(errs)
	}

	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		return models.Review{}, notFound(err)
	}

	exists, err := s.reviews.Exists(ctx, userID, productID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, ErrDuplicateReview
	}

	rev := models.Review{UserID: userID, ProductID: productID, Rating: in.Rating, Comment: in.Comment}
	if err := s.reviews.Create(ctx, &rev); err != nil {
		if again, _ := s.reviews.Exists(ctx, userID, productID); again {
			return models.Review{}, ErrDuplicateReview
		}
		return models.Review{}, err
	}

	metrics.ReviewsSubmitted.Inc()
	logger.WithCtx(ctx).Info("review submitted", "product_id", productID, "rating", in.Rating)
	return rev, nil
}

// AverageRating is the mean rating, nil when the product has no reviews.
func (s *ReviewService) AverageRating(ctx context.Context, productID uint) (*float64, error) {
	return s.reviews.Average(ctx, productID)
}

// ForProduct lists reviews newest first.
func (s *ReviewService) ForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.reviews.ForProduct(ctx, productID)
}
