package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var ErrNotOwner = errors.New("user does not own this store")

// SocialPoster announces new stores and products. Posting is
// best-effort and never blocks the write that triggered it.
type SocialPoster interface {
	PostStore(ctx context.Context, store *Store) error
	PostProduct(ctx context.Context, product *Product, storeName string) error
}

// PurchaseChecker reports whether a user has a completed order for a product.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID string, productID int64) (bool, error)
}

type Service struct {
	repo      Repository
	cache     *ProductCache
	authz     auth.Authorizer
	social    SocialPoster
	purchases PurchaseChecker
	sfg       singleflight.Group // prevents cache stampede on product reads
}

func NewService(repo Repository, cache *ProductCache, authz auth.Authorizer, social SocialPoster, purchases PurchaseChecker) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		authz:     authz,
		social:    social,
		purchases: purchases,
	}
}

func (s *Service) CreateStore(ctx context.Context, user *auth.User, name, description string) (*Store, error) {
	if !s.authz.Allow(user, auth.ActionAddStore) {
		return nil, auth.ErrPermissionDenied
	}

	store := &Store{
		OwnerID:     user.ID,
		Name:        name,
		Description: description,
	}
	if err := s.repo.CreateStore(ctx, store); err != nil {
		return nil, err
	}

	if err := s.social.PostStore(ctx, store); err != nil {
		log.Printf("social post for store %d failed: %v", store.ID, err)
	}
	return store, nil
}

func (s *Service) ListStores(ctx context.Context, user *auth.User) ([]*Store, error) {
	return s.repo.ListStoresByOwner(ctx, user.ID)
}

func (s *Service) UpdateStore(ctx context.Context, user *auth.User, id int64, name, description string) (*Store, error) {
	if !s.authz.Allow(user, auth.ActionChangeStore) {
		return nil, auth.ErrPermissionDenied
	}
	store, err := s.ownedStore(ctx, user, id)
	if err != nil {
		return nil, err
	}

	store.Name = name
	store.Description = description
	if err := s.repo.UpdateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Service) DeleteStore(ctx context.Context, user *auth.User, id int64) error {
	if !s.authz.Allow(user, auth.ActionDeleteStore) {
		return auth.ErrPermissionDenied
	}
	if _, err := s.ownedStore(ctx, user, id); err != nil {
		return err
	}
	return s.repo.DeleteStore(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, user *auth.User, storeID int64, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if !s.authz.Allow(user, auth.ActionAddProduct) {
		return nil, auth.ErrPermissionDenied
	}
	store, err := s.ownedStore(ctx, user, storeID)
	if err != nil {
		return nil, err
	}

	product := &Product{
		StoreID:     storeID,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	if err := s.social.PostProduct(ctx, product, store.Name); err != nil {
		log.Printf("social post for product %d failed: %v", product.ID, err)
	}
	return product, nil
}

// GetProduct serves product detail reads through the cache.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	v, err, _ := s.sfg.Do(productKey(id), func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("product cache get error: %v", err)
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			cctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(cctx, product); errSet != nil {
				log.Printf("product cache set error: %v", errSet)
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, user *auth.User, id int64, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if !s.authz.Allow(user, auth.ActionChangeProduct) {
		return nil, auth.ErrPermissionDenied
	}
	product, err := s.ownedProduct(ctx, user, id)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = description
	product.Price = price
	product.Stock = stock
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(id)
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, user *auth.User, id int64) error {
	if !s.authz.Allow(user, auth.ActionDeleteProduct) {
		return auth.ErrPermissionDenied
	}
	if _, err := s.ownedProduct(ctx, user, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

// AddReview creates a review, marking it verified iff the author has a
// prior order for the product. Ratings outside 1..5 fall back to 5.
func (s *Service) AddReview(ctx context.Context, user *auth.User, productID int64, rating int, comment string) (*Review, error) {
	if !s.authz.Allow(user, auth.ActionAddReview) {
		return nil, auth.ErrPermissionDenied
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		rating = 5
	}

	verified, err := s.purchases.HasPurchased(ctx, user.ID, productID)
	if err != nil {
		return nil, err
	}

	review := &Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    rating,
		Comment:   comment,
		Verified:  verified,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) ListReviews(ctx context.Context, productID int64) ([]*Review, error) {
	return s.repo.ListReviewsByProduct(ctx, productID)
}

func (s *Service) ownedStore(ctx context.Context, user *auth.User, storeID int64) (*Store, error) {
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != user.ID {
		return nil, ErrNotOwner
	}
	return store, nil
}

func (s *Service) ownedProduct(ctx context.Context, user *auth.User, productID int64) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedStore(ctx, user, product.StoreID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) invalidate(productID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Printf("product cache invalidate error: %v", err)
	}
}
