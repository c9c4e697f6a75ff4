package catalog

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/fjod/go_shop/internal/domain"
	"golang.org/x/sync/singleflight"
)

const cacheOpTimeout = time.Second

// Service is the read path over the product catalog: a read-through redis
// cache in front of the repository, with singleflight collapsing concurrent
// misses for the same product into one database read.
type Service struct {
	repo  ProductRepository
	cache ProductCache
	sfg   singleflight.Group
}

func NewService(repo ProductRepository, cache ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {

		p, err := s.cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("product cache get error: %v", err) // log cache error but continue
		}

		p, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), p); errSet != nil {
				log.Printf("product cache set error: %v", errSet)
			}
		}()

		return p, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) ListProducts(ctx context.Context, filter Filter) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}

	ctxDel, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := s.cache.Delete(ctxDel, p.ID); err != nil {
		log.Printf("product cache invalidate error: %v", err)
	}
	return nil
}
