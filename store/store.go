package store

import (
	"time"

	"github.com/studymate/studymate/internal/profile"
	"github.com/studymate/studymate/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	cacheConfig cache.Config

	userCache          *cache.Cache
	systemSettingCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:             driver,
		profile:            profile,
		cacheConfig:        cacheConfig,
		userCache:          cache.New(cacheConfig),
		systemSettingCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	s.systemSettingCache.Close()

	return s.driver.Close()
}
