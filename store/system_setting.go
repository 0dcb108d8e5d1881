package store

import (
	"context"
)

// SystemSettingSchemaVersionName is the setting row holding the current
// database schema version.
const SystemSettingSchemaVersionName = "schema_version"

type SystemSetting struct {
	Name        string
	Value       string
	Description string
}

type FindSystemSetting struct {
	Name string
}

func (s *Store) UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error) {
	setting, err := s.driver.UpsertSystemSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.systemSettingCache.Set(setting.Name, setting)
	return setting, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error) {
	list, err := s.driver.ListSystemSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	for _, setting := range list {
		s.systemSettingCache.Set(setting.Name, setting)
	}
	return list, nil
}

// GetSystemSetting returns the named setting, or nil when it does not exist.
func (s *Store) GetSystemSetting(ctx context.Context, find *FindSystemSetting) (*SystemSetting, error) {
	if cached, ok := s.systemSettingCache.Get(find.Name); ok {
		setting, ok := cached.(*SystemSetting)
		if ok {
			return setting, nil
		}
	}

	list, err := s.driver.ListSystemSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	setting := list[0]
	s.systemSettingCache.Set(setting.Name, setting)
	return setting, nil
}
