package redis

import (
	"fmt"

	"github.com/mcoot/gccache/internal/model"
)

// profileKey returns the Redis key for a profile snapshot
func (s *Storage) profileKey(fp model.Fingerprint) string {
	return fmt.Sprintf("%s:profile:%s", s.cfg.KeyPrefix, fp)
}

// profilesIndexKey returns the Redis key for the SET of snapshot keys
func (s *Storage) profilesIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", s.cfg.KeyPrefix)
}
