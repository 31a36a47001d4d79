package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"

	"stablecore/crypto"
	"stablecore/native/stable"
)

const (
	globalKey           = "global"
	collateralKeyPrefix = "collateral:"
	positionKeyPrefix   = "position:"
	psmKeyPrefix        = "psm:"
)

// LevelDB is a stable.State persisted in a LevelDB database. Records are
// JSON-encoded; the encoding is a storage-internal detail, not a wire format.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) the database at the provided path.
func OpenLevelDB(path string) (*LevelDB, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("leveldb store path required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve leveldb store path: %w", err)
	}
	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb store: %w", err)
	}
	return &LevelDB{db: db}, nil
}

// Close releases the underlying database resources.
func (s *LevelDB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *LevelDB) get(key string, out any) (bool, error) {
	raw, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LevelDB) put(key string, record any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.db.Put([]byte(key), encoded, nil); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *LevelDB) GlobalState() (*stable.GlobalState, error) {
	var gs stable.GlobalState
	ok, err := s.get(globalKey, &gs)
	if err != nil || !ok {
		return nil, err
	}
	return &gs, nil
}

func (s *LevelDB) PutGlobalState(gs *stable.GlobalState) error {
	return s.put(globalKey, gs)
}

func (s *LevelDB) CollateralConfig(symbol string) (*stable.CollateralConfig, error) {
	var cfg stable.CollateralConfig
	ok, err := s.get(collateralKeyPrefix+symbol, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

func (s *LevelDB) PutCollateralConfig(cfg *stable.CollateralConfig) error {
	return s.put(collateralKeyPrefix+cfg.Symbol, cfg)
}

func (s *LevelDB) Position(owner crypto.Address, collateral string) (*stable.Position, error) {
	var pos stable.Position
	ok, err := s.get(positionKeyPrefix+positionKey(owner, collateral), &pos)
	if err != nil || !ok {
		return nil, err
	}
	return &pos, nil
}

func (s *LevelDB) PutPosition(pos *stable.Position) error {
	return s.put(positionKeyPrefix+positionKey(pos.Owner, pos.Collateral), pos)
}

func (s *LevelDB) PsmConfig(symbol string) (*stable.PsmConfig, error) {
	var cfg stable.PsmConfig
	ok, err := s.get(psmKeyPrefix+symbol, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

func (s *LevelDB) PutPsmConfig(cfg *stable.PsmConfig) error {
	return s.put(psmKeyPrefix+cfg.ReferenceSymbol, cfg)
}
