package db

import (
	"sync"

	"soundtrace/apperrors"
	"soundtrace/models"
)

// MemoryClient is an in-memory FingerprintStore, acceptable for tests
// per spec.md §4.8. Safe for concurrent use.
type MemoryClient struct {
	mu            sync.Mutex
	songs         map[uint32]models.Song
	songsByKey    map[string]uint32
	fingerprints  map[uint32][]models.Couple
	seenTriples   map[[3]uint32]struct{}
	nextSongID    uint32
}

// NewMemoryClient returns an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		songs:        make(map[uint32]models.Song),
		songsByKey:   make(map[string]uint32),
		fingerprints: make(map[uint32][]models.Couple),
		seenTriples:  make(map[[3]uint32]struct{}),
	}
}

func (m *MemoryClient) Close() error { return nil }

func (m *MemoryClient) RegisterSong(title, artist string) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := title + "---" + artist
	if _, exists := m.songsByKey[key]; exists {
		return 0, apperrors.ErrDuplicateKey
	}

	m.nextSongID++
	id := m.nextSongID
	m.songs[id] = models.Song{ID: id, Title: title, Artist: artist, Key: key}
	m.songsByKey[key] = id
	return id, nil
}

func (m *MemoryClient) GetSongByID(id uint32) (*models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.songs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryClient) GetSongByKey(key string) (*models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.songsByKey[key]
	if !ok {
		return nil, nil
	}
	s := m.songs[id]
	return &s, nil
}

func (m *MemoryClient) GetAllSongs() ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	songs := make([]models.Song, 0, len(m.songs))
	for _, s := range m.songs {
		songs = append(songs, s)
	}
	return songs, nil
}

func (m *MemoryClient) DeleteSongByID(id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.songs[id]; ok {
		delete(m.songsByKey, s.Key)
		delete(m.songs, id)
	}
	return nil
}

func (m *MemoryClient) TotalSongs() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.songs), nil
}

func (m *MemoryClient) TotalFingerprints() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, couples := range m.fingerprints {
		total += len(couples)
	}
	return total, nil
}

func (m *MemoryClient) StoreFingerprints(fingerprints map[uint32]models.Couple) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for address, couple := range fingerprints {
		triple := [3]uint32{address, couple.AnchorTimeMs, couple.SongID}
		if _, seen := m.seenTriples[triple]; seen {
			continue
		}
		m.seenTriples[triple] = struct{}{}
		m.fingerprints[address] = append(m.fingerprints[address], couple)
	}
	return nil
}

func (m *MemoryClient) GetCouples(addresses []uint32) (map[uint32][]models.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[uint32][]models.Couple)
	for _, addr := range addresses {
		if couples, ok := m.fingerprints[addr]; ok && len(couples) > 0 {
			cp := make([]models.Couple, len(couples))
			copy(cp, couples)
			result[addr] = cp
		}
	}
	return result, nil
}

func (m *MemoryClient) DeleteCollection(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "fingerprints":
		m.fingerprints = make(map[uint32][]models.Couple)
		m.seenTriples = make(map[[3]uint32]struct{})
	case "songs":
		m.songs = make(map[uint32]models.Song)
		m.songsByKey = make(map[string]uint32)
	default:
		return apperrors.ErrInvalidParameter
	}
	return nil
}
