package nonconformity

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	domain "nctrack/internal/domain/nonconformity"
)

type catalogSeedStatus struct {
	Label    string `toml:"label"`
	IsClosed *bool  `toml:"is_closed"`
}

type catalogSeedEntry struct {
	Label string `toml:"label"`
}

type catalogSeedArea struct {
	Label  string `toml:"label"`
	Coding string `toml:"coding"`
}

type catalogSeed struct {
	Statuses   []catalogSeedStatus `toml:"statuses"`
	Severities []catalogSeedEntry  `toml:"severities"`
	Categories []catalogSeedEntry  `toml:"categories"`
	Areas      []catalogSeedArea   `toml:"areas"`
}

// loadCatalogSeed reads a catalog.toml vocabulary file. A status entry
// may omit is_closed, in which case the legacy label-keyword heuristic
// decides the flag once, at seed time.
func loadCatalogSeed(seedFile string) (catalogSeed, error) {
	path := strings.TrimSpace(seedFile)
	if path == "" {
		return catalogSeed{}, errors.New("catalog seed file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return catalogSeed{}, err
	}

	var seed catalogSeed
	if err := toml.Unmarshal(raw, &seed); err != nil {
		return catalogSeed{}, err
	}
	if err := validateCatalogSeed(seed); err != nil {
		return catalogSeed{}, err
	}
	return seed, nil
}

func validateCatalogSeed(seed catalogSeed) error {
	for _, status := range seed.Statuses {
		if strings.TrimSpace(status.Label) == "" {
			return errors.New("catalog seed: status with empty label")
		}
	}
	for _, severity := range seed.Severities {
		if strings.TrimSpace(severity.Label) == "" {
			return errors.New("catalog seed: severity with empty label")
		}
	}
	for _, category := range seed.Categories {
		if strings.TrimSpace(category.Label) == "" {
			return errors.New("catalog seed: category with empty label")
		}
	}
	for _, area := range seed.Areas {
		if strings.TrimSpace(area.Label) == "" {
			return errors.New("catalog seed: area with empty label")
		}
	}
	return nil
}

func (s catalogSeedStatus) closedFlag() bool {
	if s.IsClosed != nil {
		return *s.IsClosed
	}
	return domain.ClassifyStatusLabel(s.Label)
}
