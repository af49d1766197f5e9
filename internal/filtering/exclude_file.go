package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/jobs"
	"github.com/spigell/visa-hunter/internal/ranking"
)

// Excluded is the content of an exclude file.
type Excluded struct {
	Items []*ExcludedPosting
}

// ExcludedPosting is a posting the user does not want to see again.
type ExcludedPosting struct {
	Title      string
	Company    string
	Location   string
	ApplyLink  string
	ExcludedAt time.Time
}

// Key is the posting identity, the same one used for deduplication.
func (e *ExcludedPosting) Key() string {
	return jobs.Key(e.Title, e.Company, e.Location)
}

// LoadExcluded reads an exclude file. A missing or empty file yields an empty list.
func LoadExcluded(path string) (*Excluded, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Excluded{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Excluded{}, nil
	}

	var excluded Excluded
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// ToExcluded converts ranked postings into exclude file entries.
func ToExcluded(items []*ranking.Scored) *Excluded {
	excluded := &Excluded{}
	for _, item := range items {
		excluded.Items = append(excluded.Items, &ExcludedPosting{
			Title:      item.Title,
			Company:    item.Company,
			Location:   item.Location,
			ApplyLink:  item.ApplyLink,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// Append adds entries whose identity is not present yet.
func (e *Excluded) Append(s *Excluded) {
	seen := e.Keys()
	for _, item := range s.Items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

// Keys returns the set of identities in the file.
func (e *Excluded) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		keys[item.Key()] = struct{}{}
	}
	return keys
}

// ToFile overwrites path with the entries.
func (e *Excluded) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

type excludeFileFilter struct {
	path     string
	disabled bool
	reason   string
}

// NewExcludeFile creates a filter that removes postings listed in the exclude file.
// An empty path leaves the postings untouched.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{
		path: strings.TrimSpace(path),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate() error {
	if f.path == "" {
		return nil
	}
	stat, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if stat.IsDir() {
		return fmt.Errorf("exclude file %q is a directory", f.path)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, logger *zap.Logger, items []*ranking.Scored) ([]*ranking.Scored, Step, error) {
	initial := len(items)
	if f.path == "" {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return items, Step{}, fmt.Errorf("getting excluded postings from file: %w", err)
	}

	keys := excluded.Keys()
	kept, dropped := keep(items, func(s *ranking.Scored) bool {
		_, ok := keys[s.Key()]
		return !ok
	})

	if len(dropped) > 0 {
		logger.Info("excluding postings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", titles(dropped)),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
