package shards

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valarz/go-press/internal/domain"
	"github.com/valarz/go-press/internal/validation"
)

const (
	// IndexFile summarises every shard in an output directory.
	IndexFile = "articles-index.json"
	// IndexVersion is written on every index.
	IndexVersion = "1.0"

	filePrefix      = "articles-"
	fileSuffix      = ".json"
	timestampLayout = "2006-01-02T15-04-05"
)

var (
	// ErrIndexCorrupt reports an index that exists but cannot be parsed. The
	// accompanying Index is empty and safe to rebuild from.
	ErrIndexCorrupt = errors.New("shards: index corrupt")
	// ErrShardInvalid reports a shard file that does not match the shard layout.
	ErrShardInvalid = errors.New("shards: shard invalid")
)

// Shard is the unit written by one ingestion run.
type Shard struct {
	GeneratedAt string           `json:"generatedAt"`
	Date        string           `json:"date"`
	Count       int              `json:"count"`
	Articles    []domain.Article `json:"articles"`
}

// IndexEntry describes one shard file.
type IndexEntry struct {
	Filename  string `json:"filename"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	RunID     string `json:"runId,omitempty"`
}

// Index lists every shard, newest date first, with a running article total.
type Index struct {
	Version       string       `json:"version"`
	LastUpdate    *string      `json:"lastUpdate"`
	TotalArticles int          `json:"totalArticles"`
	Files         []IndexEntry `json:"files"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Version: IndexVersion, Files: []IndexEntry{}}
}

// LoadIndex reads the index in dir. A missing index yields an empty one. A
// corrupt index yields an empty one together with ErrIndexCorrupt.
func LoadIndex(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("shards: read index: %w", err)
	}
	if err := validation.Validate(validation.ShardIndex, data); err != nil {
		return NewIndex(), fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return NewIndex(), fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	if index.Version == "" {
		index.Version = IndexVersion
	}
	if index.Files == nil {
		index.Files = []IndexEntry{}
	}
	return &index, nil
}

// SaveIndex writes the index to dir.
func SaveIndex(dir string, index *Index) error {
	return writeJSON(filepath.Join(dir, IndexFile), index)
}

// Record adds or refreshes the entry for a shard, keeps files sorted newest
// date first, and advances the running total by added.
func (idx *Index) Record(entry IndexEntry, added int, now time.Time) {
	stamp := now.UTC().Format(time.RFC3339Nano)
	idx.LastUpdate = &stamp
	idx.TotalArticles += added

	replaced := false
	for i := range idx.Files {
		if idx.Files[i].Filename == entry.Filename {
			idx.Files[i].Count = entry.Count
			idx.Files[i].UpdatedAt = entry.CreatedAt
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Files = append(idx.Files, entry)
	}

	sort.SliceStable(idx.Files, func(i, j int) bool {
		left, _ := domain.ParsePublishDate(idx.Files[i].Date)
		right, _ := domain.ParsePublishDate(idx.Files[j].Date)
		return left.After(right)
	})
}

// ReadShard parses a shard file.
func ReadShard(path string) (*Shard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shards: read %s: %w", filepath.Base(path), err)
	}
	if err := validation.Validate(validation.Shard, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShardInvalid, filepath.Base(path), err)
	}
	var shard Shard
	if err := json.Unmarshal(data, &shard); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShardInvalid, filepath.Base(path), err)
	}
	return &shard, nil
}

// Files lists the shard file names present in dir, sorted by name. The index
// file is excluded. A missing directory yields no files.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("shards: list %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == IndexFile {
			continue
		}
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Scan holds every article found on disk regardless of the index.
type Scan struct {
	Articles []domain.Article
	// Problems lists shard files that could not be read.
	Problems []error
}

// MaxID returns the largest article id found, or 0.
func (s Scan) MaxID() int {
	maxID := 0
	for _, article := range s.Articles {
		if article.ID > maxID {
			maxID = article.ID
		}
	}
	return maxID
}

// ScanDir reads every shard file in dir. Shards failing validation are
// reported in Problems; their article ids and slugs are still collected when
// the articles array can be decoded, so ids are never handed out twice.
func ScanDir(dir string) (Scan, error) {
	names, err := Files(dir)
	if err != nil {
		return Scan{}, err
	}
	var scan Scan
	for _, name := range names {
		path := filepath.Join(dir, name)
		shard, err := ReadShard(path)
		if err != nil {
			scan.Problems = append(scan.Problems, err)
			scan.Articles = append(scan.Articles, readIdentities(path)...)
			continue
		}
		scan.Articles = append(scan.Articles, shard.Articles...)
	}
	return scan, nil
}

// readIdentities decodes only the id and slug of each article in a shard.
// Anything unreadable yields nil.
func readIdentities(path string) []domain.Article {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var partial struct {
		Articles []struct {
			ID   int    `json:"id"`
			Slug string `json:"slug"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return nil
	}
	out := make([]domain.Article, 0, len(partial.Articles))
	for _, article := range partial.Articles {
		out = append(out, domain.Article{ID: article.ID, Slug: article.Slug})
	}
	return out
}

// ReadAll concatenates the articles of every shard referenced by the index,
// in index order.
func ReadAll(dir string) ([]domain.Article, error) {
	index, err := LoadIndex(dir)
	if err != nil {
		return nil, err
	}
	articles := []domain.Article{}
	for _, entry := range index.Files {
		shard, err := ReadShard(filepath.Join(dir, entry.Filename))
		if err != nil {
			return nil, err
		}
		articles = append(articles, shard.Articles...)
	}
	return articles, nil
}

// WriteShard writes a new shard for articles and returns its file name. The
// name is articles-<date>.json, or a timestamped name when that already
// exists, so earlier shards are never rewritten.
func WriteShard(dir string, articles []domain.Article, now time.Time) (string, *Shard, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("shards: create %s: %w", dir, err)
	}
	now = now.UTC()
	shard := &Shard{
		GeneratedAt: now.Format(time.RFC3339Nano),
		Date:        now.Format(domain.DateLayout),
		Count:       len(articles),
		Articles:    articles,
	}

	name := filePrefix + shard.Date + fileSuffix
	if exists(filepath.Join(dir, name)) {
		base := filePrefix + now.Format(timestampLayout)
		name = base + fileSuffix
		for n := 2; exists(filepath.Join(dir, name)); n++ {
			name = base + "-" + strconv.Itoa(n) + fileSuffix
		}
	}

	if err := writeJSON(filepath.Join(dir, name), shard); err != nil {
		return "", nil, err
	}
	return name, shard, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("shards: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("shards: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
