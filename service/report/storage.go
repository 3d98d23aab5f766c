package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

// StorageSink writes the final record as YAML to an afs URL. A %s in the
// URL is replaced by the run ID. Passes are ignored.
type StorageSink struct {
	URL string
	fs  afs.Service
}

func NewStorageSink(URL string) *StorageSink {
	return &StorageSink{URL: URL, fs: afs.New()}
}

func (s *StorageSink) Pass(context.Context, *Pass) error { return nil }

func (s *StorageSink) Final(ctx context.Context, final *Final) error {
	data, err := yaml.Marshal(final)
	if err != nil {
		return fmt.Errorf("failed to marshal final report: %w", err)
	}
	URL := s.location(final.RunID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save final report to %s: %w", URL, err)
	}
	return nil
}

// Load reads back a final report written by the sink.
func (s *StorageSink) Load(ctx context.Context, runID string) (*Final, error) {
	URL := s.location(runID)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read final report %s: %w", URL, err)
	}
	ret := &Final{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode final report %s: %w", URL, err)
	}
	return ret, nil
}

func (s *StorageSink) location(runID string) string {
	if strings.Contains(s.URL, "%s") {
		return fmt.Sprintf(s.URL, runID)
	}
	return s.URL
}
