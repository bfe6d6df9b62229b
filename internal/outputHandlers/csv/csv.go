package csv

import (
	"context"
	enccsv "encoding/csv"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

var columns = []struct {
	header string
	field  profile.Field
}{
	{"Bio", profile.Bio},
	{"Following Count", profile.FollowingCount},
	{"Followers Count", profile.FollowersCount},
	{"Location", profile.Location},
	{"Website", profile.Website},
}

// CsvOutput collects records in arrival order and writes them all at once on
// Cleanup, replacing whatever was at Path. Nothing is written when no record
// was collected. There is no dedupe.
type CsvOutput struct {
	Path string
	Fs   afero.Fs

	records []profile.Record
}

func (o *CsvOutput) Init(context.Context) error {
	if o.Path == "" {
		return errors.New("csv output file not set")
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	return nil
}

func (o *CsvOutput) HandleProfile(_ context.Context, _ string, rec profile.Record) (profile.Outcome, error) {
	o.records = append(o.records, rec)
	return profile.Inserted, nil
}

func (o *CsvOutput) Len() int { return len(o.records) }

func (o *CsvOutput) Cleanup(ctx context.Context) error {
	if len(o.records) == 0 {
		logger.Info(ctx, "no data to save", zap.String("path", o.Path))
		return nil
	}

	f, err := o.Fs.Create(o.Path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", o.Path, err)
	}

	w := enccsv.NewWriter(f)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	_ = w.Write(header)

	for _, rec := range o.records {
		line := make([]string, len(columns))
		for i, c := range columns {
			line[i] = rec.Get(c.field)
		}
		_ = w.Write(line)
	}
	w.Flush()

	if err := errors.Join(w.Error(), f.Close()); err != nil {
		return fmt.Errorf("could not write %s: %w", o.Path, err)
	}
	logger.Info(ctx, "data saved", zap.String("path", o.Path), zap.Int("rows", len(o.records)))
	return nil
}
