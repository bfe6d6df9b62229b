package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

const profilesTable = "profiles"

//go:embed migrations/*.sql
var migrations embed.FS

// SqliteOutput stores one row per profile url. A url that is already
// present is left untouched.
type SqliteOutput struct {
	Database string
	db       *sql.DB
	builder  *goqu.Database
}

type row struct {
	ID             int64          `db:"id" goqu:"skipinsert"`
	URL            string         `db:"url"`
	Title          sql.NullString `db:"title"`
	FollowersCount sql.NullString `db:"followers_count"`
}

// gooseLogger sends migration output to zap instead of the std logger.
type gooseLogger struct{ *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...interface{}) { l.Infof(format, v...) }

func (o *SqliteOutput) Init(ctx context.Context) error {
	if o.Database == "" {
		return errors.New("sqlite database file not set")
	}

	db, err := sql.Open("sqlite3", o.Database)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", o.Database, err)
	}
	// one writer, one connection
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Get(ctx).Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return fmt.Errorf("could not set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		_ = db.Close()
		return fmt.Errorf("could not create %s table: %w", profilesTable, err)
	}

	o.db = db
	o.builder = goqu.Dialect("sqlite3").DB(db)
	return nil
}

func (o *SqliteOutput) Cleanup(context.Context) error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}

func nullable(v string) sql.NullString {
	if v == profile.Sentinel || v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func fromNullable(v sql.NullString) string {
	if !v.Valid {
		return profile.Sentinel
	}
	return v.String
}

// UpsertIfAbsent inserts rec under url unless url is already stored, in
// which case it reports DuplicateSkipped and changes nothing. Sentinel
// values are stored as NULL. The insert is committed before returning.
func (o *SqliteOutput) UpsertIfAbsent(ctx context.Context, url string, rec profile.Record) (profile.Outcome, error) {
	res, err := o.builder.Insert(profilesTable).
		Rows(goqu.Record{
			"url":             url,
			"title":           nullable(rec.Title),
			"followers_count": nullable(rec.FollowersCount),
		}).
		Executor().ExecContext(ctx)
	if isUniqueViolation(err) {
		return profile.DuplicateSkipped, nil
	}
	if err != nil {
		return profile.Failed, fmt.Errorf("could not insert profile into sqlite: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return profile.Failed, fmt.Errorf("unexpected insert result for %s: %d rows, %v", url, n, err)
	}
	return profile.Inserted, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// HandleProfile is the output handler entry point for the keyed store.
func (o *SqliteOutput) HandleProfile(ctx context.Context, url string, rec profile.Record) (profile.Outcome, error) {
	return o.UpsertIfAbsent(ctx, url, rec)
}

// Get returns the stored record for url. Fields the table does not hold are
// returned as the sentinel.
func (o *SqliteOutput) Get(ctx context.Context, url string) (profile.Record, bool, error) {
	var r row
	found, err := o.builder.From(profilesTable).
		Where(goqu.C("url").Eq(url)).
		ScanStructContext(ctx, &r)
	if err != nil {
		return profile.Record{}, false, fmt.Errorf("could not read profile from sqlite: %w", err)
	}
	if !found {
		return profile.Record{}, false, nil
	}

	rec := profile.Empty()
	rec.Title = fromNullable(r.Title)
	rec.FollowersCount = fromNullable(r.FollowersCount)
	return rec, true, nil
}

func (o *SqliteOutput) Count(ctx context.Context) (int64, error) {
	n, err := o.builder.From(profilesTable).CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count profiles: %w", err)
	}
	return n, nil
}
