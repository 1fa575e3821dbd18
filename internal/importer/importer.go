package importer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

const rowSavePoint = "import_row"

// Result of one import. Errors holds one "Error in row N: ..." entry per
// rejected row, in row order.
type Result struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}

// Options tune an Importer; zero values pick the defaults
type Options struct {
	Workers int // goroutines coercing rows
	MaxRows int // rows accepted per file, 0 is unlimited
}

// Importer turns uploaded order files into orders. Rows are coerced in
// parallel and inserted sequentially inside one transaction; a row that
// fails is rolled back to its savepoint and reported without affecting the
// rest of the batch.
type Importer struct {
	store   *store.Store
	workers int
	maxRows int
}

func New(s *store.Store, opts Options) *Importer {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Importer{store: s, workers: opts.Workers, maxRows: opts.MaxRows}
}

type mapResult struct {
	row   *mappedRow
	err   error
	blank bool
}

// Import parses the file and imports every valid row. The returned error is
// reserved for failures of the file as a whole or of the store itself; row
// problems are collected in Result.Errors.
func (im *Importer) Import(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	records, err := ReadRecords(filename, r)
	if err != nil {
		return nil, err
	}
	if im.maxRows > 0 && len(records) > im.maxRows {
		return nil, domain.NewValidationError("file", fmt.Sprintf("too many rows: %d, the limit is %d", len(records), im.maxRows))
	}

	mapped, err := im.mapAll(records, format)
	if err != nil {
		return nil, err
	}

	res := &Result{Errors: make([]string, 0)}
	err = im.store.Transaction(ctx, func(tx *store.Store) error {
		for i, m := range mapped {
			if m.blank {
				continue
			}
			rowNum := i + 1
			if m.err != nil {
				res.Errors = append(res.Errors, (&domain.RowError{Row: rowNum, Err: m.err}).Error())
				continue
			}
			rowErr, err := insertRow(ctx, tx, m.row)
			if err != nil {
				return err
			}
			if rowErr != nil {
				res.Errors = append(res.Errors, (&domain.RowError{Row: rowNum, Err: rowErr}).Error())
				continue
			}
			res.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "import orders")
	}

	zap.S().Infof("import %s: %d rows, %d imported, %d failed",
		filename, len(records), res.SuccessCount, len(res.Errors))
	return res, nil
}

// mapAll coerces records on a bounded pool; results keep the input order
func (im *Importer) mapAll(records []Record, format Format) ([]mapResult, error) {
	results := make([]mapResult, len(records))
	if len(records) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(im.workers)
	if err != nil {
		return nil, errors.Wrap(err, "create import pool")
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range records {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if records[i].Blank() {
				results[i].blank = true
				return
			}
			results[i].row, results[i].err = mapRecord(records[i], format)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrap(err, "submit import row")
		}
	}
	wg.Wait()
	return results, nil
}

// insertRow resolves references and inserts one order under a savepoint.
// rowErr rejects only this row; err means the transaction itself is unusable.
func insertRow(ctx context.Context, tx *store.Store, m *mappedRow) (rowErr, err error) {
	db := tx.DB()
	if err := db.SavePoint(rowSavePoint).Error; err != nil {
		return nil, errors.Wrap(err, "savepoint")
	}
	rowErr = func() error {
		o := m.Order
		if o.RegionID == nil && m.RegionName != "" {
			region, err := tx.Regions.FindOrCreate(ctx, m.RegionName)
			if err != nil {
				return err
			}
			o.RegionID = &region.ID
		}
		if o.ProductID == nil && m.ProductCode != "" {
			p, err := tx.Products.GetByCode(ctx, m.ProductCode)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("product_code", fmt.Sprintf("unknown product %q", m.ProductCode))
			}
			if err != nil {
				return err
			}
			o.ProductID = &p.ID
		}
		return db.WithContext(ctx).Omit(clause.Associations).Create(&o).Error
	}()
	if rowErr == nil {
		return nil, errors.Wrap(db.Exec("RELEASE SAVEPOINT "+rowSavePoint).Error, "release savepoint")
	}
	if store.IsUnavailable(rowErr) {
		return nil, rowErr
	}
	if err := db.RollbackTo(rowSavePoint).Error; err != nil {
		return nil, errors.Wrap(err, "rollback to savepoint")
	}
	return rowErr, errors.Wrap(db.Exec("RELEASE SAVEPOINT "+rowSavePoint).Error, "release savepoint")
}
