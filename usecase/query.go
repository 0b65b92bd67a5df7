package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique index violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type groupRow struct {
	Label string
	Total int64
}

// groupCount tallies rows of model by column. scopes narrow the rows counted.
func groupCount(ctx context.Context, db *gorm.DB, model interface{}, column string, scopes ...func(*gorm.DB) *gorm.DB) (map[string]int64, error) {
	var rows []groupRow
	err := db.WithContext(ctx).
		Model(model).
		Scopes(scopes...).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Label] = r.Total
	}
	return counts, nil
}

type jobCountRow struct {
	JobID uint
	Total int64
}

// countByJob counts rows of model per job_id for the given jobs.
func countByJob(ctx context.Context, db *gorm.DB, model interface{}, jobIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}

	var rows []jobCountRow
	err := db.WithContext(ctx).
		Model(model).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.JobID] = r.Total
	}
	return counts, nil
}

func sum(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}
