package bfrun

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	gorm "gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type PersistenceConfig struct {
	Name          string   `toml:"name"`
	Path          string   `toml:"path"`
	SQLitePragmas []string `toml:"sqlite_pragmas"`
	SQLiteOptions []string `toml:"sqlite_options"`
	BatchSize     int      `toml:"batch_size"`
}

type Persistence struct {
	Config *PersistenceConfig
	DB     *gorm.DB
}

// NewPersistence opens the journal. Journal queries are logged to logger,
// or dropped when logger is nil.
func NewPersistence(config *PersistenceConfig, logger *slog.Logger) (*Persistence, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if len(config.Path) == 0 {
		return nil, fmt.Errorf("path to database must be defined")
	}

	if len(config.Name) == 0 {
		return nil, fmt.Errorf("name of database must be defined")
	}

	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if logger != nil {
		gormConfig.Logger = newGormLogger(logger)
	}

	db, err := gorm.Open(sqlite.Open(config.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal [%s]: %w", config.DSN(), err)
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: batchSize})

	p := &Persistence{Config: config, DB: db}
	if err = p.initialize(); err != nil {
		return nil, err
	}

	return p, nil
}

// DSN joins the database path with its pragmas and options.
func (c *PersistenceConfig) DSN() string {
	params := make([]string, 0, len(c.SQLitePragmas)+len(c.SQLiteOptions))
	for _, prag := range c.SQLitePragmas {
		params = append(params, "_pragma="+prag)
	}
	params = append(params, c.SQLiteOptions...)

	path := filepath.Join(c.Path, c.Name)
	if len(params) == 0 {
		return path
	}
	return path + "?" + strings.Join(params, "&")
}

func (p *Persistence) initialize() error {
	if err := p.DB.AutoMigrate(
		&Suite{},
		&Case{},
		&Evaluation{},
	); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}

	return nil
}

func (p *Persistence) Shutdown() error {
	sqldb, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return sqldb.Close()
}

// SaveSuite stores s and its cases, keyed by suite name and case name so
// that repeated runs of the same suite file keep their case ids. IDs are
// written back into s. Journaled cases no longer in s are removed along with
// their evaluations.
func (p *Persistence) SaveSuite(s *Suite) error {
	if s == nil {
		return fmt.Errorf("suite cannot be nil")
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		var existing Suite
		found := tx.Where("name = ?", s.Name).Limit(1).Find(&existing)
		switch {
		case found.Error != nil:
			return fmt.Errorf("failed to look up suite [%s]: %w", s.Name, found.Error)
		case found.RowsAffected == 0:
			s.ID = 0
			if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
				return fmt.Errorf("failed to create suite [%s]: %w", s.Name, err)
			}
		default:
			s.ID = existing.ID
			if err := tx.Omit(clause.Associations).Save(s).Error; err != nil {
				return fmt.Errorf("failed to update suite [%s]: %w", s.Name, err)
			}
		}

		for _, c := range s.Cases {
			c.SuiteID = s.ID
			// Sources that do not parse are still journaled, just unpacked.
			_, _ = c.Compile()

			var journaled Case
			found := tx.Where("suite_id = ? AND name = ?", s.ID, c.Name).Limit(1).Find(&journaled)
			if found.Error != nil {
				return fmt.Errorf("failed to look up case [%s]: %w", c.Name, found.Error)
			}
			var err error
			if found.RowsAffected == 0 {
				c.ID = 0
				err = tx.Omit(clause.Associations).Create(c).Error
			} else {
				c.ID = journaled.ID
				err = tx.Omit(clause.Associations).Save(c).Error
			}
			if err != nil {
				return fmt.Errorf("failed to save case [%s]: %w", c.Name, err)
			}
		}

		return removeStaleCases(tx, s)
	})
}

func removeStaleCases(tx *gorm.DB, s *Suite) error {
	stale := tx.Model(&Case{}).Where("suite_id = ?", s.ID)
	if len(s.Cases) > 0 {
		names := make([]string, len(s.Cases))
		for i, c := range s.Cases {
			names[i] = c.Name
		}
		stale = stale.Where("name NOT IN ?", names)
	}

	var ids []uint
	if err := stale.Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to find stale cases of suite [%s]: %w", s.Name, err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Where("case_id IN ?", ids).Delete(&Evaluation{}).Error; err != nil {
		return fmt.Errorf("failed to remove evaluations of stale cases: %w", err)
	}
	if err := tx.Delete(&Case{}, ids).Error; err != nil {
		return fmt.Errorf("failed to remove stale cases of suite [%s]: %w", s.Name, err)
	}
	return nil
}

// LoadSuite returns the journaled suite called name with its cases.
func (p *Persistence) LoadSuite(name string) (*Suite, error) {
	var s Suite
	if err := p.DB.Preload("Cases", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, fmt.Errorf("failed to load suite [%s]: %w", name, err)
	}
	return &s, nil
}

// NextRunID is one past the highest run id journaled for suiteID.
func (p *Persistence) NextRunID(suiteID uint) (uint, error) {
	var latest uint
	if err := p.DB.Model(&Evaluation{}).
		Where("suite_id = ?", suiteID).
		Select("COALESCE(MAX(run_id), 0)").
		Scan(&latest).Error; err != nil {
		return 0, fmt.Errorf("failed to query latest run: %w", err)
	}
	return latest + 1, nil
}

func (p *Persistence) SaveEvaluations(evals []*Evaluation) error {
	if len(evals) == 0 {
		return nil
	}
	if result := p.DB.Create(&evals); result.Error != nil {
		return fmt.Errorf("failed to save evaluations: %w", result.Error)
	}
	return nil
}

// CaseEvaluations returns every journaled evaluation of a case, oldest
// first.
func (p *Persistence) CaseEvaluations(caseID uint) ([]*Evaluation, error) {
	var evals []*Evaluation
	if err := p.DB.Where("case_id = ?", caseID).Order("id").Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to load evaluations for case [%d]: %w", caseID, err)
	}
	return evals, nil
}
