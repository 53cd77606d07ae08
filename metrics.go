package bfrun

import (
	"fmt"
)

// SuiteMetrics summarises the latest journaled run of a suite.
type SuiteMetrics struct {
	Runs                    uint
	LatestRun               uint
	Cases                   uint
	Passed                  uint
	Failed                  uint
	AvgInstructionsExecuted float64
	AvgDistance             float64
	ByReason                map[FailReason]uint
}

func (p *Persistence) QueryMetrics(suiteID uint) (*SuiteMetrics, error) {
	m := &SuiteMetrics{ByReason: make(map[FailReason]uint)}

	row := p.DB.Raw(`SELECT COUNT(DISTINCT run_id), COALESCE(MAX(run_id), 0)
		FROM evaluations WHERE suite_id = ?`, suiteID).Row()
	if err := row.Scan(&m.Runs, &m.LatestRun); err != nil {
		return nil, fmt.Errorf("failed to query runs for suite [%d]: %w", suiteID, err)
	}
	if m.Runs == 0 {
		return m, nil
	}

	row = p.DB.Raw(`SELECT COUNT(*),
		COALESCE(AVG(instructions_executed), 0),
		COALESCE(AVG(distance), 0)
		FROM evaluations WHERE suite_id = ? AND run_id = ?`, suiteID, m.LatestRun).Row()
	if err := row.Scan(&m.Cases, &m.AvgInstructionsExecuted, &m.AvgDistance); err != nil {
		return nil, fmt.Errorf("failed to query latest run for suite [%d]: %w", suiteID, err)
	}

	rows, err := p.DB.Raw(`SELECT reason, COUNT(*) FROM evaluations
		WHERE suite_id = ? AND run_id = ?
		GROUP BY reason`, suiteID, m.LatestRun).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query fail reasons for suite [%d]: %w", suiteID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var reason FailReason
		var count uint
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, err
		}
		if reason == Passed {
			m.Passed = count
			continue
		}
		m.ByReason[reason] = count
		m.Failed += count
	}
	return m, rows.Err()
}

// PruneResult counts what Prune removed, or would remove on a dry run.
type PruneResult struct {
	TotalEvaluations   uint
	KeptRuns           uint
	DeletedRuns        uint
	DeletedEvaluations uint
}

// Prune drops every evaluation of suiteID except those from the latest keep
// runs.
func (p *Persistence) Prune(suiteID, keep uint, dryRun bool) (*PruneResult, error) {
	m, err := p.QueryMetrics(suiteID)
	if err != nil {
		return nil, err
	}

	result := &PruneResult{}
	var total int64
	if err := p.DB.Model(&Evaluation{}).Where("suite_id = ?", suiteID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count evaluations for suite [%d]: %w", suiteID, err)
	}
	result.TotalEvaluations = uint(total)

	if m.Runs <= keep {
		result.KeptRuns = m.Runs
		return result, nil
	}

	cutoff := m.LatestRun - keep
	var runs, doomed int64
	if err := p.DB.Model(&Evaluation{}).
		Where("suite_id = ? AND run_id <= ?", suiteID, cutoff).
		Distinct("run_id").Count(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to count runs for suite [%d]: %w", suiteID, err)
	}
	if err := p.DB.Model(&Evaluation{}).
		Where("suite_id = ? AND run_id <= ?", suiteID, cutoff).
		Count(&doomed).Error; err != nil {
		return nil, fmt.Errorf("failed to count evaluations for suite [%d]: %w", suiteID, err)
	}
	result.DeletedRuns = uint(runs)
	result.KeptRuns = m.Runs - result.DeletedRuns
	result.DeletedEvaluations = uint(doomed)

	if dryRun {
		return result, nil
	}

	if err := p.DB.Where("suite_id = ? AND run_id <= ?", suiteID, cutoff).
		Delete(&Evaluation{}).Error; err != nil {
		return nil, fmt.Errorf("failed to prune suite [%d]: %w", suiteID, err)
	}
	return result, nil
}
