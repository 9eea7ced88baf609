package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
)

// ActivityStatus is one catalog entry annotated with the user's state.
// swagger:model ActivityStatus
type ActivityStatus struct {
	ID          uint                   `json:"id"`
	Code        string                 `json:"code"`
	Title       string                 `json:"title"`
	Category    model.ActivityCategory `json:"category"`
	IsMandatory bool                   `json:"isMandatory"`
	HasQuestion bool                   `json:"hasQuestion"`
	Done        bool                   `json:"done"`
	GrantedAt   *time.Time             `json:"grantedAt,omitempty"`
}

// ProgressSummary is derived entirely from the catalog and the ledger on
// every call; nothing here is stored.
// swagger:model ProgressSummary
type ProgressSummary struct {
	OverallTotal        int              `json:"overallTotal"`
	OverallDone         int              `json:"overallDone"`
	OverallPercent      int              `json:"overallPercent"`
	MandatoryTotal      int              `json:"mandatoryTotal"`
	MandatoryDone       int              `json:"mandatoryDone"`
	MandatoryPercent    int              `json:"mandatoryPercent"`
	CertificateEligible bool             `json:"certificateEligible"`
	Activities          []ActivityStatus `json:"activities"`
}

// ProgressService computes completion statistics. The certificate rule is
// the only mutable piece; it follows the config file through the watcher and
// is re-read on every evaluation.
type ProgressService struct {
	Catalog CatalogStore
	Ledger  LedgerStore

	mu   sync.RWMutex
	cert config.CertificateConfig
}

func NewProgressService(catalog CatalogStore, ledger LedgerStore, cert config.CertificateConfig) *ProgressService {
	return &ProgressService{
		Catalog: catalog,
		Ledger:  ledger,
		cert:    cert,
	}
}

// UpdateCertificateRule swaps the eligibility rule, typically from the
// config watcher when staff edit the threshold mid-festival.
func (s *ProgressService) UpdateCertificateRule(cert config.CertificateConfig) {
	s.mu.Lock()
	s.cert = cert
	s.mu.Unlock()
}

func (s *ProgressService) certificateRule() config.CertificateConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cert
}

// Summary walks the catalog once and marks each activity against the user's
// ledger entries. Completions whose activity has since been deleted simply
// never match a catalog row, so they drop out of every count without
// special-casing.
func (s *ProgressService) Summary(ctx context.Context, userID uint) (*ProgressSummary, error) {
	activities, err := s.Catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	completions, err := s.Ledger.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grantedAt := make(map[uint]time.Time, len(completions))
	for _, c := range completions {
		grantedAt[c.ActivityID] = c.GrantedAt
	}

	summary := &ProgressSummary{
		OverallTotal: len(activities),
		Activities:   make([]ActivityStatus, 0, len(activities)),
	}

	for _, a := range activities {
		status := ActivityStatus{
			ID:          a.ID,
			Code:        a.Code,
			Title:       a.Title,
			Category:    a.Category,
			IsMandatory: a.IsMandatory,
			HasQuestion: a.HasQuestion(),
		}

		if ts, ok := grantedAt[a.ID]; ok {
			status.Done = true
			t := ts
			status.GrantedAt = &t
			summary.OverallDone++
		}

		if a.IsMandatory {
			summary.MandatoryTotal++
			if status.Done {
				summary.MandatoryDone++
			}
		}

		summary.Activities = append(summary.Activities, status)
	}

	summary.OverallPercent = percent(summary.OverallDone, summary.OverallTotal)
	summary.MandatoryPercent = percent(summary.MandatoryDone, summary.MandatoryTotal)
	summary.CertificateEligible = s.eligible(summary)

	return summary, nil
}

// CertificateEligible evaluates the current rule against live ledger state.
func (s *ProgressService) CertificateEligible(ctx context.Context, userID uint) (bool, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return false, err
	}
	return summary.CertificateEligible, nil
}

func (s *ProgressService) eligible(summary *ProgressSummary) bool {
	rule := s.certificateRule()

	if rule.RequireAllMandatory {
		if summary.MandatoryTotal == 0 || summary.MandatoryDone < summary.MandatoryTotal {
			return false
		}
	}

	return summary.OverallDone >= rule.MinCompletions
}

// percent rounds to the nearest integer and returns 0 for an empty total.
func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
