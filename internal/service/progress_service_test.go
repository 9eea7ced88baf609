package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
)

func progressCatalog() *fakeCatalog {
	return &fakeCatalog{activities: []model.Activity{
		{BaseModel: model.BaseModel{ID: 1}, Code: "FICAM-A", Title: "Atelier A", IsMandatory: true},
		{BaseModel: model.BaseModel{ID: 2}, Code: "FICAM-B", Title: "Atelier B", IsMandatory: true},
		{BaseModel: model.BaseModel{ID: 3}, Code: "FICAM-C", Title: "Projection C"},
	}}
}

func grant(t *testing.T, ledger *fakeLedger, userID, activityID uint) {
	t.Helper()
	_, err := ledger.TryGrant(context.Background(), userID, activityID, true)
	require.NoError(t, err)
}

func TestSummaryCounts(t *testing.T) {
	ledger := newFakeLedger()
	grant(t, ledger, 1, 1)

	s := NewProgressService(progressCatalog(), ledger, config.CertificateConfig{})
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.OverallTotal)
	assert.Equal(t, 1, summary.OverallDone)
	assert.Equal(t, 33, summary.OverallPercent)
	assert.Equal(t, 2, summary.MandatoryTotal)
	assert.Equal(t, 1, summary.MandatoryDone)
	assert.Equal(t, 50, summary.MandatoryPercent)

	require.Len(t, summary.Activities, 3)
	assert.True(t, summary.Activities[0].Done)
	assert.NotNil(t, summary.Activities[0].GrantedAt)
	assert.False(t, summary.Activities[1].Done)
	assert.Nil(t, summary.Activities[1].GrantedAt)
}

func TestSummaryEmptyCatalog(t *testing.T) {
	s := NewProgressService(&fakeCatalog{}, newFakeLedger(), config.CertificateConfig{})

	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.OverallTotal)
	assert.Equal(t, 0, summary.OverallPercent)
	assert.Equal(t, 0, summary.MandatoryPercent)
	assert.Empty(t, summary.Activities)
}

func TestSummaryIgnoresOrphanedCompletions(t *testing.T) {
	ledger := newFakeLedger()
	grant(t, ledger, 1, 1)
	// Completion for an activity no longer in the catalog.
	grant(t, ledger, 1, 42)

	s := NewProgressService(progressCatalog(), ledger, config.CertificateConfig{})
	summary, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OverallDone)
	assert.Equal(t, 3, summary.OverallTotal)
	require.Len(t, summary.Activities, 3)
}

func TestSummaryIsolatedPerUser(t *testing.T) {
	ledger := newFakeLedger()
	grant(t, ledger, 1, 1)
	grant(t, ledger, 2, 1)
	grant(t, ledger, 2, 2)

	s := NewProgressService(progressCatalog(), ledger, config.CertificateConfig{})

	first, err := s.Summary(context.Background(), 1)
	require.NoError(t, err)
	second, err := s.Summary(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, first.OverallDone)
	assert.Equal(t, 2, second.OverallDone)
}

func TestCertificateEligibility(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		rule     config.CertificateConfig
		grants   []uint
		eligible bool
	}{
		{
			name:     "threshold met",
			rule:     config.CertificateConfig{MinCompletions: 2},
			grants:   []uint{1, 3},
			eligible: true,
		},
		{
			name:     "threshold not met",
			rule:     config.CertificateConfig{MinCompletions: 2},
			grants:   []uint{1},
			eligible: false,
		},
		{
			name:     "all mandatory done",
			rule:     config.CertificateConfig{RequireAllMandatory: true},
			grants:   []uint{1, 2},
			eligible: true,
		},
		{
			name:     "one mandatory missing",
			rule:     config.CertificateConfig{RequireAllMandatory: true},
			grants:   []uint{1, 3},
			eligible: false,
		},
		{
			name:     "mandatory done but below threshold",
			rule:     config.CertificateConfig{RequireAllMandatory: true, MinCompletions: 3},
			grants:   []uint{1, 2},
			eligible: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newFakeLedger()
			for _, id := range tc.grants {
				grant(t, ledger, 1, id)
			}

			s := NewProgressService(progressCatalog(), ledger, tc.rule)
			eligible, err := s.CertificateEligible(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.eligible, eligible)
		})
	}
}

func TestCertificateEligibilityEmptyMandatorySet(t *testing.T) {
	// RequireAllMandatory over a catalog with no mandatory activities never
	// grants: staff fix the rule or the catalog, a certificate is not handed
	// out vacuously.
	catalog := &fakeCatalog{activities: []model.Activity{
		{BaseModel: model.BaseModel{ID: 3}, Code: "FICAM-C", Title: "Projection C"},
	}}
	ledger := newFakeLedger()
	grant(t, ledger, 1, 3)

	s := NewProgressService(catalog, ledger, config.CertificateConfig{RequireAllMandatory: true})
	eligible, err := s.CertificateEligible(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestUpdateCertificateRuleTakesEffect(t *testing.T) {
	ledger := newFakeLedger()
	grant(t, ledger, 1, 1)

	s := NewProgressService(progressCatalog(), ledger, config.CertificateConfig{MinCompletions: 1})

	eligible, err := s.CertificateEligible(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, eligible)

	// Staff raise the bar mid-festival; the next evaluation sees it.
	s.UpdateCertificateRule(config.CertificateConfig{MinCompletions: 2})

	eligible, err = s.CertificateEligible(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 0, percent(0, 0))
	assert.Equal(t, 0, percent(0, 3))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(3, 3))
}
