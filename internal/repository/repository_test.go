package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/surakshapay/vigil/internal/domain"
)

func TestSQLiteRepository(t *testing.T) {
	// Create temp database file
	tmpFile, err := os.CreateTemp("", "vigil-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	cfg := domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	}

	repo, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveTransaction", func(t *testing.T) {
		tx := &domain.Transaction{
			UserID:        "user-001",
			Amount:        1000.00,
			Description:   "Electricity bill",
			RecipientName: "BESCOM",
			Timestamp:     time.Now().UTC(),
		}

		if err := repo.SaveTransaction(ctx, tx); err != nil {
			t.Fatalf("SaveTransaction failed: %v", err)
		}
	})

	t.Run("SaveAndGetAssessment", func(t *testing.T) {
		a := &domain.Assessment{
			ID:              "assessment-001",
			UserID:          "user-001",
			IsFraud:         true,
			RiskScore:       55,
			FraudIndicators: []string{"gambling_keywords_detected", "suspicious_amount_pattern"},
			Confidence:      0.55,
			Timestamp:       time.Now().UTC(),
			RuleResults: []domain.RuleResult{
				{Indicator: "gambling_keywords_detected", Weight: 30, Triggered: true},
			},
		}

		if err := repo.SaveAssessment(ctx, a); err != nil {
			t.Fatalf("SaveAssessment failed: %v", err)
		}

		retrieved, err := repo.GetAssessment(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetAssessment failed: %v", err)
		}

		if retrieved.ID != a.ID {
			t.Errorf("expected ID %s, got %s", a.ID, retrieved.ID)
		}
		if retrieved.RiskScore != a.RiskScore {
			t.Errorf("expected RiskScore %d, got %d", a.RiskScore, retrieved.RiskScore)
		}
		if !retrieved.IsFraud {
			t.Error("expected IsFraud true")
		}
		if len(retrieved.FraudIndicators) != 2 {
			t.Errorf("expected 2 indicators, got %d", len(retrieved.FraudIndicators))
		}
		if retrieved.Confidence != a.Confidence {
			t.Errorf("expected Confidence %v, got %v", a.Confidence, retrieved.Confidence)
		}
	})

	t.Run("AssessmentIndicatorsNeverNil", func(t *testing.T) {
		a := &domain.Assessment{
			ID:              "assessment-clean",
			UserID:          "user-002",
			FraudIndicators: []string{},
			Timestamp:       time.Now().UTC(),
		}

		if err := repo.SaveAssessment(ctx, a); err != nil {
			t.Fatalf("SaveAssessment failed: %v", err)
		}

		retrieved, err := repo.GetAssessment(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetAssessment failed: %v", err)
		}

		if retrieved.FraudIndicators == nil {
			t.Error("FraudIndicators must round-trip as an empty slice, not nil")
		}
	})

	t.Run("SaveAndGetCustomRule", func(t *testing.T) {
		rule := &domain.CustomRule{
			ID:          "night-owl",
			Name:        "Night owl transfers",
			Description: "Large transfers in the small hours",
			Expression:  `amount > 5000.0 && hour >= 1 && hour <= 4`,
			Weight:      15,
			Enabled:     true,
		}

		if err := repo.SaveCustomRule(ctx, rule); err != nil {
			t.Fatalf("SaveCustomRule failed: %v", err)
		}

		retrieved, err := repo.GetCustomRule(ctx, rule.ID)
		if err != nil {
			t.Fatalf("GetCustomRule failed: %v", err)
		}

		if retrieved.Name != rule.Name {
			t.Errorf("expected Name %s, got %s", rule.Name, retrieved.Name)
		}
		if retrieved.Weight != rule.Weight {
			t.Errorf("expected Weight %d, got %d", rule.Weight, retrieved.Weight)
		}
		// Indicator falls back to the rule ID when unset
		if retrieved.Indicator != rule.ID {
			t.Errorf("expected Indicator %s, got %s", rule.ID, retrieved.Indicator)
		}
	})

	t.Run("ListCustomRules", func(t *testing.T) {
		disabled := &domain.CustomRule{
			ID:         "disabled-rule",
			Name:       "Disabled",
			Expression: `amount > 0.0`,
			Weight:     5,
			Enabled:    false,
		}
		if err := repo.SaveCustomRule(ctx, disabled); err != nil {
			t.Fatalf("SaveCustomRule failed: %v", err)
		}

		rules, err := repo.ListCustomRules(ctx)
		if err != nil {
			t.Fatalf("ListCustomRules failed: %v", err)
		}

		for _, r := range rules {
			if r.ID == "disabled-rule" {
				t.Error("disabled rule should not be listed")
			}
		}
	})

	t.Run("UpsertCustomRule", func(t *testing.T) {
		rule := &domain.CustomRule{
			ID:         "night-owl",
			Name:       "Night owl transfers v2",
			Expression: `amount > 2000.0 && hour >= 1 && hour <= 4`,
			Weight:     20,
			Enabled:    true,
		}

		if err := repo.SaveCustomRule(ctx, rule); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		retrieved, err := repo.GetCustomRule(ctx, rule.ID)
		if err != nil {
			t.Fatalf("GetCustomRule failed: %v", err)
		}
		if retrieved.Weight != 20 {
			t.Errorf("expected updated Weight 20, got %d", retrieved.Weight)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetAssessment(ctx, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}

		_, err = repo.GetCustomRule(ctx, "nonexistent")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		if err := repo.SaveAssessment(ctx, &domain.Assessment{}); err == nil {
			t.Error("expected error for assessment without ID")
		}

		if _, err := repo.GetAssessment(ctx, ""); err == nil {
			t.Error("expected error for empty ID")
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
