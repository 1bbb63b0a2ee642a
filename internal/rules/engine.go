package rules

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/surakshapay/vigil/internal/domain"
)

// Engine evaluates operator-defined CEL rules alongside the built-in
// predicates. Rules are compiled once at load time and hot-reloadable.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	history       History
	clock         domain.Clock
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.CustomRule
	Program cel.Program
}

// NewEngine creates a custom-rule engine. History and clock feed the
// count and hour variables; either may be nil, in which case those
// variables stay zero.
func NewEngine(history History, clock domain.Clock, maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}

	env, err := cel.NewEnv(
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("description", cel.StringType),
		cel.Variable("recipient_name", cel.StringType),
		cel.Variable("voice_command", cel.StringType),
		cel.Variable("user_id", cel.StringType),
		cel.Variable("tx_count_1h", cel.IntType),
		cel.Variable("tx_count_24h", cel.IntType),
		cel.Variable("voice_count_5m", cel.IntType),
		cel.Variable("hour", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		history:       history,
		clock:         clock,
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles a rule without mutating loaded engine rules.
func (e *Engine) ValidateRule(cfg *domain.CustomRule) error {
	if cfg == nil {
		return fmt.Errorf("rule config is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(cfg)
	return err
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(cfg *domain.CustomRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(cfg)
	if err != nil {
		return err
	}

	e.compiledRules[cfg.ID] = compiled

	return nil
}

// LoadRules compiles and loads multiple rules, skipping disabled ones.
func (e *Engine) LoadRules(configs []*domain.CustomRule) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := e.LoadRule(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReloadRules clears all existing rules and loads new ones.
// This enables hot-reloading of rules from the database.
func (e *Engine) ReloadRules(configs []*domain.CustomRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make(map[string]*CompiledRule)

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		compiled, err := e.compileRule(cfg)
		if err != nil {
			return err
		}
		newRules[cfg.ID] = compiled
	}

	e.compiledRules = newRules

	return nil
}

// GetLoadedRules returns the currently loaded rule configurations.
func (e *Engine) GetLoadedRules() []*domain.CustomRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.CustomRule, 0, len(e.compiledRules))
	for _, compiled := range e.compiledRules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

// EvaluateAll evaluates all loaded rules against the transaction in
// parallel and returns one result per rule. An expression error
// leaves that rule untriggered rather than failing the assessment.
func (e *Engine) EvaluateAll(ctx context.Context, tx *domain.Transaction) []domain.RuleResult {
	e.mu.RLock()
	rules := make([]*CompiledRule, 0, len(e.compiledRules))
	for _, rule := range e.compiledRules {
		rules = append(rules, rule)
	}
	e.mu.RUnlock()

	if len(rules) == 0 {
		return nil
	}

	activation := e.activation(tx)

	results := make([]domain.RuleResult, len(rules))
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			results[idx] = e.evaluateRule(r, activation)
		}(i, rule)
	}

	wg.Wait()

	return results
}

// activation builds the CEL variable bindings for a transaction. The
// history counts are computed once and shared by every rule.
func (e *Engine) activation(tx *domain.Transaction) map[string]any {
	var txCount1h, txCount24h, voiceCount5m int
	if e.history != nil && tx.UserID != "" {
		txCount1h = e.history.CountTransactionsWithin(tx.UserID, time.Hour)
		txCount24h = e.history.CountTransactionsWithin(tx.UserID, 24*time.Hour)
		voiceCount5m = e.history.CountVoiceCommandsWithin(tx.UserID, 5*time.Minute)
	}

	return map[string]any{
		"amount":         tx.Amount,
		"description":    tx.Description,
		"recipient_name": tx.RecipientName,
		"voice_command":  tx.VoiceCommand,
		"user_id":        tx.UserID,
		"tx_count_1h":    int64(txCount1h),
		"tx_count_24h":   int64(txCount24h),
		"voice_count_5m": int64(voiceCount5m),
		"hour":           int64(e.clock.Now().Hour()),
	}
}

func (e *Engine) evaluateRule(rule *CompiledRule, activation map[string]any) domain.RuleResult {
	result := domain.RuleResult{
		Indicator: rule.Config.Indicator,
		Weight:    rule.Config.Weight,
	}
	if result.Indicator == "" {
		result.Indicator = rule.Config.ID
	}

	out, _, err := rule.Program.Eval(activation)
	if err != nil {
		result.Reason = fmt.Sprintf("evaluation error: %v", err)
		return result
	}

	if toScore(out) > 0 {
		result.Triggered = true
		result.Reason = rule.Config.Name
	}

	return result
}

// toScore converts a CEL value to a numeric score.
func toScore(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}

// Close cleans up the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiledRules = make(map[string]*CompiledRule)
	return nil
}

func (e *Engine) compileRule(cfg *domain.CustomRule) (*CompiledRule, error) {
	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", cfg.ID, issues.Err())
	}

	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DoubleType && outputType != cel.IntType {
		return nil, fmt.Errorf("rule %s: expression must return bool, int, or double, got %s", cfg.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{
		Config:  cfg,
		Program: program,
	}, nil
}
