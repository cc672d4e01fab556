// Package policy evaluates analyst-defined CEL rules against graph nodes.
package policy

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/DrSkyle/amlgraph/pkg/config"
)

// Rule is a compiled analyst rule.
type Rule struct {
	config.RuleConfig
	program cel.Program
}

// CELEngine manages the compilation and execution of rules. Rules are
// evaluated in the order they were compiled.
type CELEngine struct {
	env    *cel.Env
	rules  []Rule
	logger *slog.Logger
}

// NewCELEngine initializes the CEL environment with the node variables.
func NewCELEngine(logger *slog.Logger) (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("id", decls.String),
			decls.NewVar("entity_type", decls.String),
			decls.NewVar("risk_score", decls.Double),
			decls.NewVar("centrality", decls.Double),
			decls.NewVar("betweenness", decls.Double),
			decls.NewVar("closeness", decls.Double),
			decls.NewVar("degree", decls.Int),
			decls.NewVar("is_center", decls.Bool),
			decls.NewVar("total_sent", decls.Double),
			decls.NewVar("total_received", decls.Double),
			decls.NewVar("attributes", decls.NewMapType(decls.String, decls.Dyn)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CELEngine{env: env, logger: logger}, nil
}

// Compile compiles rules into executable programs.
func (e *CELEngine) Compile(rules []config.RuleConfig) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return fmt.Errorf("rule %s must evaluate to bool, got %s", r.ID, ast.OutputType())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.rules = append(e.rules, Rule{RuleConfig: r, program: prg})
	}
	return nil
}

// Len is the number of compiled rules.
func (e *CELEngine) Len() int { return len(e.rules) }

// Evaluate returns the rules whose condition is true for vars. A rule that
// fails to evaluate is logged and skipped.
func (e *CELEngine) Evaluate(ctx context.Context, vars map[string]any) ([]config.RuleConfig, error) {
	var matches []config.RuleConfig
	for _, r := range e.rules {
		if err := ctx.Err(); err != nil {
			return matches, err
		}
		out, _, err := r.program.ContextEval(ctx, vars)
		if err != nil {
			e.logger.Debug("Rule evaluation failed", "rule_id", r.ID, "node_id", vars["id"], "error", err)
			continue
		}
		if match, ok := out.Value().(bool); ok && match {
			matches = append(matches, r.RuleConfig)
		}
	}
	return matches, nil
}
