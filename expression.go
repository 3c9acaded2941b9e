// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Expression is a step's if condition
//
// The external runner owns evaluation at run time, pipevet only compiles the
// expression to surface syntax and type errors before a push ever happens
type Expression string

// String implements fmt.Stringer
func (e Expression) String() string {
	return string(e)
}

// Check compiles the expression and reports any syntax or type error
//
// An empty expression is always valid: the runner treats it as
// "run unless something already failed"
func (e Expression) Check() error {
	if e == "" {
		return nil
	}
	_, err := e.compile(false)
	return err
}

// Evaluate runs the expression against a static environment
//
// hasFailed stands in for the runner's failure state, branch for the ref the
// hypothetical push landed on. Used by lint-time constant folding only.
func (e Expression) Evaluate(hasFailed bool, branch string) (bool, error) {
	if e == "" {
		return !hasFailed, nil
	}

	var alwaysTriggered bool
	program, err := e.compileWith(hasFailed, &alwaysTriggered)
	if err != nil {
		return false, err
	}

	env := map[string]any{
		"env":     map[string]string{},
		"secrets": map[string]string{},
		"branch":  branch,
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	if alwaysTriggered { // always short circuits any other logic
		return true, nil
	}

	return out.(bool), nil // this is safe due to expr.AsBool()
}

// foldable reports whether the expression references only values that can be
// modeled statically: the push branch and the always/failure helpers
func (e Expression) foldable() bool {
	tree, err := parser.Parse(e.String())
	if err != nil {
		return false
	}

	c := &identCollector{}
	ast.Walk(&tree.Node, c)

	for _, name := range c.idents {
		switch name {
		case "branch", "always", "failure":
		default:
			return false
		}
	}
	return true
}

type identCollector struct {
	idents []string
}

func (c *identCollector) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IdentifierNode); ok {
		c.idents = append(c.idents, n.Value)
	}
}

func (e Expression) compile(hasFailed bool) (*vm.Program, error) {
	var alwaysTriggered bool
	return e.compileWith(hasFailed, &alwaysTriggered)
}

func (e Expression) compileWith(hasFailed bool, alwaysTriggered *bool) (*vm.Program, error) {
	failure := expr.Function(
		"failure",
		func(_ ...any) (any, error) {
			return hasFailed, nil
		},
		new(func() bool),
	)

	always := expr.Function(
		"always",
		func(_ ...any) (any, error) {
			*alwaysTriggered = true
			return true, nil
		},
		new(func() bool),
	)

	return expr.Compile(e.String(), expr.AsBool(), expr.AllowUndefinedVariables(), failure, always)
}
