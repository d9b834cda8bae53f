/*
Copyright © 2026 the canopy authors.
This file is part of canopy.

canopy is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

canopy is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with canopy.  If not, see <http://www.gnu.org/licenses/>.
*/

package canopy

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/Knetic/govaluate"
)

// Value returns the named field of the leaf state, or an error for an
// invalid name.
func (ls *LeafState) Value(name string) (float64, error) {
	v := reflect.ValueOf(ls).Elem().FieldByName(name)
	if !v.IsValid() {
		return 0, fmt.Errorf("canopy: invalid leaf state variable %q", name)
	}
	switch v.Kind() {
	case reflect.Float64:
		return v.Float(), nil
	case reflect.Int:
		return float64(v.Int()), nil
	}
	return 0, fmt.Errorf("canopy: leaf state variable %q is not numeric", name)
}

// Units returns the units of the named leaf state variable, or an
// error for an invalid name.
func (ls *LeafState) Units(name string) (string, error) {
	f, ok := reflect.TypeOf(ls).Elem().FieldByName(name)
	if !ok {
		return "", fmt.Errorf("canopy: invalid leaf state variable %q", name)
	}
	return f.Tag.Get("units"), nil
}

// Variables returns the names of all leaf state variables, sorted.
func (ls *LeafState) Variables() []string {
	t := reflect.TypeOf(ls).Elem()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names = append(names, t.Field(i).Name)
	}
	sort.Strings(names)
	return names
}

// variableMap exposes the leaf state fields as an expression parameter
// map.
func (ls *LeafState) variableMap() map[string]interface{} {
	t := reflect.TypeOf(ls).Elem()
	v := reflect.ValueOf(ls).Elem()
	m := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		switch v.Field(i).Kind() {
		case reflect.Float64:
			m[t.Field(i).Name] = v.Field(i).Float()
		case reflect.Int:
			m[t.Field(i).Name] = float64(v.Field(i).Int())
		}
	}
	return m
}

// Outputter evaluates named expressions over converged leaf states, so
// that batch callers can compute derived quantities such as water use
// efficiency without touching the solver.
type Outputter struct {
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
}

// NewOutputter compiles a set of named expressions over the leaf state
// variables. outputFunctions may add to or override the default
// function set:
//
// 'exp(x)', 'log(x)', 'sqrt(x)', 'min(x, y)', and 'max(x, y)' with
// their usual meanings. Expressions refer to LeafState fields by name,
// e.g. "Assimilation / (LatentHeat / 44000.0)" for a molar water use
// efficiency.
func NewOutputter(outputVariables map[string]string,
	outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("canopy: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("canopy: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return math.Log(arg[0].(float64)), nil
		},
		"sqrt": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("canopy: got %d arguments for function 'sqrt', but needs 1", len(arg))
			}
			return math.Sqrt(arg[0].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("canopy: got %d arguments for function 'min', but needs 2", len(arg))
			}
			return math.Min(arg[0].(float64), arg[1].(float64)), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("canopy: got %d arguments for function 'max', but needs 2", len(arg))
			}
			return math.Max(arg[0].(float64), arg[1].(float64)), nil
		},
	}
	for name, f := range outputFunctions {
		funcs[name] = f
	}

	o := &Outputter{
		outputVariables: outputVariables,
		expressions:     make(map[string]*govaluate.EvaluableExpression, len(outputVariables)),
	}
	for name, exprText := range outputVariables {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprText, funcs)
		if err != nil {
			return nil, fmt.Errorf("canopy: output variable %q: %v", name, err)
		}
		o.expressions[name] = expr
	}
	return o, nil
}

// Output evaluates all configured expressions for one converged leaf
// state.
func (o *Outputter) Output(ls *LeafState) (map[string]float64, error) {
	params := ls.variableMap()
	out := make(map[string]float64, len(o.expressions))
	for name, expr := range o.expressions {
		res, err := expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("canopy: output variable %q: %v", name, err)
		}
		val, ok := res.(float64)
		if !ok {
			return nil, fmt.Errorf("canopy: output variable %q does not evaluate to a number", name)
		}
		out[name] = val
	}
	return out, nil
}
