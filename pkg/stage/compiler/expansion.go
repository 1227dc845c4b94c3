// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/expand"
	"github.com/consensys/go-stager/pkg/stage/parser"
	"github.com/consensys/go-stager/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Expand a compiled template onto a given target, binding its compile-time
// parameters by name.  Every compile-time parameter must be given a value, and
// no other values may be given.  This returns the target method, whose body
// is the code generated by the expansion.
func Expand(ctx context.Context, compilation *Compilation, target *expand.Target, args map[string]expand.Value,
	cfg Config) (*ast.Member, error) {
	if !compilation.Success() {
		return nil, fmt.Errorf("%s was not compiled", compilation.Member.Name)
	}
	//
	var (
		names    = compilation.CompileTimeParameters()
		values   = make([]expand.Value, len(names))
		expander = expand.NewExpander().WithStepLimit(cfg.StepLimit)
	)
	//
	for i, name := range names {
		value, ok := args[name]
		if !ok {
			return nil, fmt.Errorf("no value given for compile-time parameter '%s' of %s", name,
				compilation.Member.Name)
		}
		//
		values[i] = value
	}
	//
	for name := range args {
		if !contains(names, name) {
			return nil, fmt.Errorf("'%s' is not a compile-time parameter of %s", name, compilation.Member.Name)
		}
	}
	//
	log.Debugf("expanding %s onto %s", compilation.Member.Name, target.Name)
	//
	body, err := expander.Run(ctx, compilation.Quotation, target, values...)
	if err != nil {
		return nil, err
	}
	//
	return target.Member(ast.NewArena(), body), nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	//
	return false
}

// ParseArgument parses the value of a compile-time parameter given in the form
// "name=value".  Values are integers, floating point numbers, booleans, null,
// quoted strings, or lists of these enclosed in square brackets.  Anything
// else is taken to be an unquoted string.
func ParseArgument(text string) (string, expand.Value, error) {
	name, value, ok := strings.Cut(text, "=")
	//
	if !ok || strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("malformed argument '%s' (expected name=value)", text)
	}
	//
	v, err := parseValue(strings.TrimSpace(value), ast.NewArena())
	//
	return strings.TrimSpace(name), v, err
}

func parseValue(text string, arena *ast.Arena) (expand.Value, error) {
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return parseList(text[1:len(text)-1], arena)
	} else if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	} else if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	} else if text == "true" || text == "false" {
		return text == "true", nil
	} else if text == "null" {
		return nil, nil
	} else if strings.HasPrefix(text, "\"") {
		return strconv.Unquote(text)
	}
	//
	return text, nil
}

func parseList(text string, arena *ast.Arena) (expand.Value, error) {
	var (
		items   []expand.Value
		element string
	)
	//
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot determine element type of empty list")
	}
	//
	for _, item := range strings.Split(text, ",") {
		value, err := parseValue(strings.TrimSpace(item), arena)
		if err != nil {
			return nil, err
		}
		//
		kind := typeName(value)
		//
		if kind == "" {
			return nil, fmt.Errorf("unsupported list item '%s'", item)
		} else if element != "" && element != kind {
			return nil, fmt.Errorf("list mixes %s and %s items", element, kind)
		}
		//
		element = kind
		items = append(items, value)
	}
	//
	return expand.NewList(arena.NewTypeRef(element, 0), items...), nil
}

// Name of the type of a primitive value, or empty if it is not primitive.
func typeName(value expand.Value) string {
	switch value.(type) {
	case int64:
		return "int"
	case float64:
		return "double"
	case bool:
		return "bool"
	case string:
		return "string"
	default:
		return ""
	}
}

// ParseType parses a type written in the surface language, such as
// "List<int>" or "string[]".
func ParseType(text string, arena *ast.Arena) (*ast.TypeRef, error) {
	var srcfile = source.NewSourceFile("<type>", []byte(text))
	//
	typ, errs := parser.ParseType(srcfile, arena)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid type '%s' (%s)", text, errs[0].Message())
	}
	//
	return typ, nil
}

// ParseParameter parses a parameter of a target given in the form "name:type".
func ParseParameter(text string, arena *ast.Arena) (string, *ast.TypeRef, error) {
	name, typ, ok := strings.Cut(text, ":")
	//
	if !ok || strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("malformed parameter '%s' (expected name:type)", text)
	}
	//
	ref, err := ParseType(strings.TrimSpace(typ), arena)
	//
	return strings.TrimSpace(name), ref, err
}
