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
package semantic

import (
	"fmt"
	"slices"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Build a model from a given set of units, which typically includes the
// prelude.  Extern types are declared first, such that templates can refer to
// any type regardless of the order of units.  Any resolution errors are
// reported as syntax errors.
func Build(units []*ast.Unit, srcmaps *source.Maps[ast.NodeId]) (*Model, []source.SyntaxError) {
	var r = resolver{model: newModel(srcmaps)}
	// Declare types
	for _, unit := range units {
		for _, t := range unit.Types {
			r.declareType(t)
		}
	}
	// Declare their members
	for _, unit := range units {
		for _, t := range unit.Types {
			r.declareMembers(t)
		}
	}
	// Declare templates
	for _, unit := range units {
		for _, m := range unit.Members {
			r.declareTemplate(m)
		}
	}
	// Resolve their bodies
	for _, m := range r.model.members {
		r.template(m)
	}
	//
	return r.model, r.errors
}

type resolver struct {
	model *Model
	// Innermost environment
	env *environment
	// Template or local function being resolved
	owner  *Symbol
	errors []source.SyntaxError
}

type environment struct {
	parent *environment
	names  map[string]*Symbol
}

func (p *resolver) push() {
	p.env = &environment{p.env, make(map[string]*Symbol)}
}

func (p *resolver) pop() {
	p.env = p.env.parent
}

func (p *resolver) lookup(name string) *Symbol {
	for env := p.env; env != nil; env = env.parent {
		if symbol, ok := env.names[name]; ok {
			return symbol
		}
	}
	//
	return nil
}

// Declare a symbol in the innermost environment, as declared by a given node.
func (p *resolver) declare(node ast.Node, symbol *Symbol) {
	if _, ok := p.env.names[symbol.Name]; ok {
		p.error(node, "'%s' already declared", symbol.Name)
	}
	//
	p.env.names[symbol.Name] = symbol
	p.model.declared[node.Id()] = symbol
}

func (p *resolver) error(node ast.Node, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, *p.model.srcmaps.SyntaxError(node.Id(), msg))
}

// ============================================================================
// Declarations
// ============================================================================

// Declare an extern type.  Repeated declarations of the same type extend it.
func (p *resolver) declareType(decl *ast.ExternType) {
	symbol, ok := p.model.types[decl.Name]
	//
	if !ok {
		symbol = &Symbol{Kind: TYPE, Name: decl.Name, Members: make(map[string]*Symbol), Decl: decl}
		symbol.Type = &Type{Name: decl.Name, Symbol: symbol}
		p.model.types[decl.Name] = symbol
		//
		for _, tp := range decl.TypeParams {
			symbol.TypeParams = append(symbol.TypeParams, p.typeParameter(tp, symbol))
		}
	}
	//
	symbol.Attributes = append(symbol.Attributes, decl.Attributes...)
	p.model.declared[decl.Id()] = symbol
}

func (p *resolver) declareMembers(decl *ast.ExternType) {
	var owner = p.model.types[decl.Name]
	//
	p.push()
	//
	for _, tp := range owner.TypeParams {
		p.env.names[tp.Name] = tp
	}
	//
	for _, m := range decl.Members {
		p.declareMember(owner, m)
	}
	//
	p.pop()
}

func (p *resolver) declareMember(owner *Symbol, decl *ast.ExternMember) {
	var symbol = &Symbol{Kind: FIELD, Name: decl.Name, Owner: owner, Static: decl.Static,
		Attributes: decl.Attributes, Decl: decl}
	//
	if decl.Method {
		symbol.Kind = METHOD
	}
	//
	p.push()
	//
	for _, tp := range decl.TypeParams {
		tsym := p.typeParameter(tp, symbol)
		symbol.TypeParams = append(symbol.TypeParams, tsym)
		p.declare(tp, tsym)
	}
	//
	symbol.Type = p.typeRef(decl.Type)
	symbol.Params = p.parameters(decl.Params, symbol)
	//
	p.pop()
	//
	if _, ok := owner.Members[decl.Name]; ok {
		p.error(decl, "member '%s' already declared in '%s'", decl.Name, owner.Name)
	}
	//
	owner.Members[decl.Name] = symbol
	p.model.declared[decl.Id()] = symbol
}

func (p *resolver) declareTemplate(decl *ast.Member) {
	var symbol = &Symbol{Kind: TEMPLATE, Name: decl.Name, Attributes: decl.Attributes, Decl: decl}
	//
	if _, ok := p.model.templates[decl.Name]; ok {
		p.error(decl, "template '%s' already declared", decl.Name)
		return
	}
	//
	p.push()
	//
	for _, tp := range decl.TypeParams {
		tsym := p.typeParameter(tp, symbol)
		symbol.TypeParams = append(symbol.TypeParams, tsym)
		p.declare(tp, tsym)
	}
	//
	symbol.Type = p.typeRef(decl.Return)
	symbol.Params = p.parameters(decl.Params, symbol)
	//
	p.pop()
	//
	p.model.templates[decl.Name] = symbol
	p.model.members = append(p.model.members, decl)
	p.model.declared[decl.Id()] = symbol
}

func (p *resolver) typeParameter(decl *ast.TypeParameter, owner *Symbol) *Symbol {
	symbol := &Symbol{Kind: TYPE_PARAMETER, Name: decl.Name, Owner: owner, Attributes: decl.Attributes, Decl: decl}
	symbol.Type = &Type{Name: decl.Name, Symbol: symbol}
	p.model.declared[decl.Id()] = symbol
	//
	return symbol
}

// Construct symbols for the parameters of a given owner, without declaring them
// in the current environment.
func (p *resolver) parameters(params []*ast.Parameter, owner *Symbol) []*Symbol {
	var symbols = make([]*Symbol, len(params))
	//
	for i, param := range params {
		symbols[i] = &Symbol{Kind: PARAMETER, Name: param.Name, Type: p.typeRef(param.Type), Owner: owner,
			Index: i, Attributes: param.Attributes, Decl: param}
		p.model.declared[param.Id()] = symbols[i]
	}
	//
	return symbols
}

func (p *resolver) typeRef(ref *ast.TypeRef) *Type {
	var (
		symbol *Symbol
		args   []*Type
	)
	//
	if ref == nil {
		return nil
	} else if s := p.lookup(ref.Name); s != nil && s.Kind == TYPE_PARAMETER {
		symbol = s
	} else if s, ok := p.model.types[ref.Name]; ok {
		symbol = s
	} else {
		p.error(ref, "unknown type '%s'", ref.Name)
	}
	//
	for _, arg := range ref.Args {
		args = append(args, p.typeRef(arg))
	}
	//
	typ := &Type{Name: ref.Name, Args: args, Rank: ref.Rank, Symbol: symbol}
	//
	if symbol != nil {
		p.model.resolved[ref.Id()] = symbol
	}
	//
	p.model.typings[ref.Id()] = typ
	//
	return typ
}

// Construct a type with a given name, such as for a primitive.
func (p *resolver) named(name string, args ...*Type) *Type {
	return &Type{Name: name, Args: args, Symbol: p.model.types[name]}
}

// ============================================================================
// Statements
// ============================================================================

func (p *resolver) template(decl *ast.Member) {
	var symbol = p.model.declared[decl.Id()]
	//
	p.push()
	//
	for _, tp := range symbol.TypeParams {
		p.env.names[tp.Name] = tp
	}
	//
	p.function(symbol, decl.Body)
	p.pop()
}

// Resolve the body of a template or local function, whose parameters are
// declared in a fresh environment.
func (p *resolver) function(symbol *Symbol, body *ast.Block) {
	var owner = p.owner
	//
	p.owner = symbol
	p.push()
	//
	for _, param := range symbol.Params {
		p.declare(param.Decl, param)
	}
	//
	p.block(body)
	p.pop()
	p.owner = owner
}

func (p *resolver) block(block *ast.Block) {
	p.push()
	// Local functions can be called before they are declared.
	for _, stmt := range block.Stmts {
		if fn, ok := stmt.(*ast.LocalFunction); ok {
			symbol := &Symbol{Kind: LOCAL_FUNCTION, Name: fn.Name, Type: p.typeRef(fn.Return), Owner: p.owner,
				Decl: fn}
			symbol.Params = p.parameters(fn.Params, symbol)
			p.declare(fn, symbol)
		}
	}
	//
	for _, stmt := range block.Stmts {
		p.stmt(stmt)
	}
	//
	p.pop()
}

// Resolve a statement embedded within another, such as the body of a loop.
func (p *resolver) nested(stmt ast.Stmt) {
	p.push()
	p.stmt(stmt)
	p.pop()
}

func (p *resolver) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		p.block(s)
	case *ast.LocalDecl:
		var typ *Type
		//
		if s.Init != nil {
			typ = p.expr(s.Init)
		}
		//
		if s.Type != nil {
			typ = p.typeRef(s.Type)
		} else if typ == nil {
			typ = p.named(OBJECT)
		}
		//
		p.declare(s, &Symbol{Kind: LOCAL, Name: s.Name, Type: typ, Owner: p.owner, Attributes: s.Attributes,
			Decl: s})
	case *ast.ExprStmt:
		p.expr(s.Expr)
	case *ast.If:
		p.expr(s.Cond)
		p.nested(s.Then)
		//
		if s.Else != nil {
			p.nested(s.Else)
		}
	case *ast.While:
		p.expr(s.Cond)
		p.nested(s.Body)
	case *ast.DoWhile:
		p.nested(s.Body)
		p.expr(s.Cond)
	case *ast.For:
		p.push()
		//
		for _, init := range s.Init {
			p.stmt(init)
		}
		//
		if s.Cond != nil {
			p.expr(s.Cond)
		}
		//
		p.exprs(s.Step)
		p.nested(s.Body)
		p.pop()
	case *ast.Foreach:
		var (
			src = p.expr(s.Source)
			typ = p.typeRef(s.Type)
		)
		//
		if typ == nil {
			typ = src.Element()
		}
		//
		if typ == nil {
			typ = p.named(OBJECT)
		}
		//
		p.push()
		p.declare(s, &Symbol{Kind: LOCAL, Name: s.Name, Type: typ, Owner: p.owner, Decl: s})
		p.nested(s.Body)
		p.pop()
	case *ast.Switch:
		p.expr(s.Subject)
		p.push()
		//
		for _, section := range s.Sections {
			p.exprs(section.Labels)
			//
			for _, stmt := range section.Body {
				p.stmt(stmt)
			}
		}
		//
		p.pop()
	case *ast.Return:
		if s.Value != nil {
			p.expr(s.Value)
		}
	case *ast.YieldReturn:
		p.expr(s.Value)
	case *ast.Labeled:
		p.stmt(s.Stmt)
	case *ast.Unsafe:
		p.block(s.Body)
	case *ast.LocalFunction:
		p.function(p.model.declared[s.Id()], s.Body)
	case *ast.Break, *ast.Continue, *ast.YieldBreak, *ast.Goto, *ast.Empty:
		// nothing to resolve
	default:
		panic("unknown statement encountered")
	}
}

// ============================================================================
// Expressions
// ============================================================================

func (p *resolver) exprs(exprs []ast.Expr) []*Type {
	var types = make([]*Type, len(exprs))
	//
	for i, e := range exprs {
		types[i] = p.expr(e)
	}
	//
	return types
}

func (p *resolver) expr(expr ast.Expr) *Type {
	var typ *Type
	//
	switch e := expr.(type) {
	case *ast.Literal:
		typ = p.literal(e)
	case *ast.Name:
		typ = p.name(e)
	case *ast.MemberAccess:
		typ = p.memberAccess(e)
	case *ast.ElementAccess:
		target := p.expr(e.Target)
		p.exprs(e.Indices)
		//
		if typ = target.Element(); typ == nil && target != nil {
			typ = p.named(OBJECT)
		}
	case *ast.Invocation:
		typ = p.invocation(e)
	case *ast.Binary:
		typ = p.binary(e)
	case *ast.Unary:
		if typ = p.expr(e.Operand); e.Op == ast.NOT {
			typ = p.named("bool")
		}
	case *ast.Assignment:
		typ = p.expr(e.Target)
		p.expr(e.Value)
	case *ast.Conditional:
		p.expr(e.Cond)
		typ = p.expr(e.Then)
		p.expr(e.Else)
	case *ast.Cast:
		typ = p.typeRef(e.Type)
		p.expr(e.Operand)
	case *ast.TypeOf:
		p.typeRef(e.Type)
		typ = p.named("Type")
	case *ast.NameOf:
		p.expr(e.Operand)
		typ = p.named("string")
	case *ast.Lambda:
		typ = p.lambda(e.Params, e.Body)
	case *ast.AnonymousMethod:
		typ = p.lambda(e.Params, e.Body)
	case *ast.ObjectCreation:
		typ = p.objectCreation(e)
	case *ast.AnonymousObject:
		typ = &Type{Name: ANONYMOUS}
		//
		for _, m := range e.Members {
			typ.Members = append(typ.Members, p.member(m, m.Name, m.Value))
		}
	case *ast.ArrayCreation:
		typ = p.arrayCreation(e)
	case *ast.Tuple:
		typ = &Type{Name: TUPLE}
		//
		for i, elem := range e.Elements {
			var name = elem.Name
			//
			if name == "" {
				name = fmt.Sprintf("Item%d", i+1)
			}
			//
			member := p.member(elem, name, elem.Value)
			typ.Members = append(typ.Members, member)
			typ.Args = append(typ.Args, member.Type)
		}
	case *ast.Query:
		typ = p.query(e)
	default:
		panic("unknown expression encountered")
	}
	//
	p.model.typings[expr.Id()] = typ
	//
	return typ
}

func (p *resolver) literal(e *ast.Literal) *Type {
	switch e.Kind {
	case ast.INT:
		return p.named("int")
	case ast.FLOAT:
		return p.named("double")
	case ast.STRING:
		return p.named("string")
	case ast.CHAR:
		return p.named("char")
	case ast.BOOL:
		return p.named("bool")
	default:
		return p.named(OBJECT)
	}
}

func (p *resolver) name(e *ast.Name) *Type {
	var symbol = p.lookup(e.Ident)
	//
	if symbol == nil {
		symbol = p.model.types[e.Ident]
	}
	//
	if symbol == nil {
		symbol = p.model.templates[e.Ident]
	}
	//
	if symbol == nil {
		p.error(e, "unknown name '%s'", e.Ident)
		return nil
	}
	//
	p.model.resolved[e.Id()] = symbol
	//
	return symbol.Type
}

func (p *resolver) memberAccess(e *ast.MemberAccess) *Type {
	var target = p.expr(e.Target)
	//
	if target == nil || target.IsDynamic() {
		return target
	}
	//
	symbol, typ := target.Member(e.Name)
	//
	if symbol == nil {
		p.error(e, "unknown member '%s' of '%s'", e.Name, target)
		return nil
	}
	//
	p.model.resolved[e.Id()] = symbol
	//
	return typ
}

func (p *resolver) invocation(e *ast.Invocation) *Type {
	var (
		callee = p.expr(e.Callee)
		args   = p.exprs(e.Args)
		symbol = p.model.resolved[e.Callee.Id()]
	)
	//
	if symbol != nil {
		p.model.resolved[e.Id()] = symbol
	}
	//
	switch {
	case callee == nil && symbol == nil:
		return nil
	case symbol != nil && (symbol.Kind == METHOD || symbol.Kind == LOCAL_FUNCTION || symbol.Kind == TEMPLATE):
		var bindings = make(map[*Symbol]*Type)
		// Infer method type parameters from arguments
		for i, param := range symbol.Params {
			if i < len(args) {
				unify(param.Type, args[i], symbol.TypeParams, bindings)
			}
		}
		//
		return callee.Substitute(bindings)
	case callee.IsDynamic():
		return callee
	default:
		return p.named(OBJECT)
	}
}

// Unify a parameter type with the type of an argument, binding any of the given
// type parameters mentioned by the former.
func unify(param *Type, arg *Type, typeParams []*Symbol, bindings map[*Symbol]*Type) {
	switch {
	case param == nil || arg == nil:
		return
	case param.IsTypeParameter() && slices.Contains(typeParams, param.Symbol) && param.Rank <= arg.Rank:
		if _, ok := bindings[param.Symbol]; !ok {
			bindings[param.Symbol] = &Type{arg.Name, arg.Args, arg.Rank - param.Rank, arg.Symbol, arg.Members}
		}
	case param.Name == arg.Name && len(param.Args) == len(arg.Args):
		for i := range param.Args {
			unify(param.Args[i], arg.Args[i], typeParams, bindings)
		}
	}
}

func (p *resolver) binary(e *ast.Binary) *Type {
	var (
		lhs = p.expr(e.Left)
		rhs = p.expr(e.Right)
	)
	//
	switch {
	case e.Op == ast.ADD || e.Op == ast.SUB || e.Op == ast.MUL || e.Op == ast.DIV || e.Op == ast.REM:
		// arithmetic
	default:
		return p.named("bool")
	}
	//
	switch {
	case lhs.IsDynamic() || rhs.IsDynamic():
		return p.named(DYNAMIC)
	case isNamed(lhs, "string") || isNamed(rhs, "string"):
		return p.named("string")
	case isNamed(lhs, "double") || isNamed(rhs, "double"):
		return p.named("double")
	case lhs != nil:
		return lhs
	default:
		return rhs
	}
}

func isNamed(t *Type, name string) bool {
	return t != nil && t.Name == name && t.Rank == 0
}

func (p *resolver) lambda(params []*ast.Parameter, body ast.Node) *Type {
	p.push()
	//
	for i, param := range params {
		typ := p.typeRef(param.Type)
		//
		if typ == nil {
			typ = p.named(OBJECT)
		}
		//
		p.declare(param, &Symbol{Kind: LAMBDA_PARAMETER, Name: param.Name, Type: typ, Owner: p.owner, Index: i,
			Attributes: param.Attributes, Decl: param})
	}
	//
	switch body := body.(type) {
	case *ast.Block:
		p.block(body)
	case ast.Expr:
		p.expr(body)
	}
	//
	p.pop()
	//
	return &Type{Name: LAMBDA}
}

func (p *resolver) objectCreation(e *ast.ObjectCreation) *Type {
	var typ = p.typeRef(e.Type)
	//
	if typ.Symbol != nil {
		p.model.resolved[e.Id()] = typ.Symbol
	}
	//
	p.exprs(e.Args)
	//
	for _, init := range e.Initializers {
		// Member initialisers refer to members of the created type
		if assign, ok := init.(*ast.Assignment); ok {
			if name, ok := assign.Target.(*ast.Name); ok {
				symbol, mtype := typ.Member(name.Ident)
				//
				if symbol == nil {
					p.error(name, "unknown member '%s' of '%s'", name.Ident, typ)
				} else {
					p.model.resolved[name.Id()] = symbol
				}
				//
				p.model.typings[name.Id()] = mtype
				p.model.typings[assign.Id()] = mtype
				p.expr(assign.Value)
				//
				continue
			}
		}
		//
		p.expr(init)
	}
	//
	return typ
}

// Declare the member of an anonymous object or tuple.
func (p *resolver) member(decl ast.Node, name string, value ast.Expr) *Symbol {
	var symbol = &Symbol{Kind: ANONYMOUS_MEMBER, Name: name, Type: p.expr(value), Owner: p.owner, Decl: decl}
	//
	p.model.declared[decl.Id()] = symbol
	//
	return symbol
}

func (p *resolver) arrayCreation(e *ast.ArrayCreation) *Type {
	var (
		element = p.typeRef(e.Element)
		items   = p.exprs(e.Items)
	)
	//
	if element == nil && len(items) > 0 {
		element = items[0]
	}
	//
	if element == nil {
		element = p.named(OBJECT)
	}
	//
	return &Type{element.Name, element.Args, element.Rank + 1, element.Symbol, nil}
}

func (p *resolver) query(e *ast.Query) *Type {
	var (
		src     = p.expr(e.Source)
		element = src.Element()
	)
	//
	if element == nil {
		element = p.named(OBJECT)
	}
	//
	p.push()
	p.declare(e, &Symbol{Kind: LOCAL, Name: e.Variable, Type: element, Owner: p.owner, Decl: e})
	//
	if e.Where != nil {
		p.expr(e.Where)
	}
	//
	selected := p.expr(e.Select)
	p.pop()
	//
	return p.named("IEnumerable", selected)
}
